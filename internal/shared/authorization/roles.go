package authorization

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}

// Actor identifies the authenticated caller of a core operation.
type Actor struct {
	UserID uint
	Role   UserRole
}

// CanAccessOwnedResource reports whether the actor may act on a resource
// owned by ownerID. Admins may act on anything.
func (a Actor) CanAccessOwnedResource(ownerID uint) bool {
	if a.Role.IsAdmin() {
		return true
	}
	return a.UserID == ownerID
}
