// Package user provides the user account entity. Credential hashing and
// token issuance live in the infrastructure auth package; the domain only
// stores the resulting hash.
package user

import (
	"fmt"
	"time"

	"netreq/internal/shared/authorization"
)

type User struct {
	id           uint
	fullName     string
	email        string
	passwordHash string
	phone        string
	role         authorization.UserRole
	createdAt    time.Time
}

func NewUser(fullName, email, passwordHash, phone string, role authorization.UserRole) (*User, error) {
	if fullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	if !role.IsValid() {
		role = authorization.RoleUser
	}

	return &User{
		fullName:     fullName,
		email:        email,
		passwordHash: passwordHash,
		phone:        phone,
		role:         role,
		createdAt:    time.Now(),
	}, nil
}

func ReconstructUser(id uint, fullName, email, passwordHash, phone string, role authorization.UserRole, createdAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	return &User{
		id:           id,
		fullName:     fullName,
		email:        email,
		passwordHash: passwordHash,
		phone:        phone,
		role:         role,
		createdAt:    createdAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) FullName() string {
	return u.fullName
}

func (u *User) Email() string {
	return u.email
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) Role() authorization.UserRole {
	return u.role
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) UpdateProfile(fullName, phone string) {
	if fullName != "" {
		u.fullName = fullName
	}
	if phone != "" {
		u.phone = phone
	}
}

func (u *User) ChangePasswordHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("password hash is required")
	}
	u.passwordHash = hash
	return nil
}

// ChangeRole assigns a new role. Only valid roles are accepted.
func (u *User) ChangeRole(role authorization.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	u.role = role
	return nil
}
