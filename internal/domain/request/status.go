package request

// Status is the lifecycle status of a network request. The set is open:
// administrators may assign any non-empty status string. Only Pending and
// Cancelled carry behavior in the core. Pending is the only cancellable
// state and Cancelled is the only state that releases reserved inventory.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

func (s Status) IsCancelled() bool {
	return s == StatusCancelled
}

// IsValid reports whether the status may be stored. Any non-empty string is
// allowed so domain-specific statuses flow through untouched.
func (s Status) IsValid() bool {
	return s != ""
}
