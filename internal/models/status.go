package models

// Status is the single registry state of a user. A user holds exactly one
// status at a time, which keeps verified, blocked and pending disjoint.
type Status int

const (
	// StatusNone is the implicit default for users the registry has not decided on
	StatusNone Status = iota
	// StatusPending means a verification record awaits an admin decision
	StatusPending
	// StatusVerified means the user may post without restriction
	StatusVerified
	// StatusBlocked means the user was rejected and is subject to message removal
	StatusBlocked
)

// String returns a readable status name
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusVerified:
		return "verified"
	case StatusBlocked:
		return "blocked"
	default:
		return "none"
	}
}
