package models

import "time"

// User is the identity of a chat participant as observed on the platform
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle,omitempty"`
}

// VerificationRecord is a submitted application awaiting an admin decision
type VerificationRecord struct {
	RequestID      string    `json:"request_id"`
	UserID         int64     `json:"user_id"`
	FullName       string    `json:"full_name"`
	Phone          string    `json:"phone"`
	Handle         string    `json:"handle,omitempty"`
	DisplayName    string    `json:"display_name"`
	ProofReference string    `json:"proof_reference"`
	ProofIsFile    bool      `json:"proof_is_file,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// ClearStats reports how many entries a registry reset removed
type ClearStats struct {
	Verified int `json:"verified"`
	Blocked  int `json:"blocked"`
	Pending  int `json:"pending"`
	Counters int `json:"counters"`
}

// Total returns the number of users the reset touched
func (s ClearStats) Total() int {
	return s.Verified + s.Blocked + s.Pending + s.Counters
}

// RegistryStats is a point-in-time view of the registry sizes
type RegistryStats struct {
	Verified int `json:"verified"`
	Blocked  int `json:"blocked"`
	Pending  int `json:"pending"`
	Counted  int `json:"counted"`
}
