package workflow

import "group-verify-bot/internal/events"

// State is the step a private registration conversation is at
type State int

const (
	// Idle means no registration is in progress
	Idle State = iota
	// AwaitingName is the state when the user is inputting a full name
	AwaitingName
	// AwaitingPhone is the state when the user is sharing a phone number
	AwaitingPhone
	// AwaitingProof is the state when the user is sending the eligibility screenshot
	AwaitingProof
	// AwaitingConfirmation is the state when the user reviews the collected data
	AwaitingConfirmation
)

// String returns the state name used in logs
func (s State) String() string {
	switch s {
	case AwaitingName:
		return "awaiting_name"
	case AwaitingPhone:
		return "awaiting_phone"
	case AwaitingProof:
		return "awaiting_proof"
	case AwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "idle"
	}
}

// Session is the data collected so far in one user's registration
type Session struct {
	UserID      int64
	State       State
	FullName    string
	Handle      string
	DisplayName string
	Phone       string
	ProofRef    string
	ProofIsFile bool
}

// InputKind identifies what the user sent
type InputKind int

const (
	// InputStart is the explicit start action
	InputStart InputKind = iota
	// InputText is a free text message, including button presses
	InputText
	// InputContact is a structured contact share
	InputContact
	// InputPhoto is an image
	InputPhoto
)

// Input is one private-chat event reduced to what the state machine needs
type Input struct {
	Kind     InputKind
	Sender   events.Sender
	Text     string
	Phone    string
	ImageRef string
	Document bool
}
