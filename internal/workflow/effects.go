package workflow

import (
	"group-verify-bot/internal/messenger"
	"group-verify-bot/internal/models"
)

// Effect is an action the caller performs after a transition
type Effect interface {
	isEffect()
}

// Reply sends a message back to the user
type Reply struct {
	Text     string
	Keyboard *messenger.Keyboard
}

// Submit files the collected record with the registry and notifies the admin.
// RequestID and SubmittedAt are stamped by the caller.
type Submit struct {
	Record models.VerificationRecord
}

func (Reply) isEffect()  {}
func (Submit) isEffect() {}
