package workflow

import (
	"errors"
	"strings"

	"group-verify-bot/internal/commands"
	apperrors "group-verify-bot/internal/errors"
	"group-verify-bot/internal/messenger"
	"group-verify-bot/internal/models"
	"group-verify-bot/internal/validation"
)

// Step applies one input to a session. status is the user's current registry
// status; blocked users are refused at every step. The returned session has
// State Idle when the conversation is over and should be discarded.
func Step(s Session, status models.Status, in Input) (Session, []Effect) {
	idle := Session{UserID: s.UserID, State: Idle}

	if status == models.StatusBlocked {
		return idle, reply(msgBlocked, messenger.RemoveKeyboard())
	}

	if in.Kind == InputStart {
		switch status {
		case models.StatusVerified:
			return idle, reply(msgAlreadyVerified, messenger.RemoveKeyboard())
		case models.StatusPending:
			return idle, reply(msgAlreadyPending, messenger.RemoveKeyboard())
		}
		return Session{UserID: s.UserID, State: AwaitingName}, reply(msgAskName, cancelKeyboard())
	}

	if s.State != Idle && isCancel(in) {
		return idle, reply(msgCancelled, messenger.RemoveKeyboard())
	}

	switch s.State {
	case AwaitingName:
		return stepName(s, in)
	case AwaitingPhone:
		return stepPhone(s, in)
	case AwaitingProof:
		return stepProof(s, in)
	case AwaitingConfirmation:
		return stepConfirmation(s, in)
	default:
		return stepIdle(idle, status)
	}
}

func stepIdle(s Session, status models.Status) (Session, []Effect) {
	switch status {
	case models.StatusVerified:
		return s, reply(msgAlreadyVerified, nil)
	case models.StatusPending:
		return s, reply(msgAlreadyPending, nil)
	default:
		return s, reply(msgIdle, nil)
	}
}

func stepName(s Session, in Input) (Session, []Effect) {
	if in.Kind != InputText {
		return s, reply(msgAskName, cancelKeyboard())
	}

	name, err := validation.ValidateFullName(in.Text)
	if err != nil {
		return s, reply(msgInvalidName, cancelKeyboard())
	}

	s.FullName = name
	s.Handle = in.Sender.Handle
	s.DisplayName = in.Sender.DisplayName
	s.State = AwaitingPhone
	return s, reply(msgAskPhone, phoneKeyboard())
}

func stepPhone(s Session, in Input) (Session, []Effect) {
	var raw string
	switch in.Kind {
	case InputContact:
		raw = in.Phone
	case InputText:
		raw = in.Text
	default:
		return s, reply(msgAskPhone, phoneKeyboard())
	}

	phone, err := validation.NormalizePhone(raw)
	if err != nil {
		return s, reply(msgAskPhone, phoneKeyboard())
	}

	s.Phone = phone
	s.State = AwaitingProof
	return s, reply(msgAskProof, cancelKeyboard())
}

func stepProof(s Session, in Input) (Session, []Effect) {
	if in.Kind != InputPhoto || in.ImageRef == "" {
		return s, reply(msgInvalidProof, cancelKeyboard())
	}

	s.ProofRef = in.ImageRef
	s.ProofIsFile = in.Document
	s.State = AwaitingConfirmation
	return s, reply(summary(s), confirmKeyboard())
}

func stepConfirmation(s Session, in Input) (Session, []Effect) {
	if in.Kind == InputText {
		switch strings.TrimSpace(in.Text) {
		case commands.Confirm:
			record := models.VerificationRecord{
				UserID:         s.UserID,
				FullName:       s.FullName,
				Phone:          s.Phone,
				Handle:         s.Handle,
				DisplayName:    s.DisplayName,
				ProofReference: s.ProofRef,
				ProofIsFile:    s.ProofIsFile,
			}
			return Session{UserID: s.UserID, State: Idle}, []Effect{Submit{Record: record}}
		case commands.Edit:
			return Session{UserID: s.UserID, State: AwaitingName}, reply(msgAskName, cancelKeyboard())
		}
	}
	return s, reply(summary(s), confirmKeyboard())
}

// SubmitResult is the reply for the outcome of filing a record
func SubmitResult(err error) Reply {
	switch {
	case err == nil:
		return Reply{Text: msgSubmitted, Keyboard: messenger.RemoveKeyboard()}
	case errors.Is(err, apperrors.ErrBlocked):
		return Reply{Text: msgBlocked, Keyboard: messenger.RemoveKeyboard()}
	case errors.Is(err, apperrors.ErrAlreadyVerified):
		return Reply{Text: msgAlreadyVerified, Keyboard: messenger.RemoveKeyboard()}
	case errors.Is(err, apperrors.ErrAlreadyPending):
		return Reply{Text: msgAlreadyPending, Keyboard: messenger.RemoveKeyboard()}
	default:
		return Reply{Text: msgSubmitFailed, Keyboard: messenger.RemoveKeyboard()}
	}
}

func isCancel(in Input) bool {
	if in.Kind != InputText {
		return false
	}
	text := strings.TrimSpace(in.Text)
	return text == commands.Cancel || text == commands.CancelSlash
}

func reply(text string, keyboard *messenger.Keyboard) []Effect {
	return []Effect{Reply{Text: text, Keyboard: keyboard}}
}
