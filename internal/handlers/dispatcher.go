package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"group-verify-bot/internal/commands"
	"group-verify-bot/internal/events"
	"group-verify-bot/internal/moderation"
	"group-verify-bot/internal/permissions"
	"group-verify-bot/internal/workflow"
)

// AdminHandler handles text from the admin authority
type AdminHandler interface {
	Handle(ctx context.Context, text string) error
}

// GroupGuard inspects monitored group messages
type GroupGuard interface {
	Inspect(ctx context.Context, msg events.TextMessage) moderation.Verdict
}

// WorkflowHandler runs private registration conversations
type WorkflowHandler interface {
	Handle(ctx context.Context, userID int64, in workflow.Input) error
}

// Dispatcher routes every inbound event to exactly one of the workflow, the
// guard or the admin authority
type Dispatcher struct {
	permCtrl  *permissions.PermissionController
	workflow  WorkflowHandler
	guard     GroupGuard
	authority AdminHandler
	logger    *logrus.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(
	permCtrl *permissions.PermissionController,
	wf WorkflowHandler,
	guard GroupGuard,
	authority AdminHandler,
	logger *logrus.Logger,
) *Dispatcher {
	return &Dispatcher{
		permCtrl:  permCtrl,
		workflow:  wf,
		guard:     guard,
		authority: authority,
		logger:    logger,
	}
}

// Dispatch handles one normalized event
func (d *Dispatcher) Dispatch(ctx context.Context, ev events.Event) error {
	sender := ev.From()
	_, kind := ev.Chat()

	if kind == events.Group {
		return d.dispatchGroup(ctx, ev)
	}

	if d.permCtrl.IsAdmin(sender.ID) {
		return d.dispatchAdmin(ctx, ev)
	}

	d.logger.WithFields(logrus.Fields{
		"user_id": sender.ID,
		"access":  d.permCtrl.GetAccessType(sender.ID).String(),
	}).Debug("Routing private event to workflow")

	switch e := ev.(type) {
	case events.CommandStart:
		return d.workflow.Handle(ctx, sender.ID, workflow.Input{Kind: workflow.InputStart, Sender: sender})
	case events.TextMessage:
		return d.workflow.Handle(ctx, sender.ID, workflow.Input{Kind: workflow.InputText, Sender: sender, Text: e.Text})
	case events.ContactShared:
		return d.workflow.Handle(ctx, sender.ID, workflow.Input{Kind: workflow.InputContact, Sender: sender, Phone: e.Phone})
	case events.PhotoMessage:
		return d.workflow.Handle(ctx, sender.ID, workflow.Input{Kind: workflow.InputPhoto, Sender: sender, ImageRef: e.ImageRef, Document: e.Document})
	}
	return nil
}

func (d *Dispatcher) dispatchGroup(ctx context.Context, ev events.Event) error {
	var msg events.TextMessage
	switch e := ev.(type) {
	case events.TextMessage:
		msg = e
	case events.CommandStart:
		msg = events.TextMessage{
			ChatID:    e.ChatID,
			Kind:      e.Kind,
			MessageID: e.MessageID,
			Sender:    e.Sender,
			Text:      commands.Start,
		}
	default:
		return nil
	}

	verdict := d.guard.Inspect(ctx, msg)
	d.logger.WithFields(logrus.Fields{
		"user_id": msg.Sender.ID,
		"chat_id": msg.ChatID,
	}).Debugf("Group message %s", verdict)
	return nil
}

func (d *Dispatcher) dispatchAdmin(ctx context.Context, ev events.Event) error {
	switch e := ev.(type) {
	case events.TextMessage:
		return d.authority.Handle(ctx, e.Text)
	case events.CommandStart:
		return d.authority.Handle(ctx, commands.Start)
	default:
		d.logger.Debugf("Ignoring admin event %T", ev)
		return nil
	}
}
