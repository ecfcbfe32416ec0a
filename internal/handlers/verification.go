package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"group-verify-bot/internal/approval"
	"group-verify-bot/internal/messenger"
	"group-verify-bot/internal/metrics"
	"group-verify-bot/internal/models"
	"group-verify-bot/internal/services"
	"group-verify-bot/internal/workflow"
)

// PendingStore is the part of the registry the verification workflow needs
type PendingStore interface {
	Status(userID int64) models.Status
	PutPending(record models.VerificationRecord) error
}

// VerificationHandler runs private registration conversations
type VerificationHandler struct {
	store     PendingStore
	sessions  *services.SessionStore
	messenger messenger.Messenger
	adminID   int64
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(
	store PendingStore,
	sessions *services.SessionStore,
	m messenger.Messenger,
	adminID int64,
	mtr *metrics.Metrics,
	logger *logrus.Logger,
) *VerificationHandler {
	return &VerificationHandler{
		store:     store,
		sessions:  sessions,
		messenger: m,
		adminID:   adminID,
		metrics:   mtr,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle applies one private-chat input to the user's conversation
func (h *VerificationHandler) Handle(ctx context.Context, userID int64, in workflow.Input) error {
	unlock := h.sessions.Lock(userID)
	session, err := h.sessions.Get(userID)
	if err != nil {
		h.logger.Errorf("Failed to get session: %v", err)
		session = workflow.Session{UserID: userID}
	}

	prev := session.State
	next, effects := workflow.Step(session, h.store.Status(userID), in)
	h.sessions.Save(next)
	unlock()

	h.logger.WithField("user_id", userID).Debugf("Workflow %s -> %s", prev, next.State)

	for _, effect := range effects {
		switch e := effect.(type) {
		case workflow.Reply:
			h.send(ctx, userID, e.Text, e.Keyboard)
		case workflow.Submit:
			h.submit(ctx, e.Record)
		}
	}
	return nil
}

// submit files the record, then tells the user and the admin
func (h *VerificationHandler) submit(ctx context.Context, record models.VerificationRecord) {
	record.RequestID = uuid.NewString()
	record.SubmittedAt = h.now()

	err := h.store.PutPending(record)
	log := h.logger.WithFields(logrus.Fields{
		"user_id":    record.UserID,
		"request_id": record.RequestID,
	})

	result := workflow.SubmitResult(err)
	h.send(ctx, record.UserID, result.Text, result.Keyboard)
	if err != nil {
		log.Warnf("Verification request refused: %v", err)
		return
	}

	h.metrics.IncrementSubmitted()
	log.Info("Verification request submitted")

	caption := approval.SubmissionCaption(record)
	keyboard := approval.DecisionKeyboard(record.UserID)
	if record.ProofIsFile {
		err = h.messenger.SendDocument(ctx, h.adminID, record.ProofReference, caption, keyboard)
	} else {
		err = h.messenger.SendPhoto(ctx, h.adminID, record.ProofReference, caption, keyboard)
	}
	if messenger.BestEffort(h.logger, "notify_admin_proof", h.adminID, err) {
		return
	}

	// the record stays pending; the admin can still decide from the text notice
	h.metrics.IncrementDeliveryFailure("send_proof")
	h.send(ctx, h.adminID, caption, keyboard)
}

func (h *VerificationHandler) send(ctx context.Context, chatID int64, text string, keyboard *messenger.Keyboard) {
	err := h.messenger.SendText(ctx, chatID, text, keyboard)
	if !messenger.BestEffort(h.logger, "send", chatID, err) {
		h.metrics.IncrementDeliveryFailure("send")
	}
}
