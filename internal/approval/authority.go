package approval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"group-verify-bot/internal/constants"
	apperrors "group-verify-bot/internal/errors"
	"group-verify-bot/internal/messenger"
	"group-verify-bot/internal/metrics"
	"group-verify-bot/internal/models"
)

// Store is the part of the registry the authority acts on
type Store interface {
	Approve(userID int64) (models.VerificationRecord, time.Time, error)
	Reject(userID int64) (models.VerificationRecord, error)
	ClearAll() models.ClearStats
	PendingRecords() []models.VerificationRecord
	Stats() models.RegistryStats
}

// SessionCounter reports how many registrations are in progress
type SessionCounter interface {
	Count() int
}

// QRGenerator renders a QR code image
type QRGenerator interface {
	GenerateQR(text string) ([]byte, error)
}

// Config holds the authority settings
type Config struct {
	AdminID           int64
	GroupID           int64
	AnnounceApprovals bool
	EntryLink         string
}

const clearKey = "clear_confirmation"

// Authority processes admin decisions on pending records and registry maintenance
type Authority struct {
	store     Store
	messenger messenger.Messenger
	sessions  SessionCounter
	qr        QRGenerator
	config    Config
	confirm   *cache.Cache
	confirmMu sync.Mutex
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

// NewAuthority creates a new approval authority
func NewAuthority(
	store Store,
	m messenger.Messenger,
	sessions SessionCounter,
	qr QRGenerator,
	cfg Config,
	mtr *metrics.Metrics,
	logger *logrus.Logger,
) *Authority {
	return &Authority{
		store:     store,
		messenger: m,
		sessions:  sessions,
		qr:        qr,
		config:    cfg,
		confirm:   cache.New(constants.ClearConfirmationTTL, constants.SessionCleanupInterval),
		metrics:   mtr,
		logger:    logger,
	}
}

// Handle handles one text message from the admin
func (a *Authority) Handle(ctx context.Context, text string) error {
	cmd, err := ParseCommand(text)
	if err != nil {
		a.logger.Warnf("Failed to parse admin command: %v", err)
		return a.reply(ctx, parseErrorReport(err), nil)
	}

	switch cmd.Kind {
	case CmdApprove:
		_, err := a.Approve(ctx, cmd.UserID)
		return ignoreNotFound(err)
	case CmdReject:
		_, err := a.Reject(ctx, cmd.UserID)
		return ignoreNotFound(err)
	case CmdClear:
		return a.RequestClear(ctx)
	case CmdConfirmClear:
		_, err := a.ConfirmClear(ctx)
		return err
	case CmdCancelClear:
		return a.CancelClear(ctx)
	case CmdPending:
		for _, report := range pendingReport(a.store.PendingRecords()) {
			if err := a.reply(ctx, report, nil); err != nil {
				return err
			}
		}
		return nil
	case CmdStats:
		return a.reply(ctx, statsReport(a.store.Stats(), a.openSessions()), nil)
	case CmdLink:
		return a.sendLink(ctx)
	default:
		return a.reply(ctx, msgHelp, nil)
	}
}

// Approve verifies the user behind a pending record. It returns
// errors.ErrNotFound when no record exists, which is the normal outcome of a
// repeated or concurrent decision.
func (a *Authority) Approve(ctx context.Context, userID int64) (models.VerificationRecord, error) {
	record, registeredAt, err := a.store.Approve(userID)
	if err != nil {
		return a.notFound(ctx, "approve", userID, err)
	}

	a.metrics.IncrementDecision("approve", "ok")
	a.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"decision":   "approve",
		"request_id": record.RequestID,
	}).Infof("Approved verification, registered at %s", registeredAt.Format(constants.TimestampFormat))

	a.deliver(ctx, "notify_user", userID, msgUserApproved)
	if a.config.AnnounceApprovals && a.config.GroupID != 0 {
		a.deliver(ctx, "announce", a.config.GroupID, welcomeText(record))
	}
	a.deliver(ctx, "report_admin", a.config.AdminID, approvedReport(record))
	return record, nil
}

// Reject blocks the user behind a pending record
func (a *Authority) Reject(ctx context.Context, userID int64) (models.VerificationRecord, error) {
	record, err := a.store.Reject(userID)
	if err != nil {
		return a.notFound(ctx, "reject", userID, err)
	}

	a.metrics.IncrementDecision("reject", "ok")
	a.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"decision":   "reject",
		"request_id": record.RequestID,
	}).Info("Rejected verification")

	a.deliver(ctx, "notify_user", userID, msgUserRejected)
	a.deliver(ctx, "report_admin", a.config.AdminID, rejectedReport(record))
	return record, nil
}

// RequestClear asks the admin to confirm a full memory reset
func (a *Authority) RequestClear(ctx context.Context) error {
	a.confirmMu.Lock()
	a.confirm.Set(clearKey, true, cache.DefaultExpiration)
	a.confirmMu.Unlock()

	return a.reply(ctx, msgClearPrompt, clearKeyboard())
}

// ConfirmClear empties the registry if a clear request is outstanding. The
// second return value is false when there was nothing to confirm.
func (a *Authority) ConfirmClear(ctx context.Context) (bool, error) {
	a.confirmMu.Lock()
	_, requested := a.confirm.Get(clearKey)
	if !requested {
		a.confirmMu.Unlock()
		return false, a.reply(ctx, msgClearExpired, messenger.RemoveKeyboard())
	}
	a.confirm.Delete(clearKey)
	stats := a.store.ClearAll()
	a.confirmMu.Unlock()

	a.logger.Infof("Admin cleared memory: %d entries", stats.Total())
	return true, a.reply(ctx, clearedReport(stats), messenger.RemoveKeyboard())
}

// CancelClear withdraws an outstanding clear request
func (a *Authority) CancelClear(ctx context.Context) error {
	a.confirmMu.Lock()
	a.confirm.Delete(clearKey)
	a.confirmMu.Unlock()

	return a.reply(ctx, msgClearCancelled, messenger.RemoveKeyboard())
}

func (a *Authority) sendLink(ctx context.Context) error {
	if a.config.EntryLink == "" || a.qr == nil {
		return a.reply(ctx, msgNoLink, nil)
	}

	png, err := a.qr.GenerateQR(a.config.EntryLink)
	if err != nil {
		return fmt.Errorf("failed to generate entry link QR code: %w", err)
	}

	err = a.messenger.SendImage(ctx, a.config.AdminID, png, "🔗 Verification link: "+a.config.EntryLink)
	if !messenger.BestEffort(a.logger, "send_qr", a.config.AdminID, err) {
		a.metrics.IncrementDeliveryFailure("send")
	}
	return nil
}

func (a *Authority) notFound(ctx context.Context, decision string, userID int64, err error) (models.VerificationRecord, error) {
	if !errors.Is(err, apperrors.ErrNotFound) {
		return models.VerificationRecord{}, err
	}

	a.metrics.IncrementDecision(decision, "not_found")
	a.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"decision": decision,
	}).Info("No pending record for decision")

	a.deliver(ctx, "report_admin", a.config.AdminID, notFoundReport(userID))
	return models.VerificationRecord{}, err
}

func (a *Authority) reply(ctx context.Context, text string, keyboard *messenger.Keyboard) error {
	err := a.messenger.SendText(ctx, a.config.AdminID, text, keyboard)
	if !messenger.BestEffort(a.logger, "reply_admin", a.config.AdminID, err) {
		a.metrics.IncrementDeliveryFailure("send")
	}
	return nil
}

// deliver sends a notification after the registry change was committed
func (a *Authority) deliver(ctx context.Context, operation string, chatID int64, text string) {
	err := a.messenger.SendText(ctx, chatID, text, nil)
	if !messenger.BestEffort(a.logger, operation, chatID, err) {
		a.metrics.IncrementDeliveryFailure("send")
	}
}

func (a *Authority) openSessions() int {
	if a.sessions == nil {
		return 0
	}
	return a.sessions.Count()
}

func ignoreNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}
