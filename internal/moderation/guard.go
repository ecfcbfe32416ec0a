package moderation

import (
	"context"
	"fmt"
	"html"

	"github.com/sirupsen/logrus"

	"group-verify-bot/internal/constants"
	"group-verify-bot/internal/events"
	"group-verify-bot/internal/messenger"
	"group-verify-bot/internal/metrics"
	"group-verify-bot/internal/models"
)

// Verdict is what the guard did with a group message
type Verdict int

const (
	// Ignored means the message is outside the guard's scope
	Ignored Verdict = iota
	// Allowed means the message was counted and left in place
	Allowed
	// Removed means the sender is blocked and the message was deleted silently
	Removed
	// Warned means the sender passed the threshold: deleted and warned
	Warned
)

// String returns the verdict name used in logs
func (v Verdict) String() string {
	switch v {
	case Allowed:
		return "allowed"
	case Removed:
		return "removed"
	case Warned:
		return "warned"
	default:
		return "ignored"
	}
}

// MessageCounter is the part of the registry the guard needs
type MessageCounter interface {
	CountMessage(userID int64) (models.Status, int)
}

// Config holds the guard settings
type Config struct {
	GroupID   int64
	AdminID   int64
	Threshold int
	EntryLink string
}

// Guard rate-limits group messages from users who have not completed verification
type Guard struct {
	counter   MessageCounter
	messenger messenger.Messenger
	config    Config
	metrics   *metrics.Metrics
	logger    *logrus.Logger
}

// NewGuard creates a new moderation guard
func NewGuard(counter MessageCounter, m messenger.Messenger, cfg Config, mtr *metrics.Metrics, logger *logrus.Logger) *Guard {
	if cfg.Threshold <= 0 {
		cfg.Threshold = constants.WarningThreshold
	}
	return &Guard{
		counter:   counter,
		messenger: m,
		config:    cfg,
		metrics:   mtr,
		logger:    logger,
	}
}

// Inspect applies the moderation rules to one group text message
func (g *Guard) Inspect(ctx context.Context, msg events.TextMessage) Verdict {
	if msg.ChatID != g.config.GroupID || msg.Sender.ID == g.config.AdminID {
		return Ignored
	}

	status, count := g.counter.CountMessage(msg.Sender.ID)
	log := g.logger.WithFields(logrus.Fields{
		"user_id": msg.Sender.ID,
		"chat_id": msg.ChatID,
	})

	switch status {
	case models.StatusVerified:
		return Ignored
	case models.StatusBlocked:
		if err := g.messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
			g.metrics.IncrementDeliveryFailure("delete")
			log.Debugf("Failed to delete message from blocked user: %v", err)
		} else {
			g.metrics.IncrementDeleted("blocked")
		}
		return Removed
	}

	g.metrics.IncrementInspected()
	log.Infof("Unverified message count: %d", count)
	if count <= g.config.Threshold {
		return Allowed
	}

	if err := g.messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		g.metrics.IncrementDeliveryFailure("delete")
		log.Errorf("Error deleting message (exceeded limit): %v", err)
	} else {
		g.metrics.IncrementDeleted("limit")
		log.Info("Deleted message (exceeded limit)")
	}

	warning := g.warningText(msg.Sender)
	if messenger.BestEffort(g.logger, "send_warning", msg.ChatID, g.messenger.SendText(ctx, msg.ChatID, warning, nil)) {
		g.metrics.IncrementWarnings()
	} else {
		g.metrics.IncrementDeliveryFailure("send")
	}
	return Warned
}

func (g *Guard) warningText(sender events.Sender) string {
	entry := "open a private chat with the bot and send /start"
	if g.config.EntryLink != "" {
		entry = "start the bot through this link:\n" + g.config.EntryLink
	}
	return fmt.Sprintf(
		"👤 Dear %s,\nyou are not allowed to send more messages because you have not completed verification yet.\nTo activate your account, %s\n\nOnce you are verified you can continue chatting.",
		html.EscapeString(messenger.Clip(displayName(sender), constants.DisplayNameLength)),
		entry,
	)
}

func displayName(sender events.Sender) string {
	if sender.DisplayName != "" {
		return sender.DisplayName
	}
	if sender.Handle != "" {
		return "@" + sender.Handle
	}
	return fmt.Sprintf("user %d", sender.ID)
}
