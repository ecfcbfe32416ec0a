package telegrambot

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	telebot "gopkg.in/telebot.v3"

	"group-verify-bot/internal/config"
	"group-verify-bot/internal/constants"
	"group-verify-bot/internal/events"
	"group-verify-bot/internal/messenger"
)

// EventDispatcher consumes normalized inbound events
type EventDispatcher interface {
	Dispatch(ctx context.Context, ev events.Event) error
}

// Bot represents a Telegram bot
type Bot struct {
	bot        *telebot.Bot
	config     *config.Config
	dispatcher EventDispatcher
	ctx        context.Context
	logger     *logrus.Logger
}

// NewBot creates a new Telegram bot
func NewBot(cfg *config.Config, logger *logrus.Logger) (*Bot, error) {
	settings := telebot.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &telebot.LongPoller{Timeout: constants.PollTimeout},
		OnError: func(err error, c telebot.Context) {
			if c != nil && c.Sender() != nil {
				logger.WithField("user_id", c.Sender().ID).Errorf("Telegram bot error: %v", err)
				return
			}
			logger.Errorf("Telegram bot error: %v", err)
		},
	}

	b, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return &Bot{
		bot:    b,
		config: cfg,
		ctx:    context.Background(),
		logger: logger,
	}, nil
}

// Username returns the bot's own username as reported by the platform
func (b *Bot) Username() string {
	return b.bot.Me.Username
}

// Messenger returns the outbound side of the bot
func (b *Bot) Messenger() messenger.Messenger {
	return &Sender{bot: b.bot, logger: b.logger}
}

// Start registers the handlers and polls until ctx is cancelled
func (b *Bot) Start(ctx context.Context, dispatcher EventDispatcher) error {
	b.ctx = ctx
	b.dispatcher = dispatcher
	b.setupMiddleware()

	b.logger.Info("Starting Telegram bot")

	go func() {
		<-ctx.Done()
		b.logger.Info("Stopping Telegram bot")
		b.bot.Stop()
	}()

	b.bot.Start()
	return nil
}

// setupMiddleware sets up the bot middleware and handlers
func (b *Bot) setupMiddleware() {
	b.bot.Use(func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			if c.Sender() != nil && c.Chat() != nil {
				b.logger.Debugf("Received update from %d in chat %d", c.Sender().ID, c.Chat().ID)
			}
			return next(c)
		}
	})

	b.bot.Handle("/start", b.handleUpdate)
	b.bot.Handle(telebot.OnText, b.handleUpdate)
	b.bot.Handle(telebot.OnContact, b.handleUpdate)
	b.bot.Handle(telebot.OnPhoto, b.handleUpdate)
	b.bot.Handle(telebot.OnDocument, b.handleUpdate)
}

// handleUpdate converts an update into an event and dispatches it
func (b *Bot) handleUpdate(c telebot.Context) error {
	ev, ok := toEvent(c.Message())
	if !ok {
		return nil
	}
	return b.dispatcher.Dispatch(b.ctx, ev)
}

// toEvent normalizes a platform message. Channels, anonymous senders and
// unsupported content are dropped.
func toEvent(m *telebot.Message) (events.Event, bool) {
	if m == nil || m.Sender == nil || m.Chat == nil {
		return nil, false
	}

	var kind events.ChatKind
	switch m.Chat.Type {
	case telebot.ChatPrivate:
		kind = events.Private
	case telebot.ChatGroup, telebot.ChatSuperGroup:
		kind = events.Group
	default:
		return nil, false
	}

	sender := events.Sender{
		ID:          m.Sender.ID,
		DisplayName: strings.TrimSpace(m.Sender.FirstName + " " + m.Sender.LastName),
		Handle:      m.Sender.Username,
	}

	switch {
	case m.Contact != nil:
		return events.ContactShared{ChatID: m.Chat.ID, Kind: kind, Sender: sender, Phone: m.Contact.PhoneNumber}, true
	case m.Photo != nil:
		return events.PhotoMessage{ChatID: m.Chat.ID, Kind: kind, Sender: sender, ImageRef: m.Photo.FileID}, true
	case m.Document != nil && strings.HasPrefix(m.Document.MIME, "image/"):
		return events.PhotoMessage{ChatID: m.Chat.ID, Kind: kind, Sender: sender, ImageRef: m.Document.FileID, Document: true}, true
	case isStartCommand(m.Text):
		return events.CommandStart{ChatID: m.Chat.ID, Kind: kind, MessageID: m.ID, Sender: sender, Payload: m.Payload}, true
	case m.Text != "":
		return events.TextMessage{ChatID: m.Chat.ID, Kind: kind, MessageID: m.ID, Sender: sender, Text: m.Text}, true
	}
	return nil, false
}

// isStartCommand matches /start, /start payload and /start@botname
func isStartCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd := fields[0]
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return cmd == "/start"
}
