package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"group-verify-bot/internal/approval"
	"group-verify-bot/internal/config"
	"group-verify-bot/internal/handlers"
	"group-verify-bot/internal/httpserver"
	"group-verify-bot/internal/metrics"
	"group-verify-bot/internal/moderation"
	"group-verify-bot/internal/permissions"
	"group-verify-bot/internal/registry"
	"group-verify-bot/internal/services"
	"group-verify-bot/pkg/telegrambot"
)

func main() {
	// Setup logger
	logger := setupLogger(os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: ", err)
	}

	// Initialize services
	reg := registry.New(logger)
	sessions := services.NewSessionStore(cfg.Moderation.SessionTTL, logger)
	qrService := services.NewQRService(logger)
	mtr := metrics.New()
	mtr.RegisterRegistryGauges(reg)

	// Initialize bot
	bot, err := telegrambot.NewBot(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create bot: ", err)
	}
	if cfg.Telegram.BotUsername == "" {
		cfg.Telegram.BotUsername = bot.Username()
	}
	sender := bot.Messenger()

	// Wire components
	guard := moderation.NewGuard(reg, sender, moderation.Config{
		GroupID:   cfg.Moderation.GroupChatID,
		AdminID:   cfg.Telegram.AdminID,
		EntryLink: cfg.EntryLink(),
	}, mtr, logger)

	authority := approval.NewAuthority(reg, sender, sessions, qrService, approval.Config{
		AdminID:           cfg.Telegram.AdminID,
		GroupID:           cfg.Moderation.GroupChatID,
		AnnounceApprovals: cfg.Moderation.AnnounceApprovals,
		EntryLink:         cfg.EntryLink(),
	}, mtr, logger)

	verification := handlers.NewVerificationHandler(reg, sessions, sender, cfg.Telegram.AdminID, mtr, logger)
	permController := permissions.NewController(cfg.Telegram.AdminID, reg, logger)
	dispatcher := handlers.NewDispatcher(permController, verification, guard, authority, logger)

	// Setup context with cancellation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.WithField("group_chat_id", cfg.Moderation.GroupChatID).Info("Starting verification bot")
		return bot.Start(gctx, dispatcher)
	})

	if cfg.HTTP.Addr != "" {
		server := httpserver.New(cfg.HTTP.Addr, reg, sessions, mtr, logger)
		group.Go(func() error {
			return server.Run(gctx)
		})
	}

	if err := group.Wait(); err != nil {
		logger.Fatal("Bot failed: ", err)
	}
	logger.Info("Shutdown complete")
}

// setupLogger sets up the logger
func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()

	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Printf("Invalid log level %s, defaulting to info", logLevel)
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	// Set formatter
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return logger
}
