package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"group-verify-bot/internal/constants"
	apperrors "group-verify-bot/internal/errors"
)

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_TTL", constants.DefaultSessionTTL.String())
	v.SetDefault("ANNOUNCE_APPROVALS", true)

	// Define environment variables
	for _, key := range []string{"BOT_TOKEN", "ADMIN_ID", "GROUP_CHAT_ID", "BOT_USERNAME", "HTTP_ADDR"} {
		if err := v.BindEnv(key); err != nil {
			return nil, &apperrors.ConfigError{Section: key, Message: err.Error()}
		}
	}

	adminID, err := requiredInt(v, "ADMIN_ID")
	if err != nil {
		return nil, err
	}

	groupID, err := requiredInt(v, "GROUP_CHAT_ID")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := parseDuration(v, "SESSION_TTL")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel: v.GetString("LOG_LEVEL"),
		Telegram: TelegramConfig{
			Token:       strings.TrimSpace(v.GetString("BOT_TOKEN")),
			AdminID:     adminID,
			BotUsername: strings.TrimPrefix(strings.TrimSpace(v.GetString("BOT_USERNAME")), "@"),
		},
		Moderation: ModerationConfig{
			GroupChatID:       groupID,
			SessionTTL:        sessionTTL,
			AnnounceApprovals: v.GetBool("ANNOUNCE_APPROVALS"),
		},
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(v.GetString("HTTP_ADDR")),
		},
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EntryLink returns the deep link that opens the verification workflow
func (c *Config) EntryLink() string {
	if c.Telegram.BotUsername == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", c.Telegram.BotUsername, constants.StartPayload)
}

// requiredInt reads a mandatory integer variable
func requiredInt(v *viper.Viper, key string) (int64, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, &apperrors.ConfigError{Section: key, Message: "environment variable is not set"}
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &apperrors.ConfigError{Section: key, Message: fmt.Sprintf("value %q cannot be converted to integer", raw)}
	}
	return value, nil
}

// parseDuration reads a Go duration such as "45m" or "2h"
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, &apperrors.ConfigError{Section: key, Message: fmt.Sprintf("value %q is not a positive duration", raw)}
	}
	return d, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return &apperrors.ConfigError{Section: "BOT_TOKEN", Message: "environment variable is not set"}
	}

	if cfg.Telegram.AdminID == 0 {
		return &apperrors.ConfigError{Section: "ADMIN_ID", Message: "must be a non-zero user id"}
	}

	if cfg.Moderation.GroupChatID == 0 {
		return &apperrors.ConfigError{Section: "GROUP_CHAT_ID", Message: "must be a non-zero chat id"}
	}

	return nil
}
