package config

import "time"

// Config represents the application configuration
type Config struct {
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	LogLevel   string           `mapstructure:"log_level"`
}

// TelegramConfig holds the Telegram bot configuration
type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	AdminID     int64  `mapstructure:"admin_id"`
	BotUsername string `mapstructure:"bot_username"`
}

// ModerationConfig holds the monitored group and workflow settings
type ModerationConfig struct {
	GroupChatID       int64         `mapstructure:"group_chat_id"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	AnnounceApprovals bool          `mapstructure:"announce_approvals"`
}

// HTTPConfig holds the status server settings. An empty address disables it.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}
