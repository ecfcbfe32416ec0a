package constants

import "time"

const (
	// Moderation constants
	WarningThreshold = 3

	// Workflow constants
	MinFullNameTokens = 2
	MaxFullNameLength = 128

	// Session constants
	DefaultSessionTTL      = time.Hour
	SessionCleanupInterval = 10 * time.Minute
	ClearConfirmationTTL   = 5 * time.Minute

	// Network constants
	PollTimeout       = 10 * time.Second
	ReadHeaderTimeout = 5 * time.Second
	ShutdownTimeout   = 10 * time.Second

	// QR constants
	QRCodeSize = 256

	// Deep link payload used for the verification entry point
	StartPayload = "verify"

	// Formatting constants
	TimestampFormat = "2006-01-02 15:04:05"

	// Platform limits, in bytes of the text as sent
	MaxCaptionLength = 1024
	MaxMessageLength = 4096

	// Display caps for user-supplied fields, in runes
	DisplayNameLength   = 48
	DisplayPhoneLength  = 32
	DisplayHandleLength = 32
)
