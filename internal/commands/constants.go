package commands

// TelegramCommands contains all commands and button texts for the Telegram bot
const (
	// Main commands
	Start  = "/start"
	Cancel = "❌ Cancel"

	// Verification workflow buttons
	ShareContact = "📱 Share phone number"
	Confirm      = "✅ Confirm"
	Edit         = "✏️ Edit"

	// Administrator decision markers. The target user id is the final token.
	ApproveMarker = "✅ Approve"
	RejectMarker  = "❌ Reject"
	ApproveSlash  = "/approve"
	RejectSlash   = "/reject"

	// Administrator commands
	ClearMemory  = "🧹 Clear memory"
	ClearSlash   = "/clear"
	Pending      = "/pending"
	Stats        = "/stats"
	Link         = "/link"
	Help         = "/help"
	CancelSlash  = "/cancel"
	ConfirmClear = "✅ Confirm clear"
	CancelClear  = "❌ Keep data"
)
