package workflow

import (
	"fmt"
	"html"

	"group-verify-bot/internal/commands"
	"group-verify-bot/internal/constants"
	"group-verify-bot/internal/messenger"
)

const (
	msgBlocked         = "⛔️ Your verification request was rejected. You cannot register again."
	msgAlreadyVerified = "✅ You are already verified and can chat freely in the group."
	msgAlreadyPending  = "⏳ Your request is already under review. Please wait for the admin's decision."
	msgIdle            = "Send /start to begin verification."
	msgAskName         = "📝 Let's get you verified.\n\n👤 Please send your <b>full name</b> (first and last name)."
	msgInvalidName     = "⚠️ Full name requires first and last name. Please send both, for example: <i>Ali Rezaei</i>"
	msgAskPhone        = "📱 Thanks! Now share your phone number with the button below or type it."
	msgAskProof        = "🖼 Almost done. Please send a screenshot proving your eligibility."
	msgInvalidProof    = "⚠️ Please send the proof as an image."
	msgCancelled       = "❌ Registration cancelled. Send /start whenever you want to try again."
	msgSubmitted       = "📨 Your request was sent to the admin. You will be notified once it is reviewed."
	msgSubmitFailed    = "⚠️ Your request could not be filed. Please send /start to try again."
)

func cancelKeyboard() *messenger.Keyboard {
	return messenger.NewKeyboard(messenger.Row(commands.Cancel))
}

func phoneKeyboard() *messenger.Keyboard {
	return messenger.NewKeyboard(
		[]messenger.Button{{Text: commands.ShareContact, RequestContact: true}},
		messenger.Row(commands.Cancel),
	)
}

func confirmKeyboard() *messenger.Keyboard {
	return messenger.NewKeyboard(
		messenger.Row(commands.Confirm, commands.Edit),
		messenger.Row(commands.Cancel),
	)
}

// summary renders the collected data for review
func summary(s Session) string {
	return fmt.Sprintf(
		"📋 <b>Please review your information</b>\n\n👤 Name: %s\n📱 Phone: %s\n🖼 Proof: received\n\nPress %s to submit or %s to start over.",
		html.EscapeString(messenger.Clip(s.FullName, constants.DisplayNameLength)),
		html.EscapeString(messenger.Clip(s.Phone, constants.DisplayPhoneLength)),
		commands.Confirm,
		commands.Edit,
	)
}
