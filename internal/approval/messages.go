package approval

import (
	"fmt"
	"html"
	"strings"

	"group-verify-bot/internal/commands"
	"group-verify-bot/internal/constants"
	"group-verify-bot/internal/messenger"
	"group-verify-bot/internal/models"
)

const (
	msgUserApproved   = "🎉 Your verification was approved! You can now chat freely in the group."
	msgUserRejected   = "⛔️ Your verification request was rejected."
	msgClearPrompt    = "⚠️ This will erase every verified, blocked and pending user and all message counters.\n\nAre you sure?"
	msgClearCancelled = "👍 Memory kept. Nothing was cleared."
	msgClearExpired   = "There is no clear request to confirm. Send /clear first."
	msgNoPending      = "📭 No pending requests."
	msgNoLink         = "⚠️ BOT_USERNAME is not configured, so there is no entry link to encode."
)

var msgHelp = strings.Join([]string{
	"🛠 <b>Admin commands</b>",
	"",
	commands.ApproveMarker + " &lt;user_id&gt; or /approve &lt;user_id&gt;",
	commands.RejectMarker + " &lt;user_id&gt; or /reject &lt;user_id&gt;",
	"/pending - list pending requests",
	"/stats - registry counts",
	"/link - QR code of the verification link",
	"/clear - erase all in-memory data",
	"",
	"Commands are only read in this private chat. Messages you send in the group are never treated as commands.",
}, "\n")

// SubmissionCaption renders the admin notification for a new application
func SubmissionCaption(record models.VerificationRecord) string {
	handle := "-"
	if record.Handle != "" {
		handle = "@" + record.Handle
	}
	return fmt.Sprintf(
		"🆕 <b>New verification request</b>\n\n🆔 User ID: <code>%d</code>\n👤 Name: %s\n🔗 Username: %s\n📱 Phone: %s\n🕒 Submitted: %s\n🧾 Request: %s",
		record.UserID,
		displayName(record),
		html.EscapeString(messenger.Clip(handle, constants.DisplayHandleLength+1)),
		displayPhone(record),
		record.SubmittedAt.Format(constants.TimestampFormat),
		record.RequestID,
	)
}

// DecisionKeyboard returns quick replies whose text is the decision command for the user
func DecisionKeyboard(userID int64) *messenger.Keyboard {
	return messenger.NewKeyboard(messenger.Row(
		fmt.Sprintf("%s %d", commands.ApproveMarker, userID),
		fmt.Sprintf("%s %d", commands.RejectMarker, userID),
	))
}

func clearKeyboard() *messenger.Keyboard {
	return messenger.NewKeyboard(messenger.Row(commands.ConfirmClear, commands.CancelClear))
}

func approvedReport(record models.VerificationRecord) string {
	return fmt.Sprintf("✅ User <code>%d</code> approved.\n👤 Name: %s\n📱 Phone: %s",
		record.UserID, displayName(record), displayPhone(record))
}

func rejectedReport(record models.VerificationRecord) string {
	return fmt.Sprintf("❌ User <code>%d</code> rejected.\n👤 Name: %s\n📱 Phone: %s",
		record.UserID, displayName(record), displayPhone(record))
}

func notFoundReport(userID int64) string {
	return fmt.Sprintf("⚠️ No pending request found for user <code>%d</code>. It may have been processed already.", userID)
}

func parseErrorReport(err error) string {
	return fmt.Sprintf("⚠️ %s\nUse: %s &lt;user_id&gt; or %s &lt;user_id&gt;",
		html.EscapeString(err.Error()), commands.ApproveMarker, commands.RejectMarker)
}

func welcomeText(record models.VerificationRecord) string {
	name := displayName(record)
	if record.Handle != "" {
		name = fmt.Sprintf("%s (@%s)", name, html.EscapeString(messenger.Clip(record.Handle, constants.DisplayHandleLength)))
	}
	return fmt.Sprintf("🎉 Welcome %s! Your membership is verified.", name)
}

func clearedReport(stats models.ClearStats) string {
	return fmt.Sprintf("🧹 Memory cleared.\n✅ Verified: %d\n⛔️ Blocked: %d\n⏳ Pending: %d\n💬 Message counters: %d",
		stats.Verified, stats.Blocked, stats.Pending, stats.Counters)
}

func statsReport(stats models.RegistryStats, sessions int) string {
	return fmt.Sprintf("📊 <b>Registry</b>\n✅ Verified: %d\n⛔️ Blocked: %d\n⏳ Pending: %d\n💬 Counted users: %d\n📝 Open registrations: %d",
		stats.Verified, stats.Blocked, stats.Pending, stats.Counted, sessions)
}

// pendingReport renders the pending listing as one or more messages that each
// fit the platform limit
func pendingReport(records []models.VerificationRecord) []string {
	if len(records) == 0 {
		return []string{msgNoPending}
	}
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("🆔 <code>%d</code> %s, %s, %s",
			r.UserID,
			displayName(r),
			displayPhone(r),
			r.SubmittedAt.Format(constants.TimestampFormat),
		))
	}
	header := fmt.Sprintf("⏳ <b>Pending requests (%d)</b>\n", len(records))
	return messenger.Chunk(header, lines, constants.MaxMessageLength)
}

func displayName(record models.VerificationRecord) string {
	return html.EscapeString(messenger.Clip(record.FullName, constants.DisplayNameLength))
}

func displayPhone(record models.VerificationRecord) string {
	return html.EscapeString(messenger.Clip(record.Phone, constants.DisplayPhoneLength))
}
