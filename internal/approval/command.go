package approval

import (
	"strings"

	"group-verify-bot/internal/commands"
	"group-verify-bot/internal/validation"
)

// CommandKind identifies an admin command
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdApprove
	CmdReject
	CmdClear
	CmdConfirmClear
	CmdCancelClear
	CmdPending
	CmdStats
	CmdLink
	CmdHelp
)

// Command is a parsed admin command
type Command struct {
	Kind   CommandKind
	UserID int64
}

// ParseCommand parses admin text. Decision commands take the target user id
// as the final token; a malformed id returns a *errors.CommandError.
func ParseCommand(text string) (Command, error) {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, commands.ApproveMarker), firstToken(text) == commands.ApproveSlash:
		id, err := validation.ParseUserID(text)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdApprove, UserID: id}, nil
	case strings.HasPrefix(text, commands.RejectMarker), firstToken(text) == commands.RejectSlash:
		id, err := validation.ParseUserID(text)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdReject, UserID: id}, nil
	}

	switch text {
	case commands.ConfirmClear:
		return Command{Kind: CmdConfirmClear}, nil
	case commands.CancelClear:
		return Command{Kind: CmdCancelClear}, nil
	case commands.ClearMemory:
		return Command{Kind: CmdClear}, nil
	}

	switch firstToken(text) {
	case commands.ClearSlash:
		return Command{Kind: CmdClear}, nil
	case commands.Pending:
		return Command{Kind: CmdPending}, nil
	case commands.Stats:
		return Command{Kind: CmdStats}, nil
	case commands.Link:
		return Command{Kind: CmdLink}, nil
	case commands.Help, commands.Start:
		return Command{Kind: CmdHelp}, nil
	}

	return Command{Kind: CmdUnknown}, nil
}

// firstToken returns the first word with any @botname suffix stripped
func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	token := fields[0]
	if strings.HasPrefix(token, "/") {
		if at := strings.Index(token, "@"); at > 0 {
			token = token[:at]
		}
	}
	return token
}
