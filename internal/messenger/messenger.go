package messenger

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Messenger delivers outbound messages to the chat platform. Every call is
// best-effort: callers log failures and never undo registry changes because
// of them.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, keyboard *Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, imageRef string, caption string, keyboard *Keyboard) error
	SendDocument(ctx context.Context, chatID int64, fileRef string, caption string, keyboard *Keyboard) error
	SendImage(ctx context.Context, chatID int64, image []byte, caption string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

// Button is one quick-reply button
type Button struct {
	Text           string
	RequestContact bool
}

// Keyboard is a set of quick replies attached to a message. Remove hides any
// keyboard shown earlier.
type Keyboard struct {
	Rows   [][]Button
	Remove bool
}

// NewKeyboard builds a keyboard with one row per argument slice
func NewKeyboard(rows ...[]Button) *Keyboard {
	return &Keyboard{Rows: rows}
}

// Row builds a row of plain text buttons
func Row(texts ...string) []Button {
	row := make([]Button, 0, len(texts))
	for _, text := range texts {
		row = append(row, Button{Text: text})
	}
	return row
}

// RemoveKeyboard hides the current quick replies
func RemoveKeyboard() *Keyboard {
	return &Keyboard{Remove: true}
}

// Texts flattens the keyboard into its button texts
func (k *Keyboard) Texts() []string {
	if k == nil {
		return nil
	}
	var texts []string
	for _, row := range k.Rows {
		for _, btn := range row {
			texts = append(texts, btn.Text)
		}
	}
	return texts
}

// BestEffort logs a failed delivery and reports whether it succeeded
func BestEffort(logger *logrus.Logger, operation string, chatID int64, err error) bool {
	if err == nil {
		return true
	}
	logger.WithFields(logrus.Fields{
		"operation": operation,
		"chat_id":   chatID,
	}).Warnf("Delivery failed: %v", err)
	return false
}

// Clip shortens s to at most max runes, marking the cut with an ellipsis
func Clip(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// Chunk joins lines into messages no longer than limit bytes. A single line
// longer than limit is cut.
func Chunk(header string, lines []string, limit int) []string {
	var chunks []string
	var b strings.Builder
	b.WriteString(header)
	for _, line := range lines {
		if len(line) > limit-1 {
			line = clipBytes(line, limit-1)
		}
		if b.Len()+len(line)+1 > limit && b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// clipBytes cuts s to at most n bytes on a rune boundary
func clipBytes(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
