// Package messengertest provides an in-memory Messenger for tests.
package messengertest

import (
	"context"
	"errors"
	"sync"

	"group-verify-bot/internal/messenger"
)

// ErrDeliveryFailed is returned by a Recorder configured to fail
var ErrDeliveryFailed = errors.New("delivery failed")

// Kind identifies the outbound call that was recorded
type Kind string

const (
	KindText   Kind = "text"
	KindPhoto  Kind = "photo"
	KindImage  Kind = "image"
	KindFile   Kind = "file"
	KindDelete Kind = "delete"
)

// Call is one recorded outbound call
type Call struct {
	Kind      Kind
	ChatID    int64
	Text      string
	ImageRef  string
	Image     []byte
	MessageID int
	Keyboard  *messenger.Keyboard
}

// Recorder records every outbound call. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	fail  map[Kind]bool
}

// New creates an empty recorder
func New() *Recorder {
	return &Recorder{fail: make(map[Kind]bool)}
}

// FailOn makes every subsequent call of the given kind return ErrDeliveryFailed.
// The call is still recorded.
func (r *Recorder) FailOn(kinds ...Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range kinds {
		r.fail[k] = true
	}
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	if r.fail[c.Kind] {
		return ErrDeliveryFailed
	}
	return nil
}

// SendText records a text message
func (r *Recorder) SendText(_ context.Context, chatID int64, text string, keyboard *messenger.Keyboard) error {
	return r.record(Call{Kind: KindText, ChatID: chatID, Text: text, Keyboard: keyboard})
}

// SendPhoto records a photo re-sent by reference
func (r *Recorder) SendPhoto(_ context.Context, chatID int64, imageRef, caption string, keyboard *messenger.Keyboard) error {
	return r.record(Call{Kind: KindPhoto, ChatID: chatID, ImageRef: imageRef, Text: caption, Keyboard: keyboard})
}

// SendDocument records a file re-sent by reference
func (r *Recorder) SendDocument(_ context.Context, chatID int64, fileRef, caption string, keyboard *messenger.Keyboard) error {
	return r.record(Call{Kind: KindFile, ChatID: chatID, ImageRef: fileRef, Text: caption, Keyboard: keyboard})
}

// SendImage records an uploaded image
func (r *Recorder) SendImage(_ context.Context, chatID int64, image []byte, caption string) error {
	return r.record(Call{Kind: KindImage, ChatID: chatID, Image: image, Text: caption})
}

// DeleteMessage records a deletion
func (r *Recorder) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	return r.record(Call{Kind: KindDelete, ChatID: chatID, MessageID: messageID})
}

// Calls returns a copy of all recorded calls
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// To returns the calls addressed to one chat
func (r *Recorder) To(chatID int64) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.ChatID == chatID {
			out = append(out, c)
		}
	}
	return out
}

// OfKind returns the calls of one kind
func (r *Recorder) OfKind(kind Kind) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Last returns the most recent call to a chat
func (r *Recorder) Last(chatID int64) (Call, bool) {
	calls := r.To(chatID)
	if len(calls) == 0 {
		return Call{}, false
	}
	return calls[len(calls)-1], true
}

// Reset forgets every recorded call
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
