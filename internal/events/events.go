package events

// ChatKind distinguishes private conversations from group chats
type ChatKind int

const (
	// Private is a one-to-one chat with the bot
	Private ChatKind = iota
	// Group is a group or supergroup chat
	Group
)

// Sender identifies who produced an event
type Sender struct {
	ID          int64
	DisplayName string
	Handle      string
}

// Event is one normalized inbound update
type Event interface {
	Chat() (int64, ChatKind)
	From() Sender
}

// TextMessage is a plain text message
type TextMessage struct {
	ChatID    int64
	Kind      ChatKind
	MessageID int
	Sender    Sender
	Text      string
}

// ContactShared is a structured phone contact shared from the client
type ContactShared struct {
	ChatID int64
	Kind   ChatKind
	Sender Sender
	Phone  string
}

// PhotoMessage carries an opaque reference to the highest resolution photo
// size. Document is set when the image was sent as a file.
type PhotoMessage struct {
	ChatID   int64
	Kind     ChatKind
	Sender   Sender
	ImageRef string
	Document bool
}

// CommandStart is the /start command, optionally with a deep link payload
type CommandStart struct {
	ChatID    int64
	Kind      ChatKind
	MessageID int
	Sender    Sender
	Payload   string
}

func (e TextMessage) Chat() (int64, ChatKind)   { return e.ChatID, e.Kind }
func (e ContactShared) Chat() (int64, ChatKind) { return e.ChatID, e.Kind }
func (e PhotoMessage) Chat() (int64, ChatKind)  { return e.ChatID, e.Kind }
func (e CommandStart) Chat() (int64, ChatKind)  { return e.ChatID, e.Kind }

func (e TextMessage) From() Sender   { return e.Sender }
func (e ContactShared) From() Sender { return e.Sender }
func (e PhotoMessage) From() Sender  { return e.Sender }
func (e CommandStart) From() Sender  { return e.Sender }
