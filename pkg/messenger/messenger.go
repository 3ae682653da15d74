// Package messenger defines the chat-platform collaborator the bot talks
// through. The concrete transport (polling loop, webhook, wire protocol) is
// supplied by the embedding program; this package fixes only the contract the
// core depends on, plus a recording fake for tests.
package messenger

// Button is one inline action button. Payload is an encoded action
// (see pkg/action).
type Button struct {
	Label   string
	Payload string
}

// Content is an outbound message body: text plus optional action buttons,
// laid out one row per inner slice.
type Content struct {
	Text    string
	Buttons [][]Button
}

// MessageRef identifies an already-sent message for editing.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Messenger is the outbound half of the collaborator contract. A failed Send
// to one recipient (blocked bot, deleted account) is an ordinary error the
// caller counts and moves past.
type Messenger interface {
	Send(recipient int64, c Content) error
	Edit(ref MessageRef, c Content) error
}

// Update is one inbound event off the single update stream. Exactly one of
// Text or Callback semantics applies: a callback press carries the payload
// and the message it originated from.
type Update struct {
	From     int64  // sender chat id
	Username string
	Name     string
	Text     string     // plain-text message, "" for callback presses
	Callback string     // encoded action payload, "" for plain text
	Origin   MessageRef // message the callback button was attached to
}

// IsCallback reports whether the update is a button press.
func (u Update) IsCallback() bool { return u.Callback != "" }
