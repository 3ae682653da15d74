package messenger

import "sync"

// Fake is an in-memory Messenger that records every call, for tests.
// Recipients listed in FailFor error on Send, simulating a user who has
// blocked the bot.
type Fake struct {
	mu      sync.Mutex
	Sent    []SentMessage
	Edits   []SentMessage
	FailFor map[int64]error
}

// SentMessage is one recorded Send or Edit.
type SentMessage struct {
	To      int64
	Ref     MessageRef
	Content Content
}

// NewFake returns an empty recording messenger.
func NewFake() *Fake {
	return &Fake{FailFor: map[int64]error{}}
}

func (f *Fake) Send(recipient int64, c Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailFor[recipient]; ok {
		return err
	}
	f.Sent = append(f.Sent, SentMessage{To: recipient, Content: c})
	return nil
}

func (f *Fake) Edit(ref MessageRef, c Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailFor[ref.ChatID]; ok {
		return err
	}
	f.Edits = append(f.Edits, SentMessage{To: ref.ChatID, Ref: ref, Content: c})
	return nil
}

// SentTo returns every message sent to recipient, in order.
func (f *Fake) SentTo(recipient int64) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, m := range f.Sent {
		if m.To == recipient {
			out = append(out, m)
		}
	}
	return out
}
