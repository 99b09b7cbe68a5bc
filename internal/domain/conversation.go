package domain

import "strings"

// Message is a single role-tagged entry of a conversation.
type Message struct {
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
}

// Conversation is the ordered message log of one session.
// Index 0 holds the system instruction when there is one.
type Conversation []Message

// System returns the system message, if the conversation has one.
func (c Conversation) System() (Message, bool) {
	if len(c) > 0 && c[0].Role == RoleSystem {
		return c[0], true
	}
	return Message{}, false
}

// Turns returns every non-system message in order.
func (c Conversation) Turns() []Message {
	out := make([]Message, 0, len(c))
	for _, m := range c {
		if m.Role == RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Last returns the tail message.
func (c Conversation) Last() (Message, bool) {
	if len(c) == 0 {
		return Message{}, false
	}
	return c[len(c)-1], true
}

// Clone returns a copy that shares no backing array with c.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return Conversation{}
	}
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}

// Transcript renders all non-system messages as "<role>: <content>\n\n".
func (c Conversation) Transcript() string {
	var b strings.Builder
	for _, m := range c.Turns() {
		b.WriteString(m.Role.Label())
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
