package models

import "time"

// Intent is the coarse category assigned to a user question. It decides
// whether the log engine runs this turn.
type Intent string

const (
	IntentLog     Intent = "log"
	IntentGeneral Intent = "general"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message in a session, in chronological order.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is the per-session conversation state. It is owned exclusively
// by the session store: created on first use, overwritten at the end of every
// successful turn, retained for the process lifetime unless cleanup is
// enabled.
type ChatSession struct {
	ID           string             `json:"id"`
	Messages     []ConversationTurn `json:"messages"`
	ToolOutput   string             `json:"toolOutput,omitempty"`
	ToolDetail   *StructuredTable   `json:"toolDetail,omitempty"`
	Intent       Intent             `json:"intent,omitempty"`
	LastAccessed time.Time          `json:"-"`
}
