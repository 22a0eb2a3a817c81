// interfaces.go - Handler dependency definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/weblog-assistant/backend/internal/agent"
	"github.com/weblog-assistant/backend/internal/models"
)

// SessionStore is the session state dependency. This allows mocking in tests.
type SessionStore interface {
	// Turn runs fn with exclusive access to the session, creating it on
	// first use.
	Turn(id string, fn func(state *models.ChatSession) error) error
	// Get returns a copy of the session state.
	Get(id string) (models.ChatSession, bool)
}

// TurnRunner drives one conversation turn through the routing machine.
type TurnRunner interface {
	RunTurn(ctx context.Context, st agent.TurnState) (agent.TurnState, error)
}
