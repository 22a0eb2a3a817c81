// Package llm wraps the external model calls behind small capability
// interfaces so the routing core can run against deterministic fakes.
package llm

import (
	"context"

	"github.com/weblog-assistant/backend/internal/models"
)

// Classifier assigns a coarse intent to a user question.
type Classifier interface {
	Classify(ctx context.Context, question string) (models.Intent, error)
}

// Extractor pulls filter parameters out of a user question. Fields the
// question does not mention come back empty; defaults are applied later.
type Extractor interface {
	Extract(ctx context.Context, question string) (models.QueryParams, error)
}

// Generator produces the final natural-language answer from recent
// conversation history and the tool output for this turn (empty when the
// log engine did not run).
type Generator interface {
	Generate(ctx context.Context, history []models.ConversationTurn, toolOutput string) (string, error)
}
