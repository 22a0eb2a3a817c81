// Package agent implements the per-turn conversation routing state machine.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/weblog-assistant/backend/internal/llm"
	"github.com/weblog-assistant/backend/internal/models"
)

// ErrAdapter marks a turn-level failure of one of the external model calls.
// The turn fails as a whole and no session state is written, so a retry of
// the same turn is safe.
var ErrAdapter = errors.New("adapter failure")

// maxHistoryTurns is how many recent turns the response generator sees.
const maxHistoryTurns = 6

// State is the closed set of routing states within one turn.
type State int

const (
	StateClassify State = iota
	StateLogTool
	StateRespond
	StateDone
)

// TurnState is the working state threaded through one turn. Messages holds
// the full history including the new user turn; the machine appends the
// assistant turn before finishing.
type TurnState struct {
	Messages   []models.ConversationTurn
	ToolOutput string
	ToolDetail *models.StructuredTable
	Intent     models.Intent
}

// LogTool is the log engine capability the machine invokes for log intents.
type LogTool interface {
	Filter(criteria models.FilterCriteria) (summary string, matchedLines []string, table models.StructuredTable)
}

// Machine routes one turn through classify -> (log tool) -> respond. It is
// stateless between turns; everything persistent lives in the session store.
type Machine struct {
	classifier llm.Classifier
	extractor  llm.Extractor
	generator  llm.Generator
	tool       LogTool
	defaults   DefaultPolicy
	now        func() time.Time
}

// NewMachine creates a routing machine with the standard default policy and
// wall clock.
func NewMachine(classifier llm.Classifier, extractor llm.Extractor, generator llm.Generator, tool LogTool) *Machine {
	return &Machine{
		classifier: classifier,
		extractor:  extractor,
		generator:  generator,
		tool:       tool,
		defaults:   ApplyDefaults,
		now:        time.Now,
	}
}

// WithClock overrides the clock used for default time windows. Test hook.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// RunTurn drives the state machine from StateClassify to StateDone and
// returns the final turn state. Any adapter error aborts the turn; the
// returned state must then be discarded.
func (m *Machine) RunTurn(ctx context.Context, st TurnState) (TurnState, error) {
	state := StateClassify
	for state != StateDone {
		next, updated, err := m.step(ctx, state, st)
		if err != nil {
			return TurnState{}, err
		}
		state, st = next, updated
	}
	return st, nil
}

// step executes one state and returns the next. The transition set is fixed:
// Classify -> LogTool | Respond, LogTool -> Respond, Respond -> Done.
func (m *Machine) step(ctx context.Context, state State, st TurnState) (State, TurnState, error) {
	switch state {
	case StateClassify:
		return m.classify(ctx, st)
	case StateLogTool:
		return m.runLogTool(ctx, st)
	case StateRespond:
		return m.respond(ctx, st)
	default:
		return StateDone, st, fmt.Errorf("invalid routing state %d", state)
	}
}

func (m *Machine) classify(ctx context.Context, st TurnState) (State, TurnState, error) {
	intent, err := m.classifier.Classify(ctx, lastUserMessage(st.Messages))
	if err != nil {
		return StateDone, st, fmt.Errorf("%w: %v", ErrAdapter, err)
	}
	st.Intent = intent

	if intent != models.IntentLog {
		// Drop any prior tool context so stale log statistics cannot leak
		// into an unrelated answer.
		st.ToolOutput = ""
		st.ToolDetail = nil
		return StateRespond, st, nil
	}
	return StateLogTool, st, nil
}

func (m *Machine) runLogTool(ctx context.Context, st TurnState) (State, TurnState, error) {
	params, err := m.extractor.Extract(ctx, lastUserMessage(st.Messages))
	if err != nil {
		return StateDone, st, fmt.Errorf("%w: %v", ErrAdapter, err)
	}

	criteria := m.defaults(params, m.now())
	summary, _, table := m.tool.Filter(criteria)
	st.ToolOutput = summary
	st.ToolDetail = &table
	return StateRespond, st, nil
}

func (m *Machine) respond(ctx context.Context, st TurnState) (State, TurnState, error) {
	recent := st.Messages
	if len(recent) > maxHistoryTurns {
		recent = recent[len(recent)-maxHistoryTurns:]
	}

	answer, err := m.generator.Generate(ctx, recent, st.ToolOutput)
	if err != nil {
		return StateDone, st, fmt.Errorf("%w: %v", ErrAdapter, err)
	}

	st.Messages = append(st.Messages, models.ConversationTurn{
		Role:    models.RoleAssistant,
		Content: answer,
	})
	return StateDone, st, nil
}

// lastUserMessage returns the content of the most recent user turn.
func lastUserMessage(messages []models.ConversationTurn) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
