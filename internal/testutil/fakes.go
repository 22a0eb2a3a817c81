// Package testutil provides deterministic fakes for the LLM capabilities
// and the log tool, so routing and handler tests never touch a real model.
package testutil

import (
	"context"
	"sync"

	"github.com/weblog-assistant/backend/internal/models"
)

// FakeClassifier returns a fixed intent or error.
type FakeClassifier struct {
	Intent models.Intent
	Err    error

	mu    sync.Mutex
	calls int
}

func (f *FakeClassifier) Classify(_ context.Context, _ string) (models.Intent, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return f.Intent, nil
}

func (f *FakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FakeExtractor returns fixed query parameters or an error.
type FakeExtractor struct {
	Params models.QueryParams
	Err    error
}

func (f *FakeExtractor) Extract(_ context.Context, _ string) (models.QueryParams, error) {
	if f.Err != nil {
		return models.QueryParams{}, f.Err
	}
	return f.Params, nil
}

// FakeGenerator returns a fixed answer and records what it was given.
type FakeGenerator struct {
	Answer string
	Err    error

	mu             sync.Mutex
	lastHistory    []models.ConversationTurn
	lastToolOutput string
}

func (f *FakeGenerator) Generate(_ context.Context, history []models.ConversationTurn, toolOutput string) (string, error) {
	f.mu.Lock()
	f.lastHistory = append([]models.ConversationTurn(nil), history...)
	f.lastToolOutput = toolOutput
	f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return f.Answer, nil
}

func (f *FakeGenerator) LastHistory() []models.ConversationTurn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastHistory
}

func (f *FakeGenerator) LastToolOutput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastToolOutput
}

// FakeLogTool returns a fixed filter result and records invocations.
type FakeLogTool struct {
	Summary string
	Matched []string
	Table   models.StructuredTable

	mu           sync.Mutex
	calls        int
	lastCriteria models.FilterCriteria
}

func (f *FakeLogTool) Filter(criteria models.FilterCriteria) (string, []string, models.StructuredTable) {
	f.mu.Lock()
	f.calls++
	f.lastCriteria = criteria
	f.mu.Unlock()
	return f.Summary, f.Matched, f.Table
}

func (f *FakeLogTool) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeLogTool) LastCriteria() models.FilterCriteria {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCriteria
}
