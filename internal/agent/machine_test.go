package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weblog-assistant/backend/internal/models"
	"github.com/weblog-assistant/backend/internal/testutil"
)

func fixedClock() time.Time {
	return time.Date(2025, time.July, 14, 15, 30, 0, 0, time.UTC)
}

func userTurn(content string) models.ConversationTurn {
	return models.ConversationTurn{Role: models.RoleUser, Content: content}
}

func TestGeneralIntentSkipsLogTool(t *testing.T) {
	tool := &testutil.FakeLogTool{Summary: "stats"}
	gen := &testutil.FakeGenerator{Answer: "hello!"}
	m := NewMachine(
		&testutil.FakeClassifier{Intent: models.IntentGeneral},
		&testutil.FakeExtractor{},
		gen,
		tool,
	).WithClock(fixedClock)

	prior := &models.StructuredTable{Type: "table"}
	st := TurnState{
		Messages:   []models.ConversationTurn{userTurn("tell me a joke")},
		ToolOutput: "stale stats from last turn",
		ToolDetail: prior,
	}

	out, err := m.RunTurn(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, 0, tool.Calls())
	assert.Equal(t, models.IntentGeneral, out.Intent)
	// Prior tool context is cleared for non-log turns.
	assert.Empty(t, out.ToolOutput)
	assert.Nil(t, out.ToolDetail)
	assert.Empty(t, gen.LastToolOutput())

	require.Len(t, out.Messages, 2)
	assert.Equal(t, models.RoleAssistant, out.Messages[1].Role)
	assert.Equal(t, "hello!", out.Messages[1].Content)
}

func TestLogIntentInvokesToolOnce(t *testing.T) {
	tool := &testutil.FakeLogTool{
		Summary: "Top 10 source IPs by request count:",
		Table:   models.StructuredTable{Type: "table"},
	}
	gen := &testutil.FakeGenerator{Answer: "here are the stats"}
	m := NewMachine(
		&testutil.FakeClassifier{Intent: models.IntentLog},
		&testutil.FakeExtractor{Params: models.QueryParams{StatusCode: "500", HTTPMethod: "GET"}},
		gen,
		tool,
	).WithClock(fixedClock)

	st := TurnState{Messages: []models.ConversationTurn{userTurn("how many 500s today?")}}
	out, err := m.RunTurn(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, 1, tool.Calls())
	assert.Equal(t, models.IntentLog, out.Intent)
	assert.Equal(t, tool.Summary, out.ToolOutput)
	require.NotNil(t, out.ToolDetail)
	assert.Equal(t, "table", out.ToolDetail.Type)
	assert.Equal(t, tool.Summary, gen.LastToolOutput())

	// Extracted params went through the default policy.
	criteria := tool.LastCriteria()
	assert.Equal(t, "500", criteria.StatusCode)
	assert.Equal(t, "GET", criteria.HTTPMethod)
	assert.Equal(t, "14/Jul/2025:00:00:00", criteria.StartTime)
	assert.Equal(t, "14/Jul/2025:23:59:59", criteria.EndTime)
}

func TestRespondTruncatesHistory(t *testing.T) {
	gen := &testutil.FakeGenerator{Answer: "ok"}
	m := NewMachine(
		&testutil.FakeClassifier{Intent: models.IntentGeneral},
		&testutil.FakeExtractor{},
		gen,
		&testutil.FakeLogTool{},
	)

	var msgs []models.ConversationTurn
	for i := 0; i < 9; i++ {
		msgs = append(msgs, userTurn("m"))
	}
	_, err := m.RunTurn(context.Background(), TurnState{Messages: msgs})
	require.NoError(t, err)
	assert.Len(t, gen.LastHistory(), 6)
}

func TestAdapterFailures(t *testing.T) {
	boom := errors.New("upstream timeout")

	cases := []struct {
		name    string
		machine *Machine
	}{
		{"classifier", NewMachine(
			&testutil.FakeClassifier{Err: boom},
			&testutil.FakeExtractor{},
			&testutil.FakeGenerator{},
			&testutil.FakeLogTool{},
		)},
		{"extractor", NewMachine(
			&testutil.FakeClassifier{Intent: models.IntentLog},
			&testutil.FakeExtractor{Err: boom},
			&testutil.FakeGenerator{},
			&testutil.FakeLogTool{},
		)},
		{"generator", NewMachine(
			&testutil.FakeClassifier{Intent: models.IntentGeneral},
			&testutil.FakeExtractor{},
			&testutil.FakeGenerator{Err: boom},
			&testutil.FakeLogTool{},
		)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := TurnState{Messages: []models.ConversationTurn{userTurn("q")}}
			out, err := tc.machine.RunTurn(context.Background(), st)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAdapter)
			assert.Empty(t, out.Messages)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	now := fixedClock()

	t.Run("all empty", func(t *testing.T) {
		c := ApplyDefaults(models.QueryParams{}, now)
		assert.Equal(t, "404", c.StatusCode)
		assert.Equal(t, "14/Jul/2025:00:00:00", c.StartTime)
		assert.Equal(t, "14/Jul/2025:23:59:59", c.EndTime)
		assert.Empty(t, c.HTTPMethod)
		assert.Empty(t, c.SourceIP)
	})

	t.Run("explicit values kept", func(t *testing.T) {
		p := models.QueryParams{
			StartTime:  "01/Jan/2025:08:00:00",
			EndTime:    "01/Jan/2025:09:00:00",
			StatusCode: "200",
			HTTPMethod: "POST",
			SourceIP:   "9.9.9.9",
		}
		c := ApplyDefaults(p, now)
		assert.Equal(t, "01/Jan/2025:08:00:00", c.StartTime)
		assert.Equal(t, "01/Jan/2025:09:00:00", c.EndTime)
		assert.Equal(t, "200", c.StatusCode)
		assert.Equal(t, "POST", c.HTTPMethod)
		assert.Equal(t, "9.9.9.9", c.SourceIP)
	})

	t.Run("one missing bound defaults alone", func(t *testing.T) {
		c := ApplyDefaults(models.QueryParams{StartTime: "14/Jul/2025:06:00:00"}, now)
		assert.Equal(t, "14/Jul/2025:06:00:00", c.StartTime)
		assert.Equal(t, "14/Jul/2025:23:59:59", c.EndTime)
	})
}
