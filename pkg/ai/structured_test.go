package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReply struct {
	text string
	err  error
}

type scriptedClient struct {
	MetricsRecorder

	mu      sync.Mutex
	replies []scriptedReply
	calls   int
	opts    []GenerateOptions
}

func (c *scriptedClient) GenerateCompletionWithSchema(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	schema any,
	opts ...GenerateOption,
) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts = append(c.opts, ApplyOptions(GenerateOptions{}, opts...))
	i := c.calls
	c.calls++
	if i >= len(c.replies) {
		return "", errors.New("no scripted reply left")
	}
	return c.replies[i].text, c.replies[i].err
}

type subjectsPrototype struct {
	Rationale string   `json:"rationale"`
	Subjects  []string `json:"subjects"`
}

func newTestStructuredClient(c GraphAIClient, attempts int) *StructuredClient {
	return NewStructuredClient(NewStructuredClientParams{Client: c, Attempts: attempts})
}

func TestNewOutputShape_DerivesKeys(t *testing.T) {
	shape := NewOutputShape("subjects", "extract subjects", subjectsPrototype{})
	assert.Equal(t, []string{"subjects"}, shape.Lists)
	assert.Equal(t, []string{"rationale"}, shape.Strings)
	assert.NotNil(t, shape.Schema)
}

func TestStructuredClient_FirstValidResponse(t *testing.T) {
	c := &scriptedClient{replies: []scriptedReply{{text: `{"rationale":"ok","subjects":[{"id":"S1"}]}`}}}
	s := newTestStructuredClient(c, 3)

	out, ok := s.Generate(context.Background(), "prompt", NewOutputShape("subjects", "", subjectsPrototype{}))
	require.True(t, ok)
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, "ok", out.Text("rationale"))

	records, err := out.List("subjects")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStructuredClient_DefaultTemperature(t *testing.T) {
	c := &scriptedClient{replies: []scriptedReply{{text: `{}`}}}
	s := newTestStructuredClient(c, 1)

	_, ok := s.Generate(context.Background(), "prompt", NewOutputShape("subjects", "", subjectsPrototype{}))
	require.True(t, ok)
	require.Len(t, c.opts, 1)
	assert.InDelta(t, 0.01, c.opts[0].Temperature, 1e-9)
}

func TestStructuredClient_StripsCodeFence(t *testing.T) {
	c := &scriptedClient{replies: []scriptedReply{{text: "```json\n{\"rationale\":\"fenced\",\"subjects\":[]}\n```"}}}
	s := newTestStructuredClient(c, 3)

	out, ok := s.Generate(context.Background(), "prompt", NewOutputShape("subjects", "", subjectsPrototype{}))
	require.True(t, ok)
	assert.Equal(t, "fenced", out.Text("rationale"))
}

func TestStructuredClient_RetriesEachFailureKind(t *testing.T) {
	c := &scriptedClient{replies: []scriptedReply{
		{err: errors.New("connection reset")},
		{text: "   "},
		{text: "not json at all"},
		{text: `{"subjects":"should be a list"}`},
		{text: `{"rationale":"finally","subjects":[]}`},
	}}
	s := newTestStructuredClient(c, 5)

	out, ok := s.Generate(context.Background(), "prompt", NewOutputShape("subjects", "", subjectsPrototype{}))
	require.True(t, ok)
	assert.Equal(t, 5, c.calls)
	assert.Equal(t, "finally", out.Text("rationale"))
}

func TestStructuredClient_ExhaustedBudgetMakesExactlyNCalls(t *testing.T) {
	for _, n := range []int{1, 3, 4} {
		replies := make([]scriptedReply, n+2)
		for i := range replies {
			replies[i] = scriptedReply{text: ""}
		}
		replies[n] = scriptedReply{text: `{"subjects":[]}`}

		c := &scriptedClient{replies: replies}
		s := newTestStructuredClient(c, n)

		out, ok := s.Generate(context.Background(), "prompt", NewOutputShape("subjects", "", subjectsPrototype{}))
		assert.False(t, ok)
		assert.Nil(t, out)
		assert.Equalf(t, n, c.calls, "budget %d", n)
	}
}

func TestStructuredClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &scriptedClient{replies: []scriptedReply{{text: `{}`}}}
	s := newTestStructuredClient(c, 3)

	_, ok := s.Generate(ctx, "prompt", NewOutputShape("subjects", "", subjectsPrototype{}))
	assert.False(t, ok)
	assert.Equal(t, 0, c.calls)
}

func TestNewStructuredClient_NilClient(t *testing.T) {
	assert.Nil(t, NewStructuredClient(NewStructuredClientParams{}))
}

func TestMetricsRecorder(t *testing.T) {
	var r MetricsRecorder
	r.Record(ModelMetrics{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, DurationMs: 1000})
	r.Record(ModelMetrics{InputTokens: 20, OutputTokens: 5, TotalTokens: 25, DurationMs: 1000})

	m := r.GetMetrics()
	assert.Equal(t, 2, m.Requests)
	assert.Equal(t, 40, m.TotalTokens)
	assert.InDelta(t, 20.0, m.TokenPerSecond, 0.001)

	r.ResetMetrics()
	assert.Equal(t, ModelMetrics{}, r.GetMetrics())
}
