package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/OFFIS-RIT/contingency/backend/internal/util"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
)

const (
	defaultAttempts    = 3
	defaultTemperature = 0.01
)

var errEmptyResponse = errors.New("empty response from model")

// OutputShape describes the structured record a caller expects back from
// the model. Lists and Strings name the top-level keys whose values must be
// JSON arrays or strings when present.
type OutputShape struct {
	Name        string
	Description string
	Schema      any
	Lists       []string
	Strings     []string
}

// NewOutputShape derives an OutputShape from a prototype struct: the JSON
// schema is reflected from it and every slice or string field becomes a
// checked top-level key.
func NewOutputShape(name string, description string, prototype any) OutputShape {
	shape := OutputShape{
		Name:        name,
		Description: description,
		Schema:      GenerateSchema(prototype),
	}

	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if key == "" || key == "-" {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Slice:
			shape.Lists = append(shape.Lists, key)
		case reflect.String:
			shape.Strings = append(shape.Strings, key)
		}
	}
	return shape
}

// StructuredOutput is a parsed model response keyed by top-level field.
type StructuredOutput map[string]json.RawMessage

// List returns the records under key. Absent and null keys yield no records.
func (o StructuredOutput) List(key string) ([]json.RawMessage, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%s: expected array: %w", key, err)
	}
	return records, nil
}

// Text returns the string under key, or "" when absent or not a string.
func (o StructuredOutput) Text(key string) string {
	raw, ok := o[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Check reports whether out conforms to the shape.
func (s OutputShape) Check(out StructuredOutput) error {
	for _, key := range s.Lists {
		if _, err := out.List(key); err != nil {
			return err
		}
	}
	for _, key := range s.Strings {
		raw, ok := out[key]
		if !ok || isNull(raw) {
			continue
		}
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return fmt.Errorf("%s: expected string: %w", key, err)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

// StructuredClient wraps a GraphAIClient with parsing, shape checks and a
// bounded retry policy. It is safe for concurrent use if the wrapped client is.
type StructuredClient struct {
	client      GraphAIClient
	attempts    int
	backoff     util.Backoff
	temperature float64
}

// NewStructuredClientParams configures a StructuredClient.
//
// Attempts is the total number of transport calls per Generate (default 3).
// BaseDelay is the wait after the first failure; it doubles after each
// further failure. Zero disables waiting. Temperature <= 0 selects 0.01.
type NewStructuredClientParams struct {
	Client      GraphAIClient
	Attempts    int
	BaseDelay   time.Duration
	Temperature float64
}

// NewStructuredClient creates a StructuredClient. It returns nil when no
// transport client is given.
func NewStructuredClient(params NewStructuredClientParams) *StructuredClient {
	if params.Client == nil {
		return nil
	}
	attempts := params.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	temperature := params.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &StructuredClient{
		client:      params.Client,
		attempts:    attempts,
		backoff:     util.ExponentialBackoff(params.BaseDelay),
		temperature: temperature,
	}
}

// Client returns the wrapped transport client.
func (s *StructuredClient) Client() GraphAIClient {
	return s.client
}

// Generate sends prompt and returns the parsed record. Transport errors,
// empty text, unparseable JSON and shape mismatches are retried; once the
// attempt budget is spent it returns (nil, false).
func (s *StructuredClient) Generate(
	ctx context.Context,
	prompt string,
	shape OutputShape,
	opts ...GenerateOption,
) (StructuredOutput, bool) {
	opts = append([]GenerateOption{WithTemperature(s.temperature)}, opts...)

	attempt := 0
	out, err := util.RetryWithBackoff(ctx, s.attempts, s.backoff, func(ctx context.Context) (StructuredOutput, error) {
		attempt++
		out, err := s.generateOnce(ctx, prompt, shape, opts...)
		if err != nil {
			logger.Warn(
				"[AI] Structured generation attempt failed",
				"shape", shape.Name,
				"attempt", attempt,
				"max_attempts", s.attempts,
				"err", err,
			)
		}
		return out, err
	})
	if err != nil {
		logger.Error("[AI] Structured generation gave up", "shape", shape.Name, "attempts", attempt, "err", err)
		return nil, false
	}
	return out, true
}

func (s *StructuredClient) generateOnce(
	ctx context.Context,
	prompt string,
	shape OutputShape,
	opts ...GenerateOption,
) (StructuredOutput, error) {
	text, err := s.client.GenerateCompletionWithSchema(ctx, shape.Name, shape.Description, prompt, shape.Schema, opts...)
	if err != nil {
		return nil, err
	}
	text = StripCodeFence(text)
	if text == "" {
		return nil, errEmptyResponse
	}

	var out StructuredOutput
	if err := UnmarshalFlexible(text, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%s: expected a JSON object", shape.Name)
	}
	if err := shape.Check(out); err != nil {
		return nil, fmt.Errorf("%s: %w", shape.Name, err)
	}
	return out, nil
}
