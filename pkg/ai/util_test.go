package ai

import (
	"encoding/json"
	"testing"
)

type stimulusRecord struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func TestUnmarshalFlexible_RecordVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  stimulusRecord
	}{
		{
			name:  "valid json object",
			input: `{"id":"E1","description":"cake on the table"}`,
			want:  stimulusRecord{ID: "E1", Description: "cake on the table"},
		},
		{
			name:  "unquoted keys and single quotes",
			input: `{id: 'E1', description: 'cake on the table'}`,
			want:  stimulusRecord{ID: "E1", Description: "cake on the table"},
		},
		{
			name:  "trailing comma",
			input: `{"id":"E1","description":"cake on the table",}`,
			want:  stimulusRecord{ID: "E1", Description: "cake on the table"},
		},
		{
			name:  "truncated output",
			input: `{"id":"E1","description":"cake on the table`,
			want:  stimulusRecord{ID: "E1", Description: "cake on the table"},
		},
		{
			name:  "double encoded",
			input: `"{\"id\":\"E1\",\"description\":\"cake on the table\"}"`,
			want:  stimulusRecord{ID: "E1", Description: "cake on the table"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"id\": \"E1\", \"description\": \"cake on the table\"\n}\n",
			want:  stimulusRecord{ID: "E1", Description: "cake on the table"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got stimulusRecord
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	var got stimulusRecord
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"single line fence", "```json {\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFence(tc.input); got != tc.want {
				t.Fatalf("StripCodeFence() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateSchema_DisallowsAdditionalProperties(t *testing.T) {
	data, err := json.Marshal(GenerateSchema(&stimulusRecord{}))
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	var schema struct {
		Type                 string         `json:"type"`
		Properties           map[string]any `json:"properties"`
		Required             []string       `json:"required"`
		AdditionalProperties *bool          `json:"additionalProperties"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	if schema.Type != "object" {
		t.Fatalf("expected object schema, got %q", schema.Type)
	}
	if _, ok := schema.Properties["description"]; !ok {
		t.Fatalf("expected description property, got %v", schema.Properties)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %v", schema.Required)
	}
	if schema.AdditionalProperties == nil || *schema.AdditionalProperties {
		t.Fatalf("expected additionalProperties false")
	}
}
