package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Result
	}{
		{
			name: "embedded in prose",
			text: `Here is the result: {"languages": ["Python"], "skills": ["backend"]} Thanks.`,
			want: Result{"languages": []any{"Python"}, "skills": []any{"backend"}},
		},
		{
			name: "fenced multi-line",
			text: "```json\n{\n  \"overall_score\": 82,\n  \"strengths\": [\"Go\"]\n}\n```",
			want: Result{"overall_score": float64(82), "strengths": []any{"Go"}},
		},
		{
			name: "nested objects use the outermost braces",
			text: `{"skill_assessments": {"Go": {"score": 9}}}`,
			want: Result{"skill_assessments": map[string]any{"Go": map[string]any{"score": float64(9)}}},
		},
		{
			name: "no braces",
			text: "I could not analyse this profile.",
			want: Result{"analysis": "I could not analyse this profile."},
		},
		{
			name: "malformed json",
			text: `Result: {languages: [Go]}`,
			want: Result{"analysis": `Result: {languages: [Go]}`},
		},
		{
			name: "two objects are not one document",
			text: `{"a": 1} and {"b": 2}`,
			want: Result{"analysis": `{"a": 1} and {"b": 2}`},
		},
		{
			name: "empty text",
			text: "",
			want: Result{"analysis": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseResponse(tt.text))
		})
	}
}

func TestParseResponseIsIdempotent(t *testing.T) {
	inputs := []string{
		`prefix {"score": 7, "tags": ["a", "b"]} suffix`,
		"plain text",
		`{"broken": }`,
	}
	for _, in := range inputs {
		assert.Equal(t, ParseResponse(in), ParseResponse(in))
	}
}
