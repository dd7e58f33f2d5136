package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiResume/internal/resume"
)

func TestRenderHTMLIncludesSections(t *testing.T) {
	html, err := RenderHTML(resume.Sample())
	require.NoError(t, err)

	for _, want := range []string{
		"Professional Resume",
		"Name: Jane Doe",
		"GitHub: https://github.com/janedoe",
		"Professional Summary",
		"Go, PostgreSQL, Kubernetes, TypeScript",
		"<b>Senior Backend Engineer</b> at Acme Corp",
		"GPA: 3.8",
		"Project 1: https://github.com/janedoe/queue-bench",
		"<li>Observability</li>",
	} {
		assert.Contains(t, html, want)
	}
}

func TestRenderHTMLToleratesMissingAIFields(t *testing.T) {
	doc := resume.Document{
		AIEnhanced: resume.Analysis{
			"professional_summary": map[string]any{"unexpected": "shape"},
			"strengths":            "not a list",
		},
	}
	html, err := RenderHTML(doc)
	require.NoError(t, err)

	assert.Contains(t, html, "Name: N/A")
	assert.NotContains(t, html, "Professional Summary")
	assert.NotContains(t, html, "Key Strengths")
	assert.NotContains(t, html, "Work Experience")
}

func TestRenderHTMLEscapesUserContent(t *testing.T) {
	doc := resume.Document{
		ProfileData: resume.ProfileData{
			PersonalInfo: resume.PersonalInfo{Name: "<script>alert(1)</script>"},
		},
	}
	html, err := RenderHTML(doc)
	require.NoError(t, err)
	assert.False(t, strings.Contains(html, "<script>alert(1)</script>"))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	assert.ErrorIs(t, Verify([]byte("definitely not a pdf")), ErrEmptyDocument)
	assert.ErrorIs(t, Verify(nil), ErrEmptyDocument)
}
