package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiResume/internal/database"
	"aiResume/internal/store"
)

func newProfileRouter(t *testing.T) (*gin.Engine, *store.Store, string) {
	t.Helper()
	st := newTestStore(t)
	user := &database.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, st.Users.Create(context.Background(), user))

	h := NewProfileHandler(st.Profiles)
	r := gin.New()
	g := r.Group("/profile", withUser(user.ID))
	g.GET("", h.Get)
	g.POST("", h.Upsert)
	g.POST("/skills", h.AddSkill)
	g.POST("/experience", h.AddExperience)
	g.POST("/education", h.AddEducation)
	return r, st, user.ID
}

func TestProfileGetBeforeCreate(t *testing.T) {
	r, _, _ := newProfileRouter(t)

	w := doJSON(t, r, http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Profile not found", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodPost, "/profile/skills", map[string]string{"skill": "Go"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileUpsertValidatesURLs(t *testing.T) {
	r, _, _ := newProfileRouter(t)

	tests := []struct {
		body any
		msg  string
	}{
		{"", "No data provided"},
		{map[string]any{"github_url": "github.com/alice"}, "Invalid GitHub URL format"},
		{map[string]any{"linkedin_url": "ftp://linkedin.com/in/alice"}, "Invalid LinkedIn URL format"},
		{map[string]any{"project_links": "https://example.com"}, "Project links must be an array"},
		{map[string]any{"project_links": []string{"https://ok.example.com", "not a url"}}, "Invalid project URL: not a url"},
	}
	for _, tt := range tests {
		w := doJSON(t, r, http.MethodPost, "/profile", tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.msg)
		assert.Equal(t, tt.msg, decode(t, w)["error"])
	}
}

func TestProfileUpsertKeepsOmittedFields(t *testing.T) {
	r, st, userID := newProfileRouter(t)

	w := doJSON(t, r, http.MethodPost, "/profile", map[string]any{
		"github_url":    "https://github.com/alice",
		"project_links": []string{"https://github.com/alice/one", ""},
		"skills":        []string{"Go", "Go", "SQL"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Profile saved successfully", decode(t, w)["message"])

	w = doJSON(t, r, http.MethodPost, "/profile", map[string]any{"linkedin_url": ""})
	require.Equal(t, http.StatusOK, w.Code)

	profile, err := st.Profiles.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/alice", profile.GitHubURL)
	assert.Equal(t, []string{"https://github.com/alice/one"}, []string(profile.ProjectLinks))
	assert.Equal(t, []string{"Go", "SQL"}, []string(profile.Skills))
}

func TestProfileAppendEndpoints(t *testing.T) {
	r, _, _ := newProfileRouter(t)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/profile", map[string]any{"skills": []string{"Go"}}).Code)

	w := doJSON(t, r, http.MethodPost, "/profile/skills", map[string]any{})
	assert.Equal(t, "Skill is required", decode(t, w)["error"])
	w = doJSON(t, r, http.MethodPost, "/profile/skills", map[string]string{"skill": "  "})
	assert.Equal(t, "Skill cannot be empty", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/profile/skills", map[string]string{"skill": "Go"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/profile/skills", map[string]string{"skill": "Rust"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Go", "Rust"}, decode(t, w)["skills"])

	w = doJSON(t, r, http.MethodPost, "/profile/experience", map[string]string{"company": "Acme", "position": "Dev"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Company, position, and duration are required", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/profile/experience", map[string]string{"company": "Acme", "position": "Dev", "duration": "2y"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["experience"], 1)

	w = doJSON(t, r, http.MethodPost, "/profile/education", map[string]string{"institution": "MIT", "degree": "BSc"})
	assert.Equal(t, "Institution, degree, and year are required", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/profile/education", map[string]string{"institution": "MIT", "degree": "BSc", "year": "2015"})
	require.Equal(t, http.StatusOK, w.Code)
	edu := decode(t, w)["education"].([]any)
	require.Len(t, edu, 1)
	assert.Equal(t, "", edu[0].(map[string]any)["gpa"])

	w = doJSON(t, r, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)["profile"].(map[string]any)
	assert.Equal(t, []any{"Go", "Rust"}, profile["skills"])
	assert.Equal(t, []any{}, profile["project_links"])
}
