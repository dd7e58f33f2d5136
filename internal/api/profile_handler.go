package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"aiResume/internal/api/middleware"
	"aiResume/internal/database"
	"aiResume/internal/resume"
	"aiResume/internal/store"
)

var profileURLPattern = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)

// ProfileHandler 负责用户职业资料的读取与维护。
type ProfileHandler struct {
	profiles *store.Profiles
}

func NewProfileHandler(profiles *store.Profiles) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	GitHubURL    string              `json:"github_url"`
	LinkedInURL  string              `json:"linkedin_url"`
	ProjectLinks []string            `json:"project_links"`
	Skills       []string            `json:"skills"`
	Experience   []resume.Experience `json:"experience"`
	Education    []resume.Education  `json:"education"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func newProfileResponse(p *database.Profile) profileResponse {
	return profileResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		GitHubURL:    p.GitHubURL,
		LinkedInURL:  p.LinkedInURL,
		ProjectLinks: nonNil(p.ProjectLinks),
		Skills:       nonNil(p.Skills),
		Experience:   nonNil(p.Experience),
		Education:    nonNil(p.Education),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Get 返回当前用户的资料。
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	profile, err := h.profiles.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Profile not found"})
			return
		}
		middleware.LoggerFromContext(c).Error("load profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": newProfileResponse(profile)})
}

// upsertProfileRequest 中缺省的字段保持原值不变。
type upsertProfileRequest struct {
	GitHubURL    *string             `json:"github_url"`
	LinkedInURL  *string             `json:"linkedin_url"`
	ProjectLinks any                 `json:"project_links"`
	Skills       []string            `json:"skills"`
	Experience   []resume.Experience `json:"experience"`
	Education    []resume.Education  `json:"education"`
}

// Upsert 创建或更新资料，只覆盖请求中出现的字段。
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "No data provided")
		return
	}

	if req.GitHubURL != nil && !validProfileURL(*req.GitHubURL) {
		BadRequest(c, "Invalid GitHub URL format")
		return
	}
	if req.LinkedInURL != nil && !validProfileURL(*req.LinkedInURL) {
		BadRequest(c, "Invalid LinkedIn URL format")
		return
	}

	var links []string
	if req.ProjectLinks != nil {
		raw, ok := req.ProjectLinks.([]any)
		if !ok {
			BadRequest(c, "Project links must be an array")
			return
		}
		links = make([]string, 0, len(raw))
		for _, item := range raw {
			link, ok := item.(string)
			if !ok || !validProfileURL(link) {
				BadRequest(c, fmt.Sprintf("Invalid project URL: %v", item))
				return
			}
			if link = strings.TrimSpace(link); link != "" {
				links = append(links, link)
			}
		}
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	profile, err := h.profiles.FindOrInit(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			AbortUnauthorized(c)
			return
		}
		logger.Error("load profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if req.GitHubURL != nil {
		profile.GitHubURL = strings.TrimSpace(*req.GitHubURL)
	}
	if req.LinkedInURL != nil {
		profile.LinkedInURL = strings.TrimSpace(*req.LinkedInURL)
	}
	if req.ProjectLinks != nil {
		profile.ProjectLinks = datatypes.NewJSONSlice(links)
	}
	if req.Skills != nil {
		profile.Skills = datatypes.NewJSONSlice(dedupSkills(nil, req.Skills...))
	}
	if req.Experience != nil {
		profile.Experience = datatypes.NewJSONSlice(req.Experience)
	}
	if req.Education != nil {
		profile.Education = datatypes.NewJSONSlice(req.Education)
	}

	if err := h.profiles.Save(ctx, profile); err != nil {
		logger.Error("save profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile saved successfully",
		"profile": newProfileResponse(profile),
	})
}

type addSkillRequest struct {
	Skill *string `json:"skill"`
}

// AddSkill 追加一项技能，已存在时不重复添加。
func (h *ProfileHandler) AddSkill(c *gin.Context) {
	var req addSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Skill == nil {
		BadRequest(c, "Skill is required")
		return
	}
	skill := strings.TrimSpace(*req.Skill)
	if skill == "" {
		BadRequest(c, "Skill cannot be empty")
		return
	}

	profile, ok := h.existingProfile(c)
	if !ok {
		return
	}
	profile.Skills = datatypes.NewJSONSlice(dedupSkills(profile.Skills, skill))
	if !h.save(c, profile) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Skill added successfully",
		"skills":  nonNil(profile.Skills),
	})
}

// AddExperience 追加一段工作经历。
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req resume.Experience
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.Position) == "" || strings.TrimSpace(req.Duration) == "" {
		BadRequest(c, "Company, position, and duration are required")
		return
	}

	profile, ok := h.existingProfile(c)
	if !ok {
		return
	}
	profile.Experience = append(profile.Experience, req)
	if !h.save(c, profile) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Experience added successfully",
		"experience": nonNil(profile.Experience),
	})
}

// AddEducation 追加一段教育经历，GPA 可选。
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req resume.Education
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Institution) == "" || strings.TrimSpace(req.Degree) == "" || strings.TrimSpace(req.Year) == "" {
		BadRequest(c, "Institution, degree, and year are required")
		return
	}

	profile, ok := h.existingProfile(c)
	if !ok {
		return
	}
	profile.Education = append(profile.Education, req)
	if !h.save(c, profile) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Education added successfully",
		"education": nonNil(profile.Education),
	})
}

func (h *ProfileHandler) existingProfile(c *gin.Context) (*database.Profile, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return nil, false
	}

	profile, err := h.profiles.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			NotFound(c, "Profile not found")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("load profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return nil, false
	}
	return profile, true
}

func (h *ProfileHandler) save(c *gin.Context, profile *database.Profile) bool {
	if err := h.profiles.Save(c.Request.Context(), profile); err != nil {
		middleware.LoggerFromContext(c).Error("save profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return false
	}
	return true
}

func validProfileURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || profileURLPattern.MatchString(raw)
}

func dedupSkills(existing []string, add ...string) []string {
	out := make([]string, 0, len(existing)+len(add))
	for _, s := range append(slices.Clone(existing), add...) {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
