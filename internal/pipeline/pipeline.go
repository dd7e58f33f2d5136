// Package pipeline 串联一次简历生成：读取资料 → 并发分析 → 合成内容与报告 → 落库。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"aiResume/internal/database"
	"aiResume/internal/metrics"
	"aiResume/internal/resume"
	"aiResume/internal/store"
)

var (
	// ErrProfileNotFound 表示用户尚未创建 profile。
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUserNotFound 表示 profile 对应的用户不存在。
	ErrUserNotFound = errors.New("user not found")
)

// Analyzer 是流水线依赖的分析与合成能力。
type Analyzer interface {
	AnalyzeGitHubProfile(ctx context.Context, githubURL string) resume.Analysis
	AnalyzeLinkedInProfile(ctx context.Context, linkedInURL string) resume.Analysis
	AnalyzeProjectLinks(ctx context.Context, links []string) resume.Analysis
	GenerateResumeContent(ctx context.Context, profile resume.ProfileData, aggregate resume.AnalysisSet) resume.Analysis
	GenerateExpertiseReport(ctx context.Context, profile resume.ProfileData, aggregate resume.AnalysisSet) resume.Analysis
}

type profileFinder interface {
	FindByUserID(ctx context.Context, userID string) (*database.Profile, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*database.User, error)
}

type resumeCreator interface {
	Create(ctx context.Context, resume *database.Resume) error
}

// Service 无跨请求状态，可被多个请求并发调用。
type Service struct {
	profiles profileFinder
	users    userFinder
	resumes  resumeCreator
	analyzer Analyzer
	logger   *slog.Logger
}

func NewService(profiles profileFinder, users userFinder, resumes resumeCreator, analyzer Analyzer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		profiles: profiles,
		users:    users,
		resumes:  resumes,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Generate 为用户生成并保存一份新简历。
// 找不到 profile / user 时返回 ErrProfileNotFound / ErrUserNotFound，且不会发起任何外部调用；
// 单个分析失败只会体现在对应的 {error} 结果中。
func (s *Service) Generate(ctx context.Context, userID string) (record *database.Resume, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resume generation panicked: %v", r)
		}
		metrics.ObserveGeneration(generationOutcome(err))
	}()

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	snapshot := Snapshot(user, profile)
	aggregate := s.runAnalyses(ctx, profile)

	var content, report resume.Analysis
	var g errgroup.Group
	g.Go(func() error {
		content = s.guard("resume_content", func() resume.Analysis {
			return s.analyzer.GenerateResumeContent(ctx, snapshot, aggregate)
		})
		return nil
	})
	g.Go(func() error {
		report = s.guard("expertise_report", func() resume.Analysis {
			return s.analyzer.GenerateExpertiseReport(ctx, snapshot, aggregate)
		})
		return nil
	})
	_ = g.Wait()

	record = &database.Resume{
		UserID:    user.ID,
		ProfileID: profile.ID,
		ResumeData: datatypes.NewJSONType(resume.Document{
			ProfileData: snapshot,
			AIEnhanced:  content,
			AIAnalysis:  aggregate,
		}),
		ExpertiseReport: datatypes.NewJSONType(report),
		PdfStatus:       database.PDFStatusNone,
	}
	if err := s.resumes.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save resume: %w", err)
	}

	s.logger.Info("resume generated",
		slog.String("resume_id", record.ID),
		slog.String("user_id", user.ID),
		slog.Int("analyses", len(aggregate)),
	)
	return record, nil
}

// runAnalyses 只为 profile 中已填写的来源发起分析，各来源并发执行并写入各自的槽位。
func (s *Service) runAnalyses(ctx context.Context, profile *database.Profile) resume.AnalysisSet {
	var (
		g                                   errgroup.Group
		githubRes, linkedInRes, projectsRes resume.Analysis
	)

	if profile.GitHubURL != "" {
		g.Go(func() error {
			githubRes = s.guard(resume.SourceGitHub, func() resume.Analysis {
				return s.analyzer.AnalyzeGitHubProfile(ctx, profile.GitHubURL)
			})
			return nil
		})
	}
	if profile.LinkedInURL != "" {
		g.Go(func() error {
			linkedInRes = s.guard(resume.SourceLinkedIn, func() resume.Analysis {
				return s.analyzer.AnalyzeLinkedInProfile(ctx, profile.LinkedInURL)
			})
			return nil
		})
	}
	if len(profile.ProjectLinks) > 0 {
		links := append([]string(nil), profile.ProjectLinks...)
		g.Go(func() error {
			projectsRes = s.guard(resume.SourceProjects, func() resume.Analysis {
				return s.analyzer.AnalyzeProjectLinks(ctx, links)
			})
			return nil
		})
	}
	_ = g.Wait()

	aggregate := resume.AnalysisSet{}
	for source, res := range map[string]resume.Analysis{
		resume.SourceGitHub:   githubRes,
		resume.SourceLinkedIn: linkedInRes,
		resume.SourceProjects: projectsRes,
	} {
		if res == nil {
			continue
		}
		_, failed := res.ErrorReason()
		metrics.ObserveAnalysis(source, failed)
		aggregate[source] = res
	}
	return aggregate
}

// guard 把 goroutine 内的 panic 转成 {error} 结果，避免拖垮整个进程。
func (s *Service) guard(name string, fn func() resume.Analysis) (result resume.Analysis) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("analysis step panicked", slog.String("step", name), slog.Any("panic", r))
			result = resume.Failed(fmt.Sprintf("%s failed: %v", name, r))
		}
	}()
	result = fn()
	if result == nil {
		result = resume.Analysis{}
	}
	return result
}

func generationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
