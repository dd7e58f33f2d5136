// Package analysis 把资料链接与 profile 数据组装成 prompt，调用生成模型，
// 并将自由文本结果规整为结构化 Result。
//
// 所有入口都不返回 error：校验失败、外部调用失败都以 {"error": "..."} 的形式体现在结果中。
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"aiResume/internal/llm"
	"aiResume/internal/metrics"
	"aiResume/internal/resume"
)

// Result 是单次分析的结构化输出。
type Result = resume.Analysis

// Aggregate 按来源（github / linkedin / projects）聚合分析结果。
type Aggregate = resume.AnalysisSet

var (
	githubUserRe   = regexp.MustCompile(`github\.com/([^/]+)`)
	githubRepoRe   = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)
	linkedInPathRe = regexp.MustCompile(`linkedin\.com/in/[^/]+`)
)

// Fetcher 是分析所需的 GitHub 数据源，失败时返回空值。
type Fetcher interface {
	User(ctx context.Context, username string) map[string]any
	Repos(ctx context.Context, username string) []map[string]any
	Repo(ctx context.Context, owner, name string) (map[string]any, bool)
}

// Analyzer 无状态，可并发使用。
type Analyzer struct {
	github Fetcher
	model  llm.Generator
	logger *slog.Logger
}

// NewAnalyzer 创建分析器；logger 为空时使用 slog.Default()。
func NewAnalyzer(github Fetcher, model llm.Generator, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{github: github, model: model, logger: logger}
}

// AnalyzeGitHubProfile 基于用户资料和最近的仓库分析 GitHub 主页。
func (a *Analyzer) AnalyzeGitHubProfile(ctx context.Context, githubURL string) (result Result) {
	defer a.recoverInto(opGitHub, &result)

	match := githubUserRe.FindStringSubmatch(githubURL)
	if match == nil {
		return resume.Failed("Invalid GitHub URL")
	}
	username := match[1]

	user := a.github.User(ctx, username)
	repos := a.github.Repos(ctx, username)

	return a.complete(ctx, opGitHub, githubPrompt(user, repos))
}

// AnalyzeLinkedInProfile 仅根据 URL 生成通用的职业建议，LinkedIn 没有可用的公开 API。
func (a *Analyzer) AnalyzeLinkedInProfile(ctx context.Context, linkedInURL string) (result Result) {
	defer a.recoverInto(opLinkedIn, &result)

	if !linkedInPathRe.MatchString(linkedInURL) {
		return resume.Failed("Invalid LinkedIn URL")
	}
	return a.complete(ctx, opLinkedIn, fmt.Sprintf(linkedInPromptTemplate, linkedInURL))
}

// AnalyzeProjectLinks 汇总全部项目链接后发起一次分析。
// GitHub 仓库链接会补充仓库元数据，其余链接标记为 external_project。
func (a *Analyzer) AnalyzeProjectLinks(ctx context.Context, links []string) (result Result) {
	defer a.recoverInto(opProjects, &result)

	entries := a.describeProjects(ctx, links)
	body, err := marshalIndent(entries)
	if err != nil {
		return resume.Failed(opProjects.failure + ": " + err.Error())
	}
	return a.complete(ctx, opProjects, fmt.Sprintf(projectsPromptTemplate, body))
}

type repoSummary struct {
	Name        any `json:"name"`
	Description any `json:"description"`
	Language    any `json:"language"`
	Stars       any `json:"stars"`
	Forks       any `json:"forks"`
	Size        any `json:"size"`
}

// projectEntry 字段顺序即 prompt 中的输出顺序。
type projectEntry struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
	*repoSummary
	Error string `json:"error,omitempty"`
}

func (a *Analyzer) describeProjects(ctx context.Context, links []string) []projectEntry {
	entries := make([]projectEntry, 0, len(links))
	for _, link := range links {
		match := githubRepoRe.FindStringSubmatch(link)
		if match == nil {
			entries = append(entries, projectEntry{URL: link, Type: "external_project"})
			continue
		}

		owner, name := match[1], strings.TrimSuffix(match[2], ".git")
		repo, ok := a.github.Repo(ctx, owner, name)
		if !ok {
			entries = append(entries, projectEntry{URL: link, Error: "Repository not accessible"})
			continue
		}
		entries = append(entries, projectEntry{
			URL: link,
			repoSummary: &repoSummary{
				Name:        repo["name"],
				Description: repo["description"],
				Language:    repo["language"],
				Stars:       valueOr(repo, "stargazers_count", 0),
				Forks:       valueOr(repo, "forks_count", 0),
				Size:        valueOr(repo, "size", 0),
			},
		})
	}
	return entries
}

// complete 调用模型并规整结果，模型错误转换为 {error} 结果。
func (a *Analyzer) complete(ctx context.Context, op operation, prompt string) Result {
	start := time.Now()
	text, err := a.model.Generate(ctx, prompt)
	metrics.ObserveModelCall(op.name, time.Since(start), err)
	if err != nil {
		a.logger.Warn("model call failed",
			slog.String("operation", op.name),
			slog.Any("error", err),
		)
		return resume.Failed(op.failure + ": " + err.Error())
	}

	result := ParseResponse(text)
	a.checkShape(op, result)
	return result
}

func (a *Analyzer) checkShape(op operation, result Result) {
	missing, err := op.missingKeys(result)
	if err != nil {
		a.logger.Warn("schema check failed", slog.String("operation", op.name), slog.Any("error", err))
		return
	}
	if len(missing) == 0 {
		return
	}
	metrics.ObserveSchemaMismatch(op.name)
	a.logger.Warn("model response is missing requested keys",
		slog.String("operation", op.name),
		slog.Any("missing", missing),
	)
}

func (a *Analyzer) recoverInto(op operation, result *Result) {
	if r := recover(); r != nil {
		a.logger.Error("analysis panicked", slog.String("operation", op.name), slog.Any("panic", r))
		*result = resume.Failed(fmt.Sprintf("%s: %v", op.failure, r))
	}
}

func valueOr(m map[string]any, key string, fallback any) any {
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	return fallback
}
