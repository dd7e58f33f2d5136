// Package github 是 GitHub 公共 REST API 的轻量客户端。
//
// 所有方法在失败时返回空值（空 map / 空切片 / ok=false）并记录 warn 日志，不向上抛错：
// 调用方把空数据当作"未知"处理。
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "aiResume-backend"
	reposPerPage   = 20
)

// Client 访问 GitHub 公共 API。零值不可用，请使用 NewClient。
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// Option 调整 Client 的可选参数。
type Option func(*Client)

// WithToken 为请求附加 Authorization 头。
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient 替换底层 http.Client。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger 设置日志输出。
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient 创建客户端；timeout 为单次请求的超时时间。
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// User 返回用户的公开资料（login、name、bio、public_repos、followers、following、company、location 等）。
func (c *Client) User(ctx context.Context, username string) map[string]any {
	var user map[string]any
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(username), &user); err != nil {
		c.logger.Warn("github user fetch failed", slog.String("username", username), slog.Any("error", err))
		return map[string]any{}
	}
	if user == nil {
		return map[string]any{}
	}
	return user
}

// Repos 返回用户最近更新的至多 20 个仓库。
func (c *Client) Repos(ctx context.Context, username string) []map[string]any {
	path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=%d", url.PathEscape(username), reposPerPage)
	var repos []map[string]any
	if err := c.getJSON(ctx, path, &repos); err != nil {
		c.logger.Warn("github repos fetch failed", slog.String("username", username), slog.Any("error", err))
		return []map[string]any{}
	}
	if repos == nil {
		return []map[string]any{}
	}
	return repos
}

// Repo 返回单个仓库的元数据；仓库不可访问时 ok 为 false。
func (c *Client) Repo(ctx context.Context, owner, name string) (map[string]any, bool) {
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))
	var repo map[string]any
	if err := c.getJSON(ctx, path, &repo); err != nil {
		c.logger.Warn("github repo fetch failed",
			slog.String("owner", owner),
			slog.String("repo", name),
			slog.Any("error", err),
		)
		return nil, false
	}
	return repo, repo != nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github API status %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
