package github

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientFetchesUserAndRepos(t *testing.T) {
	var authHeader atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/users/alice":
			_, _ = io.WriteString(w, `{"login":"alice","public_repos":3}`)
		case "/users/alice/repos":
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "20", r.URL.Query().Get("per_page"))
			_, _ = io.WriteString(w, `[{"name":"one","language":"Go","stargazers_count":4}]`)
		case "/repos/alice/one":
			_, _ = io.WriteString(w, `{"name":"one","forks_count":2}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, WithToken("secret"), WithLogger(quietLogger()))
	ctx := context.Background()

	user := c.User(ctx, "alice")
	assert.Equal(t, "alice", user["login"])
	assert.Equal(t, "Bearer secret", authHeader.Load())

	repos := c.Repos(ctx, "alice")
	require.Len(t, repos, 1)
	assert.Equal(t, "one", repos[0]["name"])

	repo, ok := c.Repo(ctx, "alice", "one")
	require.True(t, ok)
	assert.EqualValues(t, 2, repo["forks_count"])
}

func TestClientDegradesToEmptyValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, WithLogger(quietLogger()))
	ctx := context.Background()

	assert.Empty(t, c.User(ctx, "alice"))
	assert.NotNil(t, c.User(ctx, "alice"))
	assert.Empty(t, c.Repos(ctx, "alice"))
	_, ok := c.Repo(ctx, "alice", "one")
	assert.False(t, ok)
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, WithLogger(quietLogger()))
	assert.Empty(t, c.User(context.Background(), "alice"))
	assert.Empty(t, c.Repos(context.Background(), "alice"))
}

func TestClientAppliesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, WithLogger(quietLogger()))
	start := time.Now()
	assert.Empty(t, c.User(context.Background(), "slow"))
	assert.Less(t, time.Since(start), time.Second)
}
