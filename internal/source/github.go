package source

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Pallavbh23/heapstack"
	"github.com/Pallavbh23/heapstack/internal/config"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReadmeExcerptBytes is how much of each README is kept.
const ReadmeExcerptBytes = 600

type ghOwner struct {
	Login string `json:"login"`
}

type ghRepo struct {
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	HTMLURL         string   `json:"html_url"`
	Description     *string  `json:"description"`
	StargazersCount *int     `json:"stargazers_count"`
	Topics          []string `json:"topics"`
	Owner           ghOwner  `json:"owner"`
}

func (r ghRepo) key() string {
	return strings.ToLower(r.Owner.Login) + "/" + strings.ToLower(r.Name)
}

type ghReadme struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GitHub loads a user's public repositories from the GitHub REST API.
type GitHub struct {
	cfg    config.GitHubConfig
	base   string
	client *http.Client
	bucket *ratelimit.Bucket // nil when throttling is off
	logger *zap.Logger
}

// NewGitHub returns a GitHub source for cfg.Username.
func NewGitHub(cfg config.GitHubConfig, timeout time.Duration, logger *zap.Logger) (*GitHub, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("github username is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	g := &GitHub{
		cfg:    cfg,
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{Timeout: timeout},
		logger: logger.With(zap.String("source", "github"), zap.String("user", cfg.Username)),
	}
	if cfg.RatePerSecond > 0 {
		capacity := int64(cfg.RatePerSecond)
		if capacity < 1 {
			capacity = 1
		}
		g.bucket = ratelimit.NewBucketWithRate(cfg.RatePerSecond, capacity)
	}
	return g, nil
}

// Close releases idle connections.
func (g *GitHub) Close() {
	g.client.CloseIdleConnections()
}

// Load fetches the user's repositories and starred set, optionally enriching
// each repository with a README excerpt. README failures are ignored.
func (g *GitHub) Load(ctx context.Context) ([]heapstack.Item, error) {
	user := url.PathEscape(g.cfg.Username)

	var repos, starred []ghRepo
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return g.getJSON(egCtx, "/users/"+user+"/repos?per_page=100&sort=updated", &repos)
	})
	eg.Go(func() error {
		return g.getJSON(egCtx, "/users/"+user+"/starred?per_page=100", &starred)
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if g.cfg.MaxRepos > 0 && len(repos) > g.cfg.MaxRepos {
		repos = repos[:g.cfg.MaxRepos]
	}

	starredSet := make(map[string]struct{}, len(starred))
	for _, r := range starred {
		starredSet[r.key()] = struct{}{}
	}

	records := make([]Record, len(repos))
	for i, r := range repos {
		_, isStarred := starredSet[r.key()]
		records[i] = Record{
			Name:        r.Name,
			Description: r.Description,
			Popularity:  r.StargazersCount,
			URL:         r.HTMLURL,
			Topics:      r.Topics,
			Starred:     isStarred,
		}
	}

	if g.cfg.IncludeReadme {
		g.enrichReadmes(ctx, repos, records)
	}

	g.logger.Info("fetched repositories", zap.Int("repos", len(records)), zap.Int("starred", len(starred)))
	return ToItems(records)
}

// enrichReadmes fills in Readme for each record, at most cfg.Concurrency at a time.
func (g *GitHub) enrichReadmes(ctx context.Context, repos []ghRepo, records []Record) {
	var eg errgroup.Group
	eg.SetLimit(g.cfg.Concurrency)
	for i := range repos {
		i := i
		eg.Go(func() error {
			r := repos[i]
			path := "/repos/" + url.PathEscape(r.Owner.Login) + "/" + url.PathEscape(r.Name) + "/readme"
			var readme ghReadme
			if err := g.getJSON(ctx, path, &readme); err != nil {
				g.logger.Debug("readme unavailable", zap.String("repo", r.FullName), zap.Error(err))
				return nil
			}
			text, err := decodeReadme(readme)
			if err != nil {
				g.logger.Debug("readme undecodable", zap.String("repo", r.FullName), zap.Error(err))
				return nil
			}
			records[i].Readme = text
			return nil
		})
	}
	_ = eg.Wait()
}

func decodeReadme(r ghReadme) (string, error) {
	if r.Encoding != "" && r.Encoding != "base64" {
		return "", fmt.Errorf("unsupported encoding %q", r.Encoding)
	}
	// GitHub wraps the base64 payload at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(r.Content, "\n", ""))
	if err != nil {
		return "", err
	}
	if len(raw) > ReadmeExcerptBytes {
		raw = raw[:ReadmeExcerptBytes]
		for len(raw) > 0 && !utf8.Valid(raw) {
			raw = raw[:len(raw)-1]
		}
	}
	return string(raw), nil
}

// getJSON waits for a rate-limit token, issues a GET and decodes the body into v.
func (g *GitHub) getJSON(ctx context.Context, path string, v interface{}) error {
	if err := g.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	g.logger.Debug("github request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", ErrFetch, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (g *GitHub) wait(ctx context.Context) error {
	if g.bucket == nil {
		return ctx.Err()
	}
	d := g.bucket.Take(1)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
