// Package release looks up the latest published agentforge release and
// compares it with the running build. The lookup is best-effort: callers
// report failures and continue.
package release

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"
	"github.com/goldirana/agentforge/pkg/config"
	"github.com/sethvargo/go-retry"
)

// LatestReleaseURL is the default GitHub endpoint for the newest published
// release.
const LatestReleaseURL = "https://api.github.com/repos/goldirana/agentforge/releases/latest"

const latestReleaseFormat = "https://api.github.com/repos/%s/%s/releases/latest"

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryCount = 2
	defaultRetryDelay = 200 * time.Millisecond
)

// Release is the subset of the GitHub release payload the checker needs.
type Release struct {
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
}

// CheckResult reports how the running build compares to the latest release.
type CheckResult struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateAvailable bool   `json:"update_available"`
	ReleaseURL      string `json:"release_url,omitempty"`
}

// Checker fetches and compares release versions.
type Checker struct {
	client     *resty.Client
	url        string
	maxRetries uint64
}

// NewChecker builds a checker from the release section of the application
// configuration. A nil config falls back to the public agentforge repository.
func NewChecker(cfg *config.Config) *Checker {
	url := LatestReleaseURL
	timeout := defaultTimeout
	retries := uint64(defaultRetryCount)
	var token string
	if cfg != nil {
		if cfg.Release.RepoOwner != "" && cfg.Release.RepoName != "" {
			url = fmt.Sprintf(latestReleaseFormat, cfg.Release.RepoOwner, cfg.Release.RepoName)
		}
		if cfg.Release.Timeout > 0 {
			timeout = cfg.Release.Timeout
		}
		if cfg.Release.MaxRetries > 0 {
			retries = uint64(cfg.Release.MaxRetries)
		}
		token = cfg.Release.Token.Value()
	}
	client := newClient(timeout)
	if token != "" {
		client.SetHeader("Authorization", "Bearer "+token)
	}
	return &Checker{client: client, url: url, maxRetries: retries}
}

// NewCheckerWithURL points the checker at an explicit endpoint. Tests and
// mirrors use this.
func NewCheckerWithURL(url string) *Checker {
	return &Checker{client: newClient(defaultTimeout), url: url, maxRetries: defaultRetryCount}
}

func newClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("User-Agent", "agentforge")
}

// Check fetches the latest release and compares it against currentVersion.
// Dev builds without a semantic version report an error instead of a bogus
// comparison.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*CheckResult, error) {
	current, err := semver.NewVersion(strings.TrimPrefix(currentVersion, "v"))
	if err != nil {
		return nil, fmt.Errorf("current version %q is not semantic: %w", currentVersion, err)
	}
	release, err := c.fetchLatest(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := semver.NewVersion(strings.TrimPrefix(release.TagName, "v"))
	if err != nil {
		return nil, fmt.Errorf("latest release tag %q is not semantic: %w", release.TagName, err)
	}
	return &CheckResult{
		CurrentVersion:  current.String(),
		LatestVersion:   latest.String(),
		UpdateAvailable: latest.GreaterThan(current),
		ReleaseURL:      release.HTMLURL,
	}, nil
}

// fetchLatest retries transient failures with exponential backoff before
// giving up.
func (c *Checker) fetchLatest(ctx context.Context) (*Release, error) {
	var release Release
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(defaultRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.client.R().
			SetContext(ctx).
			SetResult(&release).
			Get(c.url)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode() == http.StatusOK {
			return nil
		}
		if isTransientStatus(resp.StatusCode()) {
			return retry.RetryableError(fmt.Errorf("github responded with %s", resp.Status()))
		}
		return fmt.Errorf("github responded with %s", resp.Status())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	return &release, nil
}

func isTransientStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}
