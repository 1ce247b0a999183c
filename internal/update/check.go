// Package update reports whether an installed copy is behind the head of its
// update channel branch.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/afitler79-alt/XUI-X360-FRONTEND-sub003/internal/messages"
)

var commitsBaseURL = "https://api.github.com/repos"
var httpClient = &http.Client{Timeout: 12 * time.Second}
var retryDelay = 250 * time.Millisecond

const fetchCommitRetryCount = 1

// errMissingRemoteSHA is reported when the commits API answers without a sha.
var errMissingRemoteSHA = errors.New(messages.UpdateMissingRemoteSHA)

// RateLimitError indicates GitHub's API rate limit was hit while checking for updates.
//
// Callers should generally treat this as a best-effort failure and suppress/minimize output.
type RateLimitError struct {
	StatusCode int
	Status     string
	Remaining  *int
}

func (e *RateLimitError) Error() string {
	remainingText := "unknown"
	if e.Remaining != nil {
		remainingText = strconv.Itoa(*e.Remaining)
	}
	return fmt.Sprintf(messages.UpdateRateLimitFmt, e.Status, remainingText)
}

// IsRateLimitError reports whether err represents a GitHub API rate-limit condition.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// RemoteCommit is the head of a branch as reported by the commits API.
type RemoteCommit struct {
	SHA  string
	Date string
	URL  string
}

type commitResponse struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Committer struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// FetchRemoteCommit returns the head commit of branch in repo. Transient
// network and 5xx failures are retried once.
func FetchRemoteCommit(ctx context.Context, repo string, branch string) (RemoteCommit, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	url := fmt.Sprintf("%s/%s/commits/%s", strings.TrimRight(commitsBaseURL, "/"), repo, branch)

	var out RemoteCommit
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf(messages.UpdateCreateRequestErrFmt, err))
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("User-Agent", "xui-update-checker")

		resp, err := httpClient.Do(req)
		if err != nil {
			wrapped := fmt.Errorf(messages.UpdateFetchCommitErrFmt, err)
			if !isTransient(err) {
				return backoff.Permanent(wrapped)
			}
			return wrapped
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			if rateLimitErr := rateLimitErrorFromResponse(resp); rateLimitErr != nil {
				return backoff.Permanent(rateLimitErr)
			}
			statusErr := fmt.Errorf(messages.UpdateFetchCommitStatusFmt, resp.Status)
			if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		var payload commitResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return backoff.Permanent(fmt.Errorf(messages.UpdateDecodeCommitErrFmt, err))
		}
		sha := strings.TrimSpace(payload.SHA)
		if sha == "" {
			return backoff.Permanent(errMissingRemoteSHA)
		}
		out = RemoteCommit{SHA: sha, Date: payload.Commit.Committer.Date, URL: payload.HTMLURL}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ExponentialBackOff{
		InitialInterval:     retryDelay,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         4 * retryDelay,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}, fetchCommitRetryCount), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return RemoteCommit{}, ctxErr
		}
		return RemoteCommit{}, err
	}
	return out, nil
}

func rateLimitErrorFromResponse(resp *http.Response) *RateLimitError {
	if resp == nil {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	// GitHub returns 403 Forbidden for unauthenticated exhaustion; confirm with rate-limit headers.
	if resp.StatusCode == http.StatusForbidden {
		remainingStr := strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))
		if remainingStr == "" {
			return nil
		}
		remaining, err := strconv.Atoi(remainingStr)
		if err != nil {
			return nil //nolint:nilerr // Malformed header means we cannot confirm rate limiting.
		}
		if remaining == 0 {
			return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, Remaining: &remaining}
		}
	}
	return nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
