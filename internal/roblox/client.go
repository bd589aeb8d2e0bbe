package roblox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"server/internal/infra"
)

const userAgent = "StudioStatsBackend/1.0"

// UpstreamError describes a final, non-retryable upstream failure.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Message)
}

// Options configures the platform API client.
type Options struct {
	GamesBaseURL      string
	GroupsBaseURL     string
	ThumbnailsBaseURL string
	HTTPClient        *http.Client
	Logger            infra.Logger
	MaxRetries        int
	RetryBaseDelay    time.Duration
	ServerErrorDelay  time.Duration
	RequestTimeout    time.Duration
}

// Client performs HTTP calls to the games platform API. Rate-limited
// responses retry with exponential backoff, server errors with a fixed
// delay; everything else fails immediately.
type Client struct {
	gamesBaseURL      string
	groupsBaseURL     string
	thumbnailsBaseURL string
	httpClient        *http.Client
	logger            infra.Logger
	maxRetries        int
	retryBaseDelay    time.Duration
	serverErrorDelay  time.Duration
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	c := &Client{
		gamesBaseURL:      defaultString(opts.GamesBaseURL, "https://games.roblox.com"),
		groupsBaseURL:     defaultString(opts.GroupsBaseURL, "https://groups.roblox.com"),
		thumbnailsBaseURL: defaultString(opts.ThumbnailsBaseURL, "https://thumbnails.roblox.com"),
		httpClient:        httpClient,
		logger:            opts.Logger,
		maxRetries:        opts.MaxRetries,
		retryBaseDelay:    opts.RetryBaseDelay,
		serverErrorDelay:  opts.ServerErrorDelay,
	}
	if c.maxRetries <= 0 {
		c.maxRetries = 3
	}
	if c.retryBaseDelay <= 0 {
		c.retryBaseDelay = time.Second
	}
	if c.serverErrorDelay <= 0 {
		c.serverErrorDelay = 2 * time.Second
	}
	return c
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// FetchWithRetry issues a GET and returns the response body. A 429 consumes
// one retry and backs off exponentially; a 5xx or timeout consumes one retry
// after a fixed delay; any other failure is final.
func (c *Client) FetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = c.retryBaseDelay
	schedule.RandomizationFactor = 0
	schedule.Multiplier = 2
	schedule.MaxInterval = 30 * time.Second
	schedule.Reset()

	for attempt := 0; ; attempt++ {
		body, status, err := c.fetchOnce(ctx, url)
		switch {
		case err == nil && status < 300:
			return body, nil

		case err == nil && status == http.StatusTooManyRequests:
			if attempt >= c.maxRetries {
				return nil, &UpstreamError{StatusCode: status, Message: "rate limited, retries exhausted"}
			}
			delay := schedule.NextBackOff()
			c.logger.Warn().Str("url", url).Dur("delay", delay).Msg("rate limited, retrying")
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, err
			}

		case err == nil && status >= 500:
			if attempt >= c.maxRetries {
				return nil, &UpstreamError{StatusCode: status, Message: "server error, retries exhausted"}
			}
			c.logger.Warn().Str("url", url).Int("status", status).Dur("delay", c.serverErrorDelay).Msg("server error, retrying")
			if err := sleepCtx(ctx, c.serverErrorDelay); err != nil {
				return nil, err
			}

		case err == nil:
			return nil, &UpstreamError{StatusCode: status, Message: http.StatusText(status)}

		case isTimeout(err):
			if attempt >= c.maxRetries {
				return nil, &UpstreamError{StatusCode: 0, Message: "request timeout, retries exhausted"}
			}
			c.logger.Warn().Str("url", url).Dur("delay", c.serverErrorDelay).Msg("request timeout, retrying")
			if err := sleepCtx(ctx, c.serverErrorDelay); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
	}
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GameStats fetches live stats for one universe.
func (c *Client) GameStats(ctx context.Context, universeID int64) (*GameEntry, error) {
	url := fmt.Sprintf("%s/v1/games?universeIds=%d", c.gamesBaseURL, universeID)
	body, err := c.FetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	var parsed gamesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode game stats: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("game stats: no data for universe %d", universeID)
	}
	return &parsed.Data[0], nil
}

// GameVotes fetches vote counts for one universe.
func (c *Client) GameVotes(ctx context.Context, universeID int64) (*VoteEntry, error) {
	url := fmt.Sprintf("%s/v1/games/votes?universeIds=%d", c.gamesBaseURL, universeID)
	body, err := c.FetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	var parsed votesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode game votes: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("game votes: no data for universe %d", universeID)
	}
	return &parsed.Data[0], nil
}

// GameIcons fetches thumbnail descriptors for one universe.
func (c *Client) GameIcons(ctx context.Context, universeID int64) ([]MediaEntry, error) {
	url := fmt.Sprintf("%s/v1/games/icons?universeIds=%d&size=512x512&format=Png&isCircular=false", c.thumbnailsBaseURL, universeID)
	body, err := c.FetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	var parsed iconsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode game icons: %w", err)
	}
	return parsed.Data, nil
}

// GroupInfo fetches membership details for one group.
func (c *Client) GroupInfo(ctx context.Context, groupID int64) (*GroupEntry, error) {
	url := fmt.Sprintf("%s/v1/groups/%d", c.groupsBaseURL, groupID)
	body, err := c.FetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}
	var parsed GroupEntry
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode group info: %w", err)
	}
	return &parsed, nil
}
