package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/vitalfuse/internal/models"
)

// HTTPClient implements DataSource by calling the VitalFuse REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) History(ctx context.Context, from, to time.Time) ([]models.DailySnapshot, error) {
	body, err := c.get(ctx, "/api/v1/history", timeParams(from, to))
	if err != nil {
		return nil, err
	}

	var history []models.DailySnapshot
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return history, nil
}

func (c *HTTPClient) Workouts(ctx context.Context, from, to time.Time) ([]models.WorkoutSegment, error) {
	body, err := c.get(ctx, "/api/v1/workouts", timeParams(from, to))
	if err != nil {
		return nil, err
	}

	var workouts []models.WorkoutSegment
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return workouts, nil
}

func (c *HTTPClient) CanonicalSamples(ctx context.Context, from, to time.Time) ([]models.Sample, error) {
	body, err := c.get(ctx, "/api/v1/samples", timeParams(from, to))
	if err != nil {
		return nil, err
	}

	var series []models.Sample
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("httpclient: decode samples: %w", err)
	}
	return series, nil
}

// Profile returns nil without error when the server has no profile set.
func (c *HTTPClient) Profile(ctx context.Context) (*models.UserProfile, error) {
	body, err := c.get(ctx, "/api/v1/profile", nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return &profile, nil
}
