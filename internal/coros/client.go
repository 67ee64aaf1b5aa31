// Package coros fetches training plans from the COROS team API and decodes
// them into the internal plan model.
package coros

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/meltforce/coroscal/internal/models"
)

// DefaultBaseURL is the COROS team API endpoint.
const DefaultBaseURL = "https://teamapi.coros.com"

// ErrBadPlanURL is returned when no plan ID can be extracted from a URL.
var ErrBadPlanURL = errors.New("could not extract plan ID from URL")

var (
	planIDRe = regexp.MustCompile(`planId=([0-9]+)`)
	regionRe = regexp.MustCompile(`region=([0-9]+)`)
)

// Client talks to the COROS team API. Each fetch is independent; the
// client holds only configuration.
type Client struct {
	baseURL string
	region  string
	dict    Dictionary
	http    *http.Client
	log     *slog.Logger
}

// NewClient creates a COROS API client. An empty baseURL uses the public
// endpoint; an empty region defaults per plan URL (falling back to "1").
func NewClient(baseURL, region string, dict Dictionary, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		region:  region,
		dict:    dict,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Dict returns the client's translation dictionary.
func (c *Client) Dict() Dictionary {
	return c.dict
}

// ParsePlanURL extracts the plan ID and region from a COROS plan share URL.
// The region falls back to "1" when the URL does not carry one.
func ParsePlanURL(planURL string) (planID, region string, err error) {
	m := planIDRe.FindStringSubmatch(planURL)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrBadPlanURL, planURL)
	}
	planID = m[1]
	region = "1"
	if rm := regionRe.FindStringSubmatch(planURL); rm != nil {
		region = rm[1]
	}
	return planID, region, nil
}

// FetchPlan fetches a training plan given its share URL and decodes it into
// the ordered plan model.
func (c *Client) FetchPlan(ctx context.Context, planURL string) (*models.Plan, error) {
	planID, region, err := ParsePlanURL(planURL)
	if err != nil {
		return nil, err
	}
	if c.region != "" {
		region = c.region
	}

	detail, err := c.fetchDetail(ctx, planID, region)
	if err != nil {
		return nil, err
	}
	return BuildPlan(detail, c.dict)
}

func (c *Client) fetchDetail(ctx context.Context, planID, region string) (*PlanDetail, error) {
	q := url.Values{
		"supportRestExercise": {"1"},
		"id":                  {planID},
		"region":              {region},
	}
	reqURL := c.baseURL + "/training/plan/detail?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	// The API rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15")

	c.log.Info("fetching plan", "plan_id", planID, "region", region)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching plan %s: %w", planID, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching plan %s: unexpected status %s", planID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	detail, err := DecodeDetail(body)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", planID, err)
	}
	return detail, nil
}

// DecodeDetail parses a raw API response body into a PlanDetail.
func DecodeDetail(body []byte) (*PlanDetail, error) {
	var resp planDetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing API response: %w", err)
	}
	if resp.Data == nil || len(resp.Data.Entities) == 0 {
		return nil, fmt.Errorf("invalid API response: no plan entities")
	}
	return resp.Data, nil
}
