package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mercerjobs/feed-service/internal/model"
)

const (
	adzunaBaseURL     = "https://api.adzuna.com/v1/api/jobs"
	adzunaMaxPageSize = 50 // documented Adzuna maximum
	adzunaMaxDaysOld  = 14
	adzunaHTTPTimeout = 15 * time.Second

	// Defaults applied when the caller leaves a field unset.
	adzunaDefaultPageSize = 20
	adzunaDefaultDaysOld  = 3
)

// Adzuna fetches job offers from the Adzuna public API.
type Adzuna struct {
	AppID   string
	AppKey  string
	Country string // "us", "gb", ...

	// BaseURL overrides the production endpoint; tests point it at a local
	// server. Empty means adzunaBaseURL.
	BaseURL string

	limiter *HostLimiter
	client  *http.Client
}

// NewAdzuna constructs an adapter with a shared HTTP client and limiter.
func NewAdzuna(appID, appKey, country string, limiter *HostLimiter) *Adzuna {
	return &Adzuna{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		limiter: limiter,
		client:  &http.Client{Timeout: adzunaHTTPTimeout},
	}
}

func (a *Adzuna) Name() string { return "adzuna" }

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Category    adzunaCategory `json:"category"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaCategory struct {
	Label string `json:"label"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Fetch issues one page-1 search against Adzuna with clamped parameters.
func (a *Adzuna) Fetch(ctx context.Context, q Query) ([]model.RawJob, error) {
	if a.AppID == "" || a.AppKey == "" {
		return nil, Errorf(KindConfig, "ADZUNA_APP_ID / ADZUNA_APP_KEY not set")
	}

	base := a.BaseURL
	if base == "" {
		base = adzunaBaseURL
	}
	endpoint := fmt.Sprintf("%s/%s/search/1", base, a.Country)

	params := url.Values{}
	params.Set("app_id", a.AppID)
	params.Set("app_key", a.AppKey)
	params.Set("results_per_page", strconv.Itoa(clamp(q.PageSize, adzunaDefaultPageSize, 1, adzunaMaxPageSize)))
	params.Set("what", q.Keywords)
	params.Set("where", q.Location)
	params.Set("max_days_old", strconv.Itoa(clamp(q.MaxAgeDays, adzunaDefaultDaysOld, 1, adzunaMaxDaysOld)))
	params.Set("sort_by", "date")

	reqURL := endpoint + "?" + params.Encode()

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, reqURL); err != nil {
			return nil, Classify(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, Errorf(KindBadPayload, "build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, Classify(fmt.Errorf("http GET: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, Errorf(KindHTTPStatus, "adzuna returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, Errorf(KindBadPayload, "json unmarshal: %v", err)
	}

	raws := make([]model.RawJob, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		raws = append(raws, model.RawJob{
			ExternalID:  r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Industry:    r.Category.Label,
			Location:    r.Location.DisplayName,
			Description: r.Description,
			SalaryMin:   r.SalaryMin,
			SalaryMax:   r.SalaryMax,
			ApplyLink:   r.RedirectURL,
			PublishedAt: r.Created,
		})
	}

	return raws, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…"
}
