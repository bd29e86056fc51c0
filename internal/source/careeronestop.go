package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"mercerjobs/feed-service/internal/model"
)

const (
	cosBaseURL     = "https://api.careeronestop.org/v2/jobsearch"
	cosMaxPageSize = 50
	cosMaxDaysOld  = 30 // CareerOneStop allows a wider window than Adzuna
	cosHTTPTimeout = 15 * time.Second

	cosDefaultPageSize = 50
	cosDefaultDaysOld  = 30
	cosDefaultRadius   = 25
)

// njStateToken matches a standalone NJ token in the trailing segment of an
// upstream location string ("Trenton, NJ", "Hamilton Township, NJ 08610").
var njStateToken = regexp.MustCompile(`\bNJ\b`)

// CareerOneStop fetches postings from the CareerOneStop (NLX) job search API.
// The request is path-segment encoded:
//
//	/{userId}/{keyword}/{location}/{radius}/{sort}/{order}/{start}/{pageSize}/{days}
type CareerOneStop struct {
	UserID   string
	APIToken string

	// BaseURL overrides the production endpoint for tests.
	BaseURL string

	limiter *HostLimiter
	client  *http.Client
}

// NewCareerOneStop constructs an adapter with a shared HTTP client and limiter.
func NewCareerOneStop(userID, token string, limiter *HostLimiter) *CareerOneStop {
	return &CareerOneStop{
		UserID:   userID,
		APIToken: token,
		limiter:  limiter,
		client:   &http.Client{Timeout: cosHTTPTimeout},
	}
}

func (c *CareerOneStop) Name() string { return "careeronestop" }

// cosResponse mirrors the top-level CareerOneStop JSON response.
type cosResponse struct {
	JobCount int      `json:"JobCount"`
	Jobs     []cosJob `json:"Jobs"`
}

// cosJob mirrors a single CareerOneStop posting.
type cosJob struct {
	JvID            string `json:"JvId"`
	JobTitle        string `json:"JobTitle"`
	Company         string `json:"Company"`
	Location        string `json:"Location"`
	URL             string `json:"URL"`
	AcquisitionDate string `json:"AccquisitionDate"` // upstream spells it this way
	Description     string `json:"JobDescription"`
}

// Fetch issues one bounded search against CareerOneStop. Results whose
// location does not end in an NJ state token are dropped before return.
func (c *CareerOneStop) Fetch(ctx context.Context, q Query) ([]model.RawJob, error) {
	if c.UserID == "" || c.APIToken == "" {
		return nil, Errorf(KindConfig, "COS_USER_ID / COS_API_TOKEN not set")
	}

	base := c.BaseURL
	if base == "" {
		base = cosBaseURL
	}

	keyword := q.Keywords
	if keyword == "" {
		keyword = "entry level"
	}
	location := q.Location
	if location == "" {
		location = "Trenton, NJ"
	}

	path := strings.Join([]string{
		url.PathEscape(c.UserID),
		url.PathEscape(keyword),
		url.PathEscape(location),
		fmt.Sprint(cosDefaultRadius),
		"acquisitiondate",
		"DESC",
		"0",
		fmt.Sprint(clamp(q.PageSize, cosDefaultPageSize, 1, cosMaxPageSize)),
		fmt.Sprint(clamp(q.MaxAgeDays, cosDefaultDaysOld, 1, cosMaxDaysOld)),
	}, "/")

	reqURL := base + "/" + path + "?enableJobDescriptionSnippet=true"

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, reqURL); err != nil {
			return nil, Classify(err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, Errorf(KindBadPayload, "build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, Classify(fmt.Errorf("http GET: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, Errorf(KindHTTPStatus, "careeronestop returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var apiResp cosResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, Errorf(KindBadPayload, "json unmarshal: %v", err)
	}

	raws := make([]model.RawJob, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		if !InNJ(j.Location) {
			continue
		}
		raws = append(raws, model.RawJob{
			ExternalID:  j.JvID,
			Title:       j.JobTitle,
			Company:     j.Company,
			Location:    j.Location,
			Description: j.Description,
			ApplyLink:   j.URL,
			PublishedAt: j.AcquisitionDate,
		})
	}

	return raws, nil
}

// InNJ reports whether the trailing comma-separated segment of loc carries a
// standalone NJ token.
func InNJ(loc string) bool {
	parts := strings.Split(loc, ",")
	tail := strings.TrimSpace(parts[len(parts)-1])
	return njStateToken.MatchString(tail)
}
