package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shimteo/shimteo/internal/logging"
)

const (
	// DefaultPageSize matches the server's default page size.
	DefaultPageSize = 20
	// DefaultHospitalRadius is the nearby-hospital radius in meters.
	DefaultHospitalRadius = 2000

	maxErrorBody = 512
)

// Client talks to the shimteo REST API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMetrics instruments the transport with m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.httpClient.Transport = m.RoundTripper(c.httpClient.Transport)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Questions fetches the question catalog for season in lang.
func (c *Client) Questions(ctx context.Context, season, lang string) ([]Question, error) {
	q := url.Values{"seasonType": {season}}
	var out []Question
	if err := c.do(ctx, http.MethodGet, "/symptom/questions", q, lang, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Diagnose submits answers and returns the diagnosis.
func (c *Client) Diagnose(ctx context.Context, sub Submission) (DiagnosisResult, error) {
	var out DiagnosisResult
	if err := c.do(ctx, http.MethodPost, "/symptom/diagnosis", nil, sub.Language, sub, &out); err != nil {
		return DiagnosisResult{}, err
	}
	return out, nil
}

// Guides fetches the general guideline catalog for season.
func (c *Client) Guides(ctx context.Context, season, lang string) ([]GuideEntry, error) {
	q := url.Values{"seasonType": {season}}
	var out []GuideEntry
	if err := c.do(ctx, http.MethodGet, "/symptom/guides", q, lang, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AssessmentGuides fetches the guides tailored to an assessment. The server returns either a
// single object or an array; both are normalized to a slice.
func (c *Client) AssessmentGuides(ctx context.Context, assessmentID int64, lang string) ([]GuideEntry, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/symptom/assessment/%d/guides", assessmentID)
	if err := c.do(ctx, http.MethodGet, path, nil, lang, nil, &raw); err != nil {
		return nil, err
	}
	entries, err := decodeOneOrMany[GuideEntry](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", path, ErrNetwork, err)
	}
	return entries, nil
}

// AIResult fetches the AI explanation for an assessment.
func (c *Client) AIResult(ctx context.Context, assessmentID int64, lang string) (AIResult, error) {
	var out AIResult
	path := fmt.Sprintf("/symptom/assessment/%d/ai-result", assessmentID)
	if err := c.do(ctx, http.MethodGet, path, nil, lang, nil, &out); err != nil {
		return AIResult{}, err
	}
	return out, nil
}

// SearchShelters runs a keyword search.
func (c *Client) SearchShelters(ctx context.Context, sq ShelterQuery) (Page[ShelterSearchItem], error) {
	q := url.Values{
		"keyword":    {sq.Keyword},
		"seasonType": {sq.Season},
		"page":       {strconv.Itoa(sq.Page)},
		"size":       {strconv.Itoa(pageSize(sq.Size))},
	}
	if sq.Type != "" {
		q.Set("type", sq.Type)
	}
	var out Page[ShelterSearchItem]
	if err := c.do(ctx, http.MethodGet, "/shelters/search", q, "", nil, &out); err != nil {
		return Page[ShelterSearchItem]{}, err
	}
	return out, nil
}

// ShelterDetail fetches one shelter.
func (c *Client) ShelterDetail(ctx context.Context, id int64, season string) (ShelterDetail, error) {
	q := url.Values{"seasonType": {season}}
	var out ShelterDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/shelters/%d", id), q, "", nil, &out); err != nil {
		return ShelterDetail{}, err
	}
	return out, nil
}

// SheltersInBounds lists shelter groups inside b. facilityType may be empty.
func (c *Client) SheltersInBounds(ctx context.Context, b Bounds, season, facilityType string) ([]ShelterGroup, error) {
	q := url.Values{
		"minLat":     {formatCoord(b.MinLat)},
		"maxLat":     {formatCoord(b.MaxLat)},
		"minLon":     {formatCoord(b.MinLon)},
		"maxLon":     {formatCoord(b.MaxLon)},
		"seasonType": {season},
	}
	if facilityType != "" {
		q.Set("type", facilityType)
	}
	var out []ShelterGroup
	if err := c.do(ctx, http.MethodGet, "/shelters/in-bounds-grouped", q, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NearbyHospitals lists hospital groups within radiusM meters of lat/lon.
func (c *Client) NearbyHospitals(ctx context.Context, lat, lon float64, radiusM int) ([]HospitalGroup, error) {
	if radiusM <= 0 {
		radiusM = DefaultHospitalRadius
	}
	q := url.Values{
		"lat":    {formatCoord(lat)},
		"lon":    {formatCoord(lon)},
		"radius": {strconv.Itoa(radiusM)},
	}
	var out []HospitalGroup
	if err := c.do(ctx, http.MethodGet, "/hospitals/nearby-grouped", q, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchHospitals runs a hospital keyword search.
func (c *Client) SearchHospitals(ctx context.Context, keyword string, page, size int) (Page[HospitalSearchItem], error) {
	q := url.Values{
		"keyword": {keyword},
		"page":    {strconv.Itoa(page)},
		"size":    {strconv.Itoa(pageSize(size))},
	}
	var out Page[HospitalSearchItem]
	if err := c.do(ctx, http.MethodGet, "/hospitals/search", q, "", nil, &out); err != nil {
		return Page[HospitalSearchItem]{}, err
	}
	return out, nil
}

// do performs one request and decodes a JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, lang string, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api", "request failed", map[string]interface{}{
			"method": method, "path": path, "error": err.Error(),
		})
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api", "request", map[string]interface{}{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"durationMs": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w: %w", path, ErrNetwork, err)
	}
	return nil
}

// decodeOneOrMany accepts either a JSON object or an array of objects.
func decodeOneOrMany[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, err
		}
		if many == nil {
			many = []T{}
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func pageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
