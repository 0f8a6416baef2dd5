package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sekolahku/pelajar-gateway/internal/model"
)

// maxErrorBody caps how much of an upstream error response is read when
// extracting failure detail.
const maxErrorBody = 64 * 1024

// UpstreamError carries the most specific failure detail the school API
// returned for a non-2xx response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Client talks to the school API on behalf of the gateway. The gateway
// never retries: a failed call is reported once and repeated only by
// explicit user action.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient validates the upstream base URL and returns a ready client.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream base URL %q missing scheme or host", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "schoolapi").Logger(),
	}

	c.log.Info().
		Str("base_url", c.baseURL).
		Dur("timeout", timeout).
		Msg("School API client ready")

	return c, nil
}

// FetchValidationData retrieves the reference snapshot used for row
// cross-checks.
func (c *Client) FetchValidationData(ctx context.Context, token string) (*model.ReferenceData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/students/validation-data", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.authorize(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch validation data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.upstreamError(resp)
	}

	var ref model.ReferenceData
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("decode validation data: %w", err)
	}

	c.log.Debug().
		Int("years", len(ref.AcademicYears)).
		Int("grades", len(ref.Grades)).
		Int("classes", len(ref.Classes)).
		Msg("Validation data fetched")

	return &ref, nil
}

type importRequest struct {
	Students []model.StudentPayload `json:"students"`
}

// SubmitStudents posts the bulk-import payload and returns the upstream
// summary.
func (c *Client) SubmitStudents(ctx context.Context, token string, students []model.StudentPayload) (*model.ImportResult, error) {
	body, err := json.Marshal(importRequest{Students: students})
	if err != nil {
		return nil, fmt.Errorf("encode import payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/students/import", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit students: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.upstreamError(resp)
	}

	var result model.ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode import result: %w", err)
	}

	c.log.Info().
		Int("total", result.TotalRows).
		Int("succeeded", result.SuccessCount).
		Int("failed", result.FailedCount).
		Int("skipped", result.SkippedCount).
		Msg("Import submitted")

	return &result, nil
}

func (c *Client) authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// problemBody covers the error shapes the school API is known to return:
// a plain {message}, an RFC 7807 problem ({title}), or a validation
// problem carrying an errors map of field to messages.
type problemBody struct {
	Message string              `json:"message"`
	Title   string              `json:"title"`
	Errors  map[string][]string `json:"errors"`
}

// upstreamError extracts the most specific detail available from an
// error response: message, then title, then field errors, then a generic
// status line.
func (c *Client) upstreamError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := ""
	var problem problemBody
	if err := json.Unmarshal(raw, &problem); err == nil {
		switch {
		case problem.Message != "":
			msg = problem.Message
		case problem.Title != "":
			msg = problem.Title
		case len(problem.Errors) > 0:
			msg = flattenFieldErrors(problem.Errors)
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("upstream returned status %d", resp.StatusCode)
	}

	c.log.Warn().
		Int("status", resp.StatusCode).
		Str("detail", msg).
		Msg("Upstream request failed")

	return &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
}

// flattenFieldErrors joins the first message of each field into one line.
// Fields are sorted so the result is stable.
func flattenFieldErrors(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(fields[k]) > 0 {
			parts = append(parts, k+": "+fields[k][0])
		}
	}
	return strings.Join(parts, "; ")
}
