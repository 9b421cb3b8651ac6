package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is the payload for the scorer's POST /inference/analyze endpoint.
type Request struct {
	Skills          []string `json:"skills"`
	RoleID          string   `json:"role_id"`
	Level           Level    `json:"level"`
	ExperienceYears float64  `json:"experience_years"`
	ResumeText      string   `json:"resume_text,omitempty"`
}

// Response mirrors the scorer's wire format. Every field is optional; callers
// must go through Normalize before persisting anything.
type Response struct {
	ReadinessScore  *float64         `json:"readiness_score"`
	ReadinessStatus string           `json:"readiness_status"`
	MatchedSkills   []string         `json:"matched_skills"`
	MissingSkills   []string         `json:"missing_skills"`
	ResumeFitScore  *float64         `json:"resume_fit_score"`
	ScoreBreakdown  []BreakdownEntry `json:"score_breakdown"`
}

type BreakdownEntry struct {
	Skill  string `json:"skill"`
	Impact string `json:"impact"`
}

// StatusError is returned for any non-2xx response from the scorer and
// carries the status code and raw body text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scoring service returned %d: %s", e.StatusCode, e.Body)
}

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Analyze runs one synchronous scoring call. The request honors ctx, so a
// caller that goes away cancels the upstream call instead of hanging on it.
func (c *Client) Analyze(ctx context.Context, req Request) (Response, error) {
	var resp Response
	body, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("marshal scoring request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference/analyze", bytes.NewReader(body))
	if err != nil {
		return resp, fmt.Errorf("build scoring request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return resp, fmt.Errorf("call scoring service: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, fmt.Errorf("read scoring response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, &StatusError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return resp, fmt.Errorf("decode scoring response: %w", err)
	}
	return resp, nil
}

// Result is a fully-populated scoring outcome: no nil slices, no missing
// fields, safe to persist and render.
type Result struct {
	ReadinessScore  float64
	ReadinessStatus string
	MatchedSkills   []string
	MissingSkills   []string
	ResumeFitScore  float64
	ScoreBreakdown  []BreakdownEntry
}

// Normalize defaults every absent field so a partially-populated upstream
// response never produces an undefined downstream value.
func Normalize(resp Response) Result {
	r := Result{
		ReadinessStatus: resp.ReadinessStatus,
		MatchedSkills:   resp.MatchedSkills,
		MissingSkills:   resp.MissingSkills,
		ScoreBreakdown:  resp.ScoreBreakdown,
	}
	if resp.ReadinessScore != nil {
		r.ReadinessScore = *resp.ReadinessScore
	}
	if resp.ResumeFitScore != nil {
		r.ResumeFitScore = *resp.ResumeFitScore
	}
	if r.ReadinessStatus == "" {
		r.ReadinessStatus = string(StatusNeedsUpskilling)
	}
	if r.MatchedSkills == nil {
		r.MatchedSkills = []string{}
	}
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.ScoreBreakdown == nil {
		r.ScoreBreakdown = []BreakdownEntry{}
	}
	return r
}
