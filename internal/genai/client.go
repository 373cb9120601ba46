package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FilePart references one ready remote file in a generation request.
type FilePart struct {
	URI      string
	MIMEType string
}

// GenerateRequest is one schema-constrained extraction call: all ready file
// handles plus the fixed instruction payload.
type GenerateRequest struct {
	Files          []FilePart
	Instruction    string
	ResponseSchema map[string]any
}

// Part is one piece of generated candidate content.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content is the part list of one candidate.
type Content struct {
	Parts []Part `json:"parts"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// SafetyRating is one safety classification in the prompt feedback.
type SafetyRating struct {
	Category    string `json:"category,omitempty"`
	Probability string `json:"probability,omitempty"`
}

// PromptFeedback carries the service's explanation when generation is
// filtered.
type PromptFeedback struct {
	BlockReason   string         `json:"blockReason,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}

// GenerateResponse mirrors the service's generateContent response shape.
type GenerateResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// HasParts reports whether the response carries any content parts at all.
func (r *GenerateResponse) HasParts() bool {
	for _, c := range r.Candidates {
		if len(c.Content.Parts) > 0 {
			return true
		}
	}
	return false
}

// Text concatenates all text parts of the first candidate.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// FeedbackSummary renders whatever feedback metadata the call exposed, for
// inclusion in blocked-generation errors.
func (r *GenerateResponse) FeedbackSummary() string {
	if r.PromptFeedback == nil {
		return "no prompt feedback"
	}
	b, err := json.Marshal(r.PromptFeedback)
	if err != nil {
		return "no prompt feedback"
	}
	return string(b)
}

// GenerateContent runs one deterministic extraction call over the given file
// handles. Temperature and the response schema come from the client config and
// request; the response is returned undecoded beyond the transport shape so
// the caller owns blocked/empty/mismatch classification.
func (c *Client) GenerateContent(ctx context.Context, genReq GenerateRequest) (*GenerateResponse, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("generate.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"files", len(genReq.Files),
		"instruction_len", len(genReq.Instruction),
	)

	parts := make([]map[string]any, 0, len(genReq.Files)+1)
	for _, f := range genReq.Files {
		parts = append(parts, map[string]any{
			"file_data": map[string]any{
				"file_uri":  f.URI,
				"mime_type": f.MIMEType,
			},
		})
	}
	parts = append(parts, map[string]any{"text": genReq.Instruction})

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
		"generationConfig": map[string]any{
			"temperature":      c.cfg.Temperature,
			"responseMimeType": "application/json",
			"responseSchema":   genReq.ResponseSchema,
		},
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1beta/models/" + c.cfg.Model + ":generateContent?key=" + c.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(mustJSON(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out GenerateResponse
	if err := c.doJSON(req, &out); err != nil {
		c.log.Error("generate.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("generate content: %w", err)
	}

	c.log.Info("generate.ok",
		"req_id", rid,
		"candidates", len(out.Candidates),
		"text_len", len(out.Text()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &out, nil
}

// doJSON executes the request, enforces a 2xx status and decodes the body
// into out.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response (%d bytes): %w", len(raw), err)
	}
	return nil
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
