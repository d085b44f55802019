// Package moderation is the gateway to the toxicity classifier. Every
// publish and edit consults it before any row is written.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"agora/internal/observability"
)

// Sentinel labels for verdicts that never touched the model.
const (
	LabelEmpty = "EMPTY"
	LabelError = "AI_ERROR"
)

// Result is a complete classifier verdict. Success=false means the
// model could not be consulted; IsToxic is only meaningful when
// Success is true.
type Result struct {
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
	IsToxic bool    `json:"is_toxic"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
}

// Classifier scores text against a toxicity threshold.
type Classifier interface {
	Check(ctx context.Context, text string, threshold float64) Result
}

// HTTPClassifier calls a hosted text-classification endpoint that
// answers with ranked label/score pairs. A gateway failure is reported
// in the Result, never as a panic or a crash of the caller.
type HTTPClassifier struct {
	endpoint   string
	token      string
	toxicLabel string
	client     *http.Client
}

// Option configures an HTTPClassifier.
type Option func(*HTTPClassifier)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClassifier) {
		c.client = client
	}
}

// NewHTTPClassifier builds a classifier against the given inference
// endpoint. toxicLabel names the label the model assigns to toxic text.
func NewHTTPClassifier(endpoint, token, toxicLabel string, opts ...Option) *HTTPClassifier {
	c := &HTTPClassifier{
		endpoint:   endpoint,
		token:      token,
		toxicLabel: toxicLabel,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Check scores text. Whitespace-only text short-circuits as non-toxic
// without an inference call. Any transport or decode failure yields
// Success=false with the AI_ERROR label and a zero score.
func (c *HTTPClassifier) Check(ctx context.Context, text string, threshold float64) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Success: true, Label: LabelEmpty, Score: 0.0}
	}

	span, ctx := observability.NewSpan(ctx, "moderation.check")
	defer span.End()

	top, err := c.classify(ctx, text)
	if err != nil {
		span.SetError(err)
		slog.WarnContext(ctx, "moderation inference failed", "err", err)
		return Result{Success: false, Error: err.Error(), Label: LabelError, Score: 0.0}
	}

	result := Result{
		Success: true,
		IsToxic: top.Label == c.toxicLabel && top.Score >= threshold,
		Label:   top.Label,
		Score:   top.Score,
	}
	span.AddAttributes(
		attribute.String("moderation.label", result.Label),
		attribute.Float64("moderation.score", result.Score),
		attribute.Bool("moderation.toxic", result.IsToxic),
	)
	return result
}

func (c *HTTPClassifier) classify(ctx context.Context, text string) (prediction, error) {
	payload, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return prediction{}, fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return prediction{}, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return prediction{}, fmt.Errorf("call inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return prediction{}, fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var batches [][]prediction
	if err := json.NewDecoder(resp.Body).Decode(&batches); err != nil {
		return prediction{}, fmt.Errorf("decode inference response: %w", err)
	}
	if len(batches) == 0 || len(batches[0]) == 0 {
		return prediction{}, fmt.Errorf("inference response contained no predictions")
	}

	top := batches[0][0]
	for _, p := range batches[0][1:] {
		if p.Score > top.Score {
			top = p
		}
	}
	return top, nil
}
