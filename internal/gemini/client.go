// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/jeranaias/prepplan/internal/logging"
	"github.com/jeranaias/prepplan/internal/plan"
	"github.com/jeranaias/prepplan/internal/prompt"
	"github.com/jeranaias/prepplan/internal/wizard"
)

const (
	// DefaultModel is the model plans are generated with.
	DefaultModel = "gemini-2.5-pro"

	// DefaultTemperature favours varied but coherent plans.
	DefaultTemperature = 0.7

	// DefaultRequestsPerMinute spaces out submissions from one process.
	DefaultRequestsPerMinute = 6
)

// Config holds the client settings.
type Config struct {
	APIKey            string
	Model             string
	Temperature       float64
	RequestsPerMinute int
}

// Usage reports token counts for one call.
type Usage struct {
	PromptTokens int
	OutputTokens int
	TotalTokens  int
}

// Attempt describes a finished call for observers such as the usage ledger.
type Attempt struct {
	Model         string
	StartedAt     time.Time
	Latency       time.Duration
	DaysRemaining int
	Usage         Usage
	Err           error
}

// ModelsAPI is the part of the SDK the client uses. *genai.Models satisfies
// it; tests substitute a fake.
type ModelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client generates study plans on the Gemini API. Each Generate call makes
// exactly one request; there is no retry and no caching.
type Client struct {
	api     ModelsAPI
	log     *logging.Logger
	limiter *rate.Limiter
	now     func() time.Time

	mu          sync.RWMutex
	model       string
	temperature float64
	observer    func(Attempt)
}

// New creates a client backed by the genai SDK.
func New(ctx context.Context, cfg Config, log *logging.Logger) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNotConfigured
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return NewWithModels(gc.Models, cfg, log), nil
}

// NewWithModels creates a client on an existing models implementation.
func NewWithModels(api ModelsAPI, cfg Config, log *logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	c := &Client{
		api:     api,
		log:     log.With("component", "gemini"),
		limiter: newLimiter(cfg.RequestsPerMinute),
		now:     time.Now,
	}
	c.Configure(cfg.Model, cfg.Temperature)
	return c
}

func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// WithClock sets the time source used for the days-remaining computation.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// OnAttempt registers fn to be called after every call, successful or not.
func (c *Client) OnAttempt(fn func(Attempt)) *Client {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
	return c
}

// Configure swaps the model and temperature used by later calls. Empty or
// out-of-range values fall back to the defaults.
func (c *Client) Configure(model string, temperature float64) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	if temperature <= 0 || temperature > 2 {
		temperature = DefaultTemperature
	}
	c.mu.Lock()
	c.model = model
	c.temperature = temperature
	c.mu.Unlock()
}

// Model returns the current model name.
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Generate builds the prompt for answers, issues one request and parses the
// reply. Every error satisfies errors.Is(err, ErrGeneration).
func (c *Client) Generate(ctx context.Context, answers wizard.Answers) (*plan.Plan, error) {
	req := prompt.Build(answers, c.now())

	c.mu.RLock()
	model, temperature, observer := c.model, c.temperature, c.observer
	c.mu.RUnlock()

	if err := c.limiter.Wait(ctx); err != nil {
		err = fail(StageRateLimit, err)
		c.log.Warn("generation not sent", "stage", StageRateLimit, "error", err)
		return nil, err
	}

	temp := float32(temperature)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(req.Schema),
		Temperature:      &temp,
	}

	start := time.Now()
	c.log.Info("generation request",
		"model", model,
		"days_remaining", req.DaysRemaining,
		"prompt_chars", len(req.Instruction),
	)

	resp, callErr := c.api.GenerateContent(ctx, model, genai.Text(req.Instruction), cfg)
	p, err := c.interpret(resp, callErr)

	attempt := Attempt{
		Model:         model,
		StartedAt:     start,
		Latency:       time.Since(start),
		DaysRemaining: req.DaysRemaining,
		Usage:         usageOf(resp),
		Err:           err,
	}
	if observer != nil {
		observer(attempt)
	}

	if err != nil {
		var ge *GenerationError
		stage := Stage("")
		if errors.As(err, &ge) {
			stage = ge.Stage
		}
		c.log.Error("generation failed",
			"model", model,
			"stage", stage,
			"latency_ms", attempt.Latency.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	c.log.Info("generation complete",
		"model", model,
		"latency_ms", attempt.Latency.Milliseconds(),
		"phases", len(p.StudyPhases),
		"chapters", p.ChapterCount(),
		"prompt_tokens", attempt.Usage.PromptTokens,
		"output_tokens", attempt.Usage.OutputTokens,
	)
	return p, nil
}

func (c *Client) interpret(resp *genai.GenerateContentResponse, callErr error) (*plan.Plan, error) {
	if callErr != nil {
		return nil, fail(StageTransport, callErr)
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, fail(StageEmptyResponse, err)
	}
	p, err := plan.Parse([]byte(text))
	if err != nil {
		var se *plan.SchemaError
		if errors.As(err, &se) {
			return nil, fail(StageSchema, err)
		}
		return nil, fail(StageDecode, err)
	}
	return p, nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("nil response")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates")
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return "", errors.New("candidate has no content")
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		if cand.FinishReason != "" {
			return "", fmt.Errorf("empty text (finish reason %s)", cand.FinishReason)
		}
		return "", errors.New("empty text")
	}
	return text, nil
}

func usageOf(resp *genai.GenerateContentResponse) Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return Usage{}
	}
	m := resp.UsageMetadata
	return Usage{
		PromptTokens: int(m.PromptTokenCount),
		OutputTokens: int(m.CandidatesTokenCount),
		TotalTokens:  int(m.TotalTokenCount),
	}
}
