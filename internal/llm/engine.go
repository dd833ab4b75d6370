// Package llm turns an unreliable external text-generation call into a
// typed, schema-validated result with retry, JSON repair, and a guaranteed
// deterministic fallback.
package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/sells-group/foresight-cli/internal/resilience"
	"github.com/sells-group/foresight-cli/pkg/anthropic"
)

const (
	// maxInputChars bounds the serialized input payload to keep request
	// cost predictable.
	maxInputChars = 12000

	defaultTimeout    = 20 * time.Second
	defaultMaxRetries = 2
	baseDelay         = 400 * time.Millisecond

	systemPrompt = "Return only valid JSON. If the data is insufficient say so explicitly; never fabricate information."
)

// Engine executes structured generation calls. A nil client means offline
// mode: every call resolves to its fallback immediately, which is a
// first-class operating mode, not an error path.
type Engine struct {
	client     anthropic.Client
	timeout    time.Duration
	maxRetries int
}

// Option tunes an Engine.
type Option func(*Engine)

// WithTimeout overrides the per-attempt deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxRetries overrides the retry budget (attempts = retries + 1).
func WithMaxRetries(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// NewEngine builds an Engine around the given client (nil = offline).
func NewEngine(client anthropic.Client, opts ...Option) *Engine {
	e := &Engine{
		client:     client,
		timeout:    defaultTimeout,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Offline reports whether no model client is configured.
func (e *Engine) Offline() bool {
	return e.client == nil
}

// Request describes one structured call.
type Request struct {
	// Stage tags logs and has no effect on behavior.
	Stage string
	// Prompt is the opaque instruction template for this stage.
	Prompt string
	// Input is serialized to a bounded JSON payload appended to the prompt.
	Input any
	// Schema validates the repaired model output before it is trusted.
	Schema *jsonschema.Schema
}

// Call executes one structured generation call. It never returns an error
// caused by the model: transport failures, timeouts, and malformed or
// unschematizable output are retried with exponential backoff and finally
// absorbed by fallback, which must be a pure function of known inputs.
func Call[T any](ctx context.Context, e *Engine, req Request, fallback func() T) T {
	if e.Offline() {
		return fallback()
	}

	payload := boundedJSON(req.Input)

	val, err := resilience.DoVal(ctx, resilience.RetryConfig{
		MaxAttempts:    e.maxRetries + 1,
		InitialBackoff: baseDelay,
		Multiplier:     2.0,
		ShouldRetry:    func(error) bool { return true },
		OnRetry:        resilience.RetryLogger("llm", req.Stage),
	}, func(ctx context.Context) (T, error) {
		return attemptCall[T](ctx, e, req, payload)
	})
	if err != nil {
		zap.L().Warn("structured call exhausted, using fallback",
			zap.String("stage", req.Stage),
			zap.Error(err),
		)
		return fallback()
	}
	return val
}

func attemptCall[T any](ctx context.Context, e *Engine, req Request, payload string) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.Complete(ctx, systemPrompt, req.Prompt+"\n\nInput JSON:\n"+payload)
	if err != nil {
		return zero, eris.Wrapf(err, "llm: %s call", req.Stage)
	}

	repaired := RepairJSON(raw)

	var generic any
	if err := json.Unmarshal([]byte(repaired), &generic); err != nil {
		return zero, eris.Wrapf(err, "llm: %s returned unparseable JSON", req.Stage)
	}
	if req.Schema != nil {
		if err := req.Schema.Validate(generic); err != nil {
			return zero, eris.Wrapf(err, "llm: %s output failed schema validation", req.Stage)
		}
	}

	var out T
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return zero, eris.Wrapf(err, "llm: %s output does not fit result type", req.Stage)
	}
	return out, nil
}

// boundedJSON serializes input and truncates beyond maxInputChars.
func boundedJSON(input any) string {
	b, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "{}"
	}
	s := string(b)
	if len(s) > maxInputChars {
		s = s[:maxInputChars]
	}
	return s
}
