// Package agent dispatches one JSON request to one of three LLM-backed
// actions and shapes the provider's answer: build (tailored CV + letter),
// extract (open-ended job posting fields), advise (free-text career advice).
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/xrsl/cvx-agent/common/llm"
	"github.com/xrsl/cvx-agent/common/logger"
	"github.com/xrsl/cvx-agent/internal/cache"
)

const (
	ActionBuild   = "build"
	ActionExtract = "extract"
	ActionAdvise  = "advise"
)

var (
	// ErrInvalidAction marks an unrecognized action value. Fatal, no retry.
	ErrInvalidAction = errors.New("invalid action")
	// ErrSchemaValidation marks a build result that parsed as JSON but does
	// not conform to the document schema. Recoverable: it consumes a retry
	// like any provider failure.
	ErrSchemaValidation = errors.New("schema validation failed")
	// ErrAllAttemptsFailed marks retry exhaustion across every model in the
	// order. It carries no partial result; per-attempt detail lives only in
	// the diagnostic log.
	ErrAllAttemptsFailed = errors.New("all AI attempts failed")
)

// Request is the raw decoded input document. One recognized key, "action",
// selects the handler; the remaining keys are handler-specific and passed
// through verbatim.
type Request map[string]any

// str returns the request value under key when it is a non-empty string.
func (r Request) str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// ClientFactory turns a model name into a provider client. Selection of the
// provider family happens inside the factory, so the agent core never
// touches credentials.
type ClientFactory func(model string) (llm.Client, error)

type Config struct {
	Models     []string     // model order: primary first, then fallback; duplicates allowed
	MaxRetries int          // attempts per model; defaults to 2
	Cache      *cache.Cache // nil disables the cache layer
}

type Agent struct {
	factory    ClientFactory
	models     []string
	maxRetries int
	cache      *cache.Cache
}

func New(factory ClientFactory, cfg Config) *Agent {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 2
	}

	return &Agent{
		factory:    factory,
		models:     cfg.Models,
		maxRetries: maxRetries,
		cache:      cfg.Cache,
	}
}

// Dispatch routes the request to exactly one handler and returns its output
// unchanged. A missing action means build; an unrecognized one fails with
// ErrInvalidAction naming the offending value, never a silent default.
func (a *Agent) Dispatch(ctx context.Context, req Request) (any, error) {
	raw, present := req["action"]
	if !present {
		raw = ActionBuild
	}

	action, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, raw)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Action:    action,
		Component: "agent.dispatcher",
	})

	switch action {
	case ActionBuild:
		return a.Build(ctx, req)
	case ActionExtract:
		return a.Extract(ctx, req)
	case ActionAdvise:
		return a.Advise(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
}
