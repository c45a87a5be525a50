package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/xrsl/cvx-agent/common/llm"
	"github.com/xrsl/cvx-agent/common/logger"
	"github.com/xrsl/cvx-agent/core/config"
	"github.com/xrsl/cvx-agent/internal/agent"
	"github.com/xrsl/cvx-agent/internal/cache"
)

// cvx-agent reads one JSON request on stdin, runs one action against the
// configured model order, and writes one JSON response on stdout. Any fatal
// error prints a single "Error: ..." line on stderr and exits non-zero;
// stdout stays empty on failure.
func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

func run(stdin io.Reader, stdout, stderr io.Writer) int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Setup(cfg)

	sc := logger.StartSpan(ctx, "agent.dispatch")
	defer sc.End()
	ctx = sc.Context()

	var req agent.Request
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "malformed input", "error", err)
		fmt.Fprintf(stderr, "Error: invalid input JSON: %v\n", err)
		return 1
	}

	slog.InfoContext(ctx, "cvx-agent starting",
		"env", cfg.Env,
		"primary_model", cfg.Agent.PrimaryModel,
		"fallback_model", cfg.Agent.FallbackModel,
		"cache", cfg.Cache.String())

	factory := func(model string) (llm.Client, error) {
		return llm.NewClient(llm.Resolve(model), providerConfig(cfg))
	}

	var store *cache.Cache
	if cfg.Cache.Enabled {
		store = cache.New(cfg.Cache.Dir)
	}

	ag := agent.New(factory, agent.Config{
		Models:     cfg.Agent.Models(),
		MaxRetries: cfg.Agent.MaxRetries,
		Cache:      store,
	})

	output, err := ag.Dispatch(ctx, req)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "dispatch failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Marshal fully before touching stdout: failure must never leave
	// partial JSON on the output stream. No trailing newline; the document
	// is the entire output.
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		sc.RecordError(err)
		fmt.Fprintf(stderr, "Error: marshal output: %v\n", err)
		return 1
	}

	if _, err := stdout.Write(data); err != nil {
		fmt.Fprintf(stderr, "Error: write output: %v\n", err)
		return 1
	}
	return 0
}

func providerConfig(cfg config.Config) llm.Config {
	return llm.Config{
		OpenAI:    llm.ProviderConfig(cfg.OpenAI),
		Anthropic: llm.ProviderConfig(cfg.Anthropic),
		Google:    llm.ProviderConfig(cfg.Google),
		Groq:      llm.ProviderConfig(cfg.Groq),
	}
}
