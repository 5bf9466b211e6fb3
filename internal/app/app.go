// Package app wires configuration, logging, the event store, the LLM
// provider, and the generators into a ready quizgen.Service.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/abhisek/quizgen/internal/aigen"
	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/observability"
	"github.com/abhisek/quizgen/internal/quizgen"
	"github.com/abhisek/quizgen/internal/rulegen"
	"github.com/abhisek/quizgen/internal/store"
)

// Options controls how the App is assembled.
type Options struct {
	Config config.Config

	// DBPath is the event log location. Ignored when the store is disabled.
	DBPath string

	// RulesOnly skips the AI client entirely.
	RulesOnly bool

	// Seed makes rule-based output reproducible when non-zero.
	Seed uint64

	// Version is reported as the service version on exported spans.
	Version string

	Log *logger.Logger
}

// App holds the assembled dependencies.
type App struct {
	Service *quizgen.Service
	Log     *logger.Logger

	// ModelID names the model behind the AI client, empty when there is none.
	ModelID string

	store  *store.Store
	tracer *sdktrace.TracerProvider
}

// New builds an App. A missing provider configuration is not an error: the
// service then runs rule-based only and a warning is logged.
func New(ctx context.Context, opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	cfg := opts.Config
	a := &App{Log: log}

	tp, err := observability.NewTracerProvider(ctx, cfg.Trace, observability.Options{Version: opts.Version, Log: log})
	if err != nil {
		return nil, fmt.Errorf("configure tracing: %w", err)
	}
	svcOpts := []quizgen.Option{
		quizgen.WithTimeout(cfg.Generation.Timeout),
		quizgen.WithLogger(log),
	}
	if tp != nil {
		observability.Install(tp)
		a.tracer = tp
		svcOpts = append(svcOpts, quizgen.WithTracerProvider(tp))
	}

	var eventRepo store.EventRepo
	if !cfg.Store.Disabled && opts.DBPath != "" && !opts.RulesOnly {
		st, err := store.Open(opts.DBPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = st
		eventRepo = st.EventRepo()
	}

	var client aigen.Generator
	if !opts.RulesOnly {
		explicit := cfg.LLM.Provider != "" || os.Getenv("QUIZGEN_LLM_PROVIDER") != ""
		provider, err := llm.Resolve(ctx, cfg.LLMProviderConfig(os.Getenv), explicit, eventRepo, log)
		switch {
		case err != nil:
			a.Close()
			return nil, fmt.Errorf("configure LLM provider: %w", err)
		case provider == nil:
			log.Warn("no LLM provider configured, using rule-based generation only")
		default:
			c := aigen.New(provider, aigen.Config{
				MaxTokens:     cfg.Generation.MaxTokens,
				Temperature:   cfg.Generation.Temperature,
				ExcerptLength: cfg.Generation.ExcerptLength,
				Structured:    cfg.Generation.Structured,
			})
			client = c
			a.ModelID = c.ModelID()
		}
	}

	ruleOpts := []rulegen.Option{rulegen.WithKeyTermLimit(cfg.Generation.KeyTermLimit)}
	if opts.Seed != 0 {
		ruleOpts = append(ruleOpts, rulegen.WithSeed(opts.Seed))
	}

	a.Service = quizgen.New(client, rulegen.New(ruleOpts...), svcOpts...)
	return a, nil
}

// Close flushes pending spans and releases the event store.
func (a *App) Close() error {
	var errs []error
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
