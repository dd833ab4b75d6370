package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/foresight-cli/internal/extract"
	"github.com/sells-group/foresight-cli/internal/jobs"
	"github.com/sells-group/foresight-cli/internal/llm"
	"github.com/sells-group/foresight-cli/internal/monitoring"
	"github.com/sells-group/foresight-cli/internal/ocr"
	"github.com/sells-group/foresight-cli/internal/pipeline"
	"github.com/sells-group/foresight-cli/internal/store"
	"github.com/sells-group/foresight-cli/pkg/anthropic"
)

// appEnv holds the wired collaborators shared by the analyze/serve/jobs
// commands.
type appEnv struct {
	Store     store.Store
	Manager   *jobs.Manager
	Collector *monitoring.Collector
	Offline   bool
}

// Close waits for in-flight runs and releases the store.
func (e *appEnv) Close() {
	e.Manager.Wait()
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv builds the store, model client, pipeline, and job manager from
// configuration. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var client anthropic.Client
	if cfg.Anthropic.DemoMode {
		zap.L().Info("demo mode enabled, running on deterministic fallbacks")
	} else {
		client = anthropic.NewClient(anthropic.Options{
			APIKey:    cfg.Anthropic.Key,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			RPS:       cfg.Anthropic.RPS,
		})
		if client == nil {
			zap.L().Warn("no model key configured, running on deterministic fallbacks")
		}
	}

	engine := llm.NewEngine(client,
		llm.WithTimeout(time.Duration(cfg.Pipeline.CallTimeoutSecs)*time.Second),
		llm.WithMaxRetries(cfg.Pipeline.CallMaxRetries),
	)

	tools := ocr.New(cfg.OCR, time.Duration(cfg.Extract.ToolTimeoutSecs)*time.Second)
	extractor := extract.NewService(cfg.Extract, tools)

	pipe := pipeline.New(engine,
		pipeline.WithChunkSize(cfg.Pipeline.ChunkSize),
		pipeline.WithPersister(st),
	)

	return &appEnv{
		Store:     st,
		Manager:   jobs.NewManager(st, pipe, extractor),
		Collector: monitoring.NewCollector(st),
		Offline:   engine.Offline(),
	}, nil
}
