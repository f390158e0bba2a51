package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/callsurface/pkg/cache"
	"github.com/matzehuels/callsurface/pkg/observability"
	"github.com/matzehuels/callsurface/pkg/scenario"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete play → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, sc *scenario.Scenario, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	applyScenario(sc, &opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := scenarioHash(sc)
	if err != nil {
		return nil, err
	}
	result := &Result{Hash: hash}
	runHash := cache.Hash([]byte(r.Keyer.RunKey(hash, opts.RunKeyOpts())))

	// Stage 0: Cache
	if !opts.Refresh {
		if artifacts, ok := r.lookup(ctx, runHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("served from cache", "scenario", sc.Name, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Play
	playStart := time.Now()
	run, err := r.Play(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("play: %w", err)
	}
	result.Run = run
	result.Stats.Frames = len(run.Frames)
	result.Stats.PlayTime = time.Since(playStart)

	r.Logger.Info("played scenario",
		"scenario", sc.Name,
		"frames", len(run.Frames),
		"intents", len(run.Intents()),
		"duration", result.Stats.PlayTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, err := r.render(ctx, run, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range artifacts {
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(runHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Play drives the engines through the scenario and samples its frames.
// Scenario width and bottom inset override the options.
func (r *Runner) Play(ctx context.Context, sc *scenario.Scenario, opts Options) (run *Run, err error) {
	r.applyLogger(&opts)
	applyScenario(sc, &opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnPlayStart(ctx, sc.Name)
	defer func() {
		frames := 0
		if run != nil {
			frames = len(run.Frames)
		}
		observability.Pipeline().OnPlayComplete(ctx, sc.Name, frames, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := scenarioHash(sc)
	if err != nil {
		return nil, err
	}

	stage := NewStage(opts, opts.Logger)
	stage.Peer = sc.Peer
	p := &player{stage: stage, sc: sc, animated: !opts.Immediate, logger: opts.Logger}
	frames := p.play()

	return &Run{Scenario: sc, Hash: hash, Frames: frames, Events: p.events}, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, run *Run, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if run.Scenario != nil {
		applyScenario(run.Scenario, &opts)
	}
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	runHash := cache.Hash([]byte(r.Keyer.RunKey(run.Hash, opts.RunKeyOpts())))
	if artifacts, ok := r.lookup(ctx, runHash, opts); ok {
		return artifacts, true, nil
	}

	rendered, err := r.render(ctx, run, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(runHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, run *Run, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, run, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) render(ctx context.Context, run *Run, opts Options) (artifacts map[string][]byte, err error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()
	return Render(ctx, run, opts)
}

// lookup returns every requested format from the cache, or false if any is
// missing.
func (r *Runner) lookup(ctx context.Context, runHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(runHash, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, len(artifacts) > 0
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// applyScenario lets the scenario's own bounds win over the options.
func applyScenario(sc *scenario.Scenario, opts *Options) {
	if sc.Width != 0 {
		opts.Width = sc.Width
	}
	if sc.BottomInset != nil {
		inset := *sc.BottomInset
		opts.BottomInset = &inset
	}
}

func scenarioHash(sc *scenario.Scenario) (string, error) {
	data, err := sc.Encode()
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
