package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing to a charm logger.
// Engine, playback and cache events log at debug level; server responses log
// only when they fail.
type LogHooks struct {
	Logger *log.Logger
}

// UseLogger registers LogHooks for every hook category.
func UseLogger(logger *log.Logger) {
	h := LogHooks{Logger: logger.WithPrefix("hooks")}
	SetSurfaceHooks(h)
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnReconcile(surface string, created, updated, removed int, staggered bool) {
	h.Logger.Debug("reconcile", "surface", surface, "created", created, "updated", updated, "removed", removed, "staggered", staggered)
}

func (h LogHooks) OnToggle(surface, key string, visualOn bool, phase string) {
	h.Logger.Debug("toggle", "surface", surface, "key", key, "on", visualOn, "phase", phase)
}

func (h LogHooks) OnStaleCompletion(surface, key string) {
	h.Logger.Debug("stale completion", "surface", surface, "key", key)
}

func (h LogHooks) OnPlayStart(_ context.Context, scenario string) {
	h.Logger.Debug("play start", "scenario", scenario)
}

func (h LogHooks) OnPlayComplete(_ context.Context, scenario string, frames int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("play failed", "scenario", scenario, "err", err)
		return
	}
	h.Logger.Debug("play done", "scenario", scenario, "frames", frames, "duration", d.Round(time.Microsecond))
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render done", "formats", formats, "duration", d.Round(time.Microsecond), "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(context.Context, string, string) {}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= http.StatusInternalServerError {
		h.Logger.Warn("request failed", "method", method, "path", path, "status", status, "duration", d)
	}
}

var (
	_ SurfaceHooks  = LogHooks{}
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)
