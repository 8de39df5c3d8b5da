package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowmotion/flowmotion/pkg/cache"
	"github.com/flowmotion/flowmotion/pkg/geometry"
	"github.com/flowmotion/flowmotion/pkg/observability"
	"github.com/flowmotion/flowmotion/pkg/scene"
	"github.com/flowmotion/flowmotion/pkg/timeline"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it never stores
// pipeline results. Multiple goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer gets the DefaultKeyer; a nil cache disables caching.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error { return r.Cache.Close() }

// SceneHash computes the content hash of a scene over its canonical JSON
// encoding. All cache keys derive from this hash.
func SceneHash(s scene.Scene) (string, error) {
	data, err := scene.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("hash scene: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute runs the complete validate → resolve → evaluate pipeline.
func (r *Runner) Execute(ctx context.Context, s scene.Scene, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := SceneHash(s)
	if err != nil {
		return nil, err
	}
	result := &Result{SceneHash: hash}

	// Stage 1: Validate
	validateStart := time.Now()
	observability.Pipeline().OnValidateStart(ctx, hash)
	err = s.Validate()
	result.Stats.ValidateTime = time.Since(validateStart)
	observability.Pipeline().OnValidateComplete(ctx, hash, result.Stats.ValidateTime, err)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	result.Stats.NodeCount = len(s.Nodes)
	result.Stats.ContainerCount = len(s.Containers)
	result.Stats.ConnectionCount = len(s.Connections)

	// Stage 2: Resolve geometry
	resolveStart := time.Now()
	diagram, layoutHit, err := r.ResolveWithCacheInfo(ctx, s, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Diagram = diagram
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("resolved geometry",
		"nodes", result.Stats.NodeCount,
		"containers", result.Stats.ContainerCount,
		"connections", result.Stats.ConnectionCount,
		"duration", result.Stats.ResolveTime)

	// Stage 3: Evaluate frame
	evalStart := time.Now()
	frame, frameHit, err := r.EvaluateWithCacheInfo(ctx, s, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	result.Frame = frame
	result.Stats.EvaluateTime = time.Since(evalStart)
	result.CacheInfo.FrameHit = frameHit
	result.Stats.EventCount = len(timeline.Flatten(s.Timeline, opts.FPS))
	result.TotalFrames = timeline.TotalFrames(s.Timeline, opts.FPS)

	opts.Logger.Info("evaluated frame",
		"frame", opts.Frame,
		"fps", opts.FPS,
		"events", result.Stats.EventCount,
		"still", frame == nil,
		"duration", result.Stats.EvaluateTime)

	return result, nil
}

// ResolveWithCacheInfo computes the scene's geometry with caching and
// reports whether the result came from cache.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, s scene.Scene, hash string, opts Options) (*geometry.Diagram, bool, error) {
	key := r.Keyer.LayoutKey(hash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var d geometry.Diagram
			if err := json.Unmarshal(data, &d); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &d, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	observability.Pipeline().OnResolveStart(ctx, len(s.Nodes), len(s.Connections))
	start := time.Now()
	d, err := geometry.Resolve(&s)
	observability.Pipeline().OnResolveComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(d); err == nil {
		if err := r.Cache.Set(ctx, key, data, 0); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return d, false, nil
}

// EvaluateWithCacheInfo computes animation state at opts.Frame with caching.
// In still-image mode it returns (nil, false, nil): callers render every
// element fully lit with no draw-in animation.
func (r *Runner) EvaluateWithCacheInfo(ctx context.Context, s scene.Scene, hash string, opts Options) (*timeline.FrameState, bool, error) {
	if opts.Still() || len(s.Timeline) == 0 {
		return nil, false, nil
	}

	key := r.Keyer.FrameKey(hash, opts.Frame, opts.FPS)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var fs timeline.FrameState
			if err := json.Unmarshal(data, &fs); err == nil {
				observability.Cache().OnCacheHit(ctx, "frame")
				return &fs, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "frame")

	observability.Pipeline().OnEvaluateStart(ctx, opts.Frame, opts.FPS)
	start := time.Now()
	fs := timeline.NewEvaluator(&s, opts.FPS).Frame(opts.Frame)
	observability.Pipeline().OnEvaluateComplete(ctx, opts.Frame, time.Since(start), nil)
	if fs == nil {
		return nil, false, nil
	}

	if data, err := json.Marshal(fs); err == nil {
		if err := r.Cache.Set(ctx, key, data, 0); err == nil {
			observability.Cache().OnCacheSet(ctx, "frame", len(data))
		}
	}
	return fs, false, nil
}
