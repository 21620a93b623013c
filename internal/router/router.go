// Package router orchestrates translation requests: cache lookup, ordered
// provider fallback with health and confidence gating, and aggregated
// failure reporting.
package router

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/transroute/internal"
	"github.com/valpere/transroute/internal/breaker"
	"github.com/valpere/transroute/internal/cache"
	"github.com/valpere/transroute/internal/translator"
)

// ProviderNoTranslation tags passthrough results where source and target
// languages already match.
const ProviderNoTranslation = "no_translation_needed"

// nominalCost is returned by EstimateCost when no provider can produce an
// estimate.
const nominalCost = 0.01

// Config tunes a Router instance.
type Config struct {
	// TargetLanguage is the fixed translation target for this router.
	TargetLanguage string `mapstructure:"target_language"`
	// SourceLanguage is the default source when Route is called with "".
	SourceLanguage string `mapstructure:"source_language"`
	// PreferredProvider is tried first when registered.
	PreferredProvider string `mapstructure:"preferred_provider"`
	// ProviderOrder is the priority order for the remaining providers.
	// Registered providers not listed are appended in registration order.
	ProviderOrder []string `mapstructure:"provider_order"`
	// MinConfidence rejects results below this confidence as soft failures.
	MinConfidence float64 `mapstructure:"min_confidence"`
	CacheSize     int           `mapstructure:"cache_size"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

func DefaultConfig() Config {
	return Config{
		TargetLanguage: "en",
		SourceLanguage: "auto",
		MinConfidence:  0.5,
		CacheSize:      1000,
		CacheTTL:       time.Hour,
	}
}

// Router routes translation requests across registered providers. One
// instance is shared by many concurrent callers; within a single Route call
// candidates are tried strictly in priority order.
type Router struct {
	cfg      Config
	cache    *cache.Cache
	breakers *breaker.Manager
	log      *zap.Logger

	mu         sync.RWMutex
	providers  map[string]translator.Provider
	registered []string
	fallback   translator.Provider
	sourceLang string
}

// New builds a router with an in-memory cache and a mock provider as the
// fallback of last resort. The breaker manager may be nil when no provider
// uses breakers.
func New(cfg Config, breakers *breaker.Manager, log *zap.Logger) (*Router, error) {
	if strings.TrimSpace(cfg.TargetLanguage) == "" {
		return nil, &internal.ConfigError{Component: "router", Field: "target_language", Reason: "must not be empty"}
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, &internal.ConfigError{Component: "router", Field: "min_confidence", Reason: "must be in [0, 1]"}
	}
	if log == nil {
		log = zap.NewNop()
	}

	c, err := cache.New(cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	return &Router{
		cfg:        cfg,
		cache:      c,
		breakers:   breakers,
		log:        log,
		providers:  make(map[string]translator.Provider),
		fallback:   translator.NewMockProvider("fallback"),
		sourceLang: cfg.SourceLanguage,
	}, nil
}

// Register adds a provider to the registry. Re-registering a name replaces
// the previous provider but keeps its priority position.
func (r *Router) Register(p translator.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; !exists {
		r.registered = append(r.registered, name)
	}
	r.providers[name] = p
}

// SetFallback replaces the always-available provider of last resort.
func (r *Router) SetFallback(p translator.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// SetSourceLanguage updates the default source language.
func (r *Router) SetSourceLanguage(lang string) error {
	if strings.TrimSpace(lang) == "" {
		return &internal.ConfigError{Component: "router", Field: "source_language", Reason: "must not be empty"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sourceLang = lang
	return nil
}

// candidates returns providers in attempt order: the preferred provider
// first, then the configured priority order, then remaining registrations,
// with the fallback guaranteed last.
func (r *Router) candidates() []translator.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.providers)+1)
	out := make([]translator.Provider, 0, len(r.providers)+1)

	add := func(name string) {
		if seen[name] {
			return
		}
		if p, ok := r.providers[name]; ok {
			seen[name] = true
			out = append(out, p)
		}
	}

	add(r.cfg.PreferredProvider)
	for _, name := range r.cfg.ProviderOrder {
		add(name)
	}
	for _, name := range r.registered {
		add(name)
	}
	if r.fallback != nil && !seen[r.fallback.Name()] {
		out = append(out, r.fallback)
	}
	return out
}

// attemptOutcome classifies one provider attempt for the candidate loop.
type attemptOutcome int

const (
	outcomeAccepted attemptOutcome = iota
	outcomeLowConfidence
	outcomeFailed
)

// Route translates text into the router's target language, consulting the
// cache first and falling through providers in priority order. The first
// acceptable result wins; total exhaustion returns a TranslationError
// carrying the last provider failure.
func (r *Router) Route(ctx context.Context, text, sourceLang string) (translator.Result, error) {
	if strings.TrimSpace(text) == "" {
		return translator.Result{}, &translator.TranslationError{
			Kind:    translator.ErrInvalidInput,
			Message: "text is empty",
		}
	}

	if sourceLang == "" {
		r.mu.RLock()
		sourceLang = r.sourceLang
		r.mu.RUnlock()
	}

	target := r.cfg.TargetLanguage
	if sourceLang == target {
		return translator.Result{
			Text:           text,
			Confidence:     1.0,
			Provider:       ProviderNoTranslation,
			CostEstimate:   0,
			SourceLanguage: sourceLang,
			TargetLanguage: target,
		}, nil
	}

	key := cache.Key(text, sourceLang, target)
	if res, ok := r.cache.Get(key); ok {
		r.log.Debug("cache hit", zap.String("source_lang", sourceLang))
		res.FromCache = true
		return res, nil
	}

	var lastErr error
	for _, p := range r.candidates() {
		if !p.HealthCheck(ctx) {
			// Pre-flight skip; does not count as an attempt failure.
			r.log.Debug("provider unhealthy, skipping", zap.String("provider", p.Name()))
			continue
		}

		res, outcome, err := r.attempt(ctx, p, text, sourceLang, target)
		switch outcome {
		case outcomeAccepted:
			r.cache.Put(key, res)
			return res, nil
		case outcomeLowConfidence:
			r.log.Debug("confidence below threshold",
				zap.String("provider", p.Name()),
				zap.Float64("confidence", res.Confidence),
				zap.Float64("min_confidence", r.cfg.MinConfidence))
		case outcomeFailed:
			lastErr = err
			r.log.Warn("provider attempt failed",
				zap.String("provider", p.Name()),
				zap.Error(err))
		}
	}

	msg := "all providers exhausted"
	if lastErr != nil {
		msg += ": " + lastErr.Error()
	}
	return translator.Result{}, &translator.TranslationError{
		Kind:    translator.ErrExhausted,
		Message: msg,
		Err:     lastErr,
	}
}

func (r *Router) attempt(ctx context.Context, p translator.Provider, text, sourceLang, target string) (translator.Result, attemptOutcome, error) {
	res, err := p.Translate(ctx, text, sourceLang, target)
	if err != nil {
		return translator.Result{}, outcomeFailed, err
	}
	if res.Confidence < r.cfg.MinConfidence {
		return res, outcomeLowConfidence, nil
	}
	return res, outcomeAccepted, nil
}

// EstimateCost walks the same priority order and returns the first estimate
// a provider can produce. This path performs no translation, so it touches
// neither the cache nor any circuit breaker.
func (r *Router) EstimateCost(text, sourceLang string) float64 {
	if sourceLang == "" {
		r.mu.RLock()
		sourceLang = r.sourceLang
		r.mu.RUnlock()
	}
	if sourceLang == r.cfg.TargetLanguage {
		return 0
	}
	for _, p := range r.candidates() {
		if cost, err := p.EstimateCost(text, sourceLang, r.cfg.TargetLanguage); err == nil {
			return cost
		}
	}
	return nominalCost
}

// GetCacheStats returns cache size and hit/miss counters.
func (r *Router) GetCacheStats() cache.Stats { return r.cache.Stats() }

// ClearCache empties the cache and returns the number of entries dropped.
func (r *Router) ClearCache() int { return r.cache.Clear() }

// CleanupExpiredCache purges expired entries and returns the count removed.
func (r *Router) CleanupExpiredCache() int { return r.cache.CleanupExpired() }

// GetAvailableProviders maps every configured or registered provider name to
// its registration state. The fallback is always present and registered.
func (r *Router) GetAvailableProviders() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]bool)
	if r.cfg.PreferredProvider != "" {
		_, ok := r.providers[r.cfg.PreferredProvider]
		out[r.cfg.PreferredProvider] = ok
	}
	for _, name := range r.cfg.ProviderOrder {
		_, ok := r.providers[name]
		out[name] = ok
	}
	for _, name := range r.registered {
		out[name] = true
	}
	if r.fallback != nil {
		out[r.fallback.Name()] = true
	}
	return out
}

// GetCircuitBreakerStats returns the stats snapshot for a named breaker.
func (r *Router) GetCircuitBreakerStats(name string) (breaker.Stats, bool) {
	if r.breakers == nil {
		return breaker.Stats{}, false
	}
	stats, ok := r.breakers.Stats()[name]
	return stats, ok
}

// BreakerStats returns snapshots for every breaker the manager has created.
func (r *Router) BreakerStats() map[string]breaker.Stats {
	if r.breakers == nil {
		return nil
	}
	return r.breakers.Stats()
}
