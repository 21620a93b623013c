package translator

import (
	"context"
	"sync"
	"time"
)

// MockProvider is an in-memory provider used as the router's guaranteed
// fallback and as a test double. With no mappings it echoes the input at a
// reduced confidence, so routing always has a candidate of last resort.
type MockProvider struct {
	name string

	mu           sync.Mutex
	mappings     map[string]string
	confidence   float64
	echoConf     float64
	healthy      bool
	failWith     error
	delay        time.Duration
	translations int
}

func NewMockProvider(name string) *MockProvider {
	if name == "" {
		name = "mock"
	}
	return &MockProvider{
		name:       name,
		mappings:   make(map[string]string),
		confidence: 0.95,
		echoConf:   0.75,
		healthy:    true,
	}
}

// WithMapping registers a fixed text→translation pair.
func (p *MockProvider) WithMapping(text, translated string) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mappings[text] = translated
	return p
}

// WithConfidence sets the confidence reported for mapped translations.
func (p *MockProvider) WithConfidence(c float64) *MockProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confidence = c
	return p
}

// SetHealthy toggles the health-check outcome.
func (p *MockProvider) SetHealthy(healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy = healthy
}

// FailWith makes every Translate call fail with err until cleared with nil.
func (p *MockProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith = err
}

// SetDelay adds artificial latency to Translate, for timeout tests.
func (p *MockProvider) SetDelay(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delay = d
}

// Translations reports how many Translate calls ran past the prechecks.
func (p *MockProvider) Translations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.translations
}

func (p *MockProvider) Name() string { return p.name }

// SupportedLanguages returns nil: the mock accepts any language pair.
func (p *MockProvider) SupportedLanguages() map[string]struct{} { return nil }

func (p *MockProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error) {
	if res, done, err := precheck(p.name, nil, text, sourceLang, targetLang); done || err != nil {
		return res, err
	}

	p.mu.Lock()
	p.translations++
	failWith := p.failWith
	delay := p.delay
	translated, mapped := p.mappings[text]
	confidence := p.confidence
	if !mapped {
		translated = text
		confidence = p.echoConf
	}
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(delay):
		}
	}
	if failWith != nil {
		return Result{}, &TranslationError{
			Kind:     ErrProviderFailure,
			Provider: p.name,
			Message:  "translate call failed",
			Err:      failWith,
		}
	}

	return Result{
		Text:           translated,
		Confidence:     confidence,
		Provider:       p.name,
		CostEstimate:   0,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
	}, nil
}

func (p *MockProvider) EstimateCost(text, sourceLang, targetLang string) (float64, error) {
	return 0, nil
}

func (p *MockProvider) HealthCheck(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy
}
