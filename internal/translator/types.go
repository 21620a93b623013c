// Package translator defines the provider contract and the concrete
// translation backends the router can dispatch to.
package translator

import (
	"context"
	"strings"
	"time"
)

// Result is the immutable value returned by a provider and stored in cache.
type Result struct {
	Text           string        `json:"text"`
	Confidence     float64       `json:"confidence"`
	Provider       string        `json:"provider"`
	CostEstimate   float64       `json:"cost_estimate"`
	SourceLanguage string        `json:"source_language"`
	TargetLanguage string        `json:"target_language"`
	Latency        time.Duration `json:"latency,omitempty"`
	// FromCache is set by the router when the result was served from its
	// cache rather than a provider call. Never set on the stored copy.
	FromCache bool `json:"from_cache,omitempty"`
}

// Provider is the uniform contract every translation backend implements.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error)
	EstimateCost(text, sourceLang, targetLang string) (float64, error)
	SupportedLanguages() map[string]struct{}
	HealthCheck(ctx context.Context) bool
}

// languageSet builds a supported-language set from ISO codes.
func languageSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// precheck applies the behavior shared by all adapters: reject blank input,
// reject unsupported language codes, and short-circuit same-language requests
// with a zero-cost passthrough. When ok is true the caller must return res
// without any network call.
func precheck(name string, supported map[string]struct{}, text, sourceLang, targetLang string) (res Result, ok bool, err error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, false, &TranslationError{
			Kind:     ErrInvalidInput,
			Provider: name,
			Message:  "text is empty",
		}
	}
	if sourceLang == targetLang {
		return Result{
			Text:           text,
			Confidence:     1.0,
			Provider:       name,
			CostEstimate:   0,
			SourceLanguage: sourceLang,
			TargetLanguage: targetLang,
		}, true, nil
	}
	if supported != nil {
		if _, found := supported[sourceLang]; !found {
			return Result{}, false, &TranslationError{
				Kind:     ErrUnsupportedLanguage,
				Provider: name,
				Message:  "unsupported source language: " + sourceLang,
			}
		}
		if _, found := supported[targetLang]; !found {
			return Result{}, false, &TranslationError{
				Kind:     ErrUnsupportedLanguage,
				Provider: name,
				Message:  "unsupported target language: " + targetLang,
			}
		}
	}
	return Result{}, false, nil
}
