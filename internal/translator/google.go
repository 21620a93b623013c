package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/valpere/transroute/internal/breaker"
)

// googleCostPerChar mirrors the published v2 API pricing ($20 per million
// characters).
const googleCostPerChar = 0.00002

// GoogleProvider wraps the Google Cloud Translation API. Language support is
// validated through BCP 47 parsing rather than a static set, since the API
// accepts far more codes than we could enumerate.
type GoogleProvider struct {
	credentials string
	cb          *breaker.CircuitBreaker
}

func NewGoogleProvider(credentialsFile string) *GoogleProvider {
	return &GoogleProvider{credentials: credentialsFile}
}

// WithBreaker attaches a circuit breaker; all outbound calls route through it.
func (p *GoogleProvider) WithBreaker(cb *breaker.CircuitBreaker) *GoogleProvider {
	p.cb = cb
	return p
}

func (p *GoogleProvider) Name() string { return "google" }

// SupportedLanguages returns nil: any parseable BCP 47 tag is accepted.
func (p *GoogleProvider) SupportedLanguages() map[string]struct{} { return nil }

func (p *GoogleProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error) {
	if res, done, err := precheck(p.Name(), nil, text, sourceLang, targetLang); done || err != nil {
		return res, err
	}

	sourceTag, err := language.Parse(sourceLang)
	if err != nil {
		return Result{}, &TranslationError{
			Kind:     ErrUnsupportedLanguage,
			Provider: p.Name(),
			Message:  "unsupported source language: " + sourceLang,
			Err:      err,
		}
	}
	targetTag, err := language.Parse(targetLang)
	if err != nil {
		return Result{}, &TranslationError{
			Kind:     ErrUnsupportedLanguage,
			Provider: p.Name(),
			Message:  "unsupported target language: " + targetLang,
			Err:      err,
		}
	}

	start := time.Now()
	var translated string

	callErr := callThrough(ctx, p.cb, func(ctx context.Context) error {
		var opts []option.ClientOption
		if p.credentials != "" {
			opts = append(opts, option.WithCredentialsFile(p.credentials))
		}

		client, err := translate.NewClient(ctx, opts...)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		defer client.Close()

		translations, err := client.Translate(ctx, []string{text}, targetTag, &translate.Options{
			Source: sourceTag,
		})
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		if len(translations) == 0 {
			return fmt.Errorf("no translation returned")
		}

		translated = translations[0].Text
		return nil
	})
	if callErr != nil {
		return Result{}, &TranslationError{
			Kind:     ErrProviderFailure,
			Provider: p.Name(),
			Message:  "translate call failed",
			Err:      callErr,
		}
	}

	return Result{
		Text:           translated,
		Confidence:     1.0,
		Provider:       p.Name(),
		CostEstimate:   float64(len([]rune(text))) * googleCostPerChar,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Latency:        time.Since(start),
	}, nil
}

func (p *GoogleProvider) EstimateCost(text, sourceLang, targetLang string) (float64, error) {
	return float64(len([]rune(text))) * googleCostPerChar, nil
}

// HealthCheck requires a credentials file. Breaker state is deliberately not
// part of health so an open breaker can still admit recovery probes via
// Translate.
func (p *GoogleProvider) HealthCheck(ctx context.Context) bool {
	return p.credentials != ""
}
