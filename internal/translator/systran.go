package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/valpere/transroute/internal/breaker"
)

const (
	systranHost     = "api-systran-systran-translation-v1.p.rapidapi.com"
	systranInterval = 100 * time.Millisecond

	profileStandard = "standard"
	profilePremium  = "premium"
)

// Escalation thresholds for the request-quality optimization. When either
// score is exceeded the request is dispatched on the premium profile.
const (
	complexityThreshold = 0.6
	langFactorThreshold = 1.25
)

// SystranProvider talks to the Systran translation API. It escalates complex
// requests from the standard to the premium profile before dispatch; the
// escalation only changes internal request parameters, never the contract.
type SystranProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cb      *breaker.CircuitBreaker
	langs   map[string]struct{}

	costPerChar float64
}

func NewSystranProvider(apiKey string) *SystranProvider {
	return &SystranProvider{
		apiKey:      apiKey,
		baseURL:     "https://" + systranHost,
		client:      &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(systranInterval), 1),
		langs:       languageSet("en", "fr", "es", "de", "it", "pt", "ru", "zh", "ja", "ko", "ar", "nl", "pl", "uk"),
		costPerChar: 0.00001,
	}
}

// WithBreaker attaches a circuit breaker; all outbound calls route through it.
func (p *SystranProvider) WithBreaker(cb *breaker.CircuitBreaker) *SystranProvider {
	p.cb = cb
	return p
}

func (p *SystranProvider) Name() string { return "systran" }

func (p *SystranProvider) SupportedLanguages() map[string]struct{} { return p.langs }

// profileFor picks the quality profile from the text and target language
// complexity scores.
func (p *SystranProvider) profileFor(text, targetLang string) string {
	if textComplexity(text) > complexityThreshold || languageFactor(targetLang) > langFactorThreshold {
		return profilePremium
	}
	return profileStandard
}

func (p *SystranProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error) {
	if res, done, err := precheck(p.Name(), p.langs, text, sourceLang, targetLang); done || err != nil {
		return res, err
	}
	if p.apiKey == "" {
		return Result{}, &TranslationError{
			Kind:     ErrProviderFailure,
			Provider: p.Name(),
			Message:  "API key not configured",
		}
	}

	start := time.Now()
	profile := p.profileFor(text, targetLang)
	var translated string

	err := callThrough(ctx, p.cb, func(ctx context.Context) error {
		body := map[string]interface{}{
			"text":    []string{text},
			"source":  sourceLang,
			"target":  targetLang,
			"format":  "text",
			"profile": profile,
		}
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		resp, err := doWithRetry(ctx, p.client, p.limiter, func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				p.baseURL+"/translation/text/translate", bytes.NewReader(jsonData))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-RapidAPI-Key", p.apiKey)
			req.Header.Set("X-RapidAPI-Host", systranHost)
			return req, nil
		})
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var systranResp struct {
			Outputs []struct {
				Output string `json:"output"`
			} `json:"outputs"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&systranResp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		if len(systranResp.Outputs) == 0 || systranResp.Outputs[0].Output == "" {
			return fmt.Errorf("empty translation response")
		}

		translated = systranResp.Outputs[0].Output
		return nil
	})
	if err != nil {
		return Result{}, &TranslationError{
			Kind:     ErrProviderFailure,
			Provider: p.Name(),
			Message:  "translate call failed",
			Err:      err,
		}
	}

	confidence := 0.9
	if profile == profilePremium {
		confidence = 0.95
	}

	return Result{
		Text:           translated,
		Confidence:     confidence,
		Provider:       p.Name(),
		CostEstimate:   p.estimate(text, profile),
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Latency:        time.Since(start),
	}, nil
}

func (p *SystranProvider) estimate(text, profile string) float64 {
	cost := float64(len([]rune(text))) * p.costPerChar
	if profile == profilePremium {
		cost *= 2
	}
	return cost
}

func (p *SystranProvider) EstimateCost(text, sourceLang, targetLang string) (float64, error) {
	return p.estimate(text, p.profileFor(text, targetLang)), nil
}

// HealthCheck requires an API key. Breaker state is deliberately not part of
// health so an open breaker can still admit recovery probes via Translate.
func (p *SystranProvider) HealthCheck(ctx context.Context) bool {
	return p.apiKey != ""
}
