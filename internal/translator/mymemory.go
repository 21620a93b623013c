package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/valpere/transroute/internal/breaker"
)

// mymemoryInterval spaces requests to stay inside the free-tier quota.
const mymemoryInterval = 200 * time.Millisecond

// MyMemoryProvider talks to the free MyMemory translation API.
type MyMemoryProvider struct {
	email   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cb      *breaker.CircuitBreaker
	langs   map[string]struct{}
}

func NewMyMemoryProvider(email string) *MyMemoryProvider {
	return &MyMemoryProvider{
		email:   email,
		baseURL: "https://api.mymemory.translated.net",
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(mymemoryInterval), 1),
		langs: languageSet(
			"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
			"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
			"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
		),
	}
}

// WithBreaker attaches a circuit breaker; all outbound calls route through it.
func (p *MyMemoryProvider) WithBreaker(cb *breaker.CircuitBreaker) *MyMemoryProvider {
	p.cb = cb
	return p
}

func (p *MyMemoryProvider) Name() string { return "mymemory" }

func (p *MyMemoryProvider) SupportedLanguages() map[string]struct{} { return p.langs }

func (p *MyMemoryProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error) {
	if res, done, err := precheck(p.Name(), p.langs, text, sourceLang, targetLang); done || err != nil {
		return res, err
	}

	start := time.Now()
	var translated string
	var confidence float64

	err := callThrough(ctx, p.cb, func(ctx context.Context) error {
		apiURL := fmt.Sprintf("%s/get?q=%s&langpair=%s", p.baseURL,
			url.QueryEscape(text),
			url.QueryEscape(sourceLang+"|"+targetLang))
		if p.email != "" {
			apiURL += "&de=" + url.QueryEscape(p.email)
		}

		resp, err := doWithRetry(ctx, p.client, p.limiter, func(ctx context.Context) (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		})
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var mymemResp struct {
			ResponseData struct {
				TranslatedText string  `json:"translatedText"`
				Match          float64 `json:"match"`
			} `json:"responseData"`
			ResponseStatus  int    `json:"responseStatus"`
			ResponseDetails string `json:"responseDetails"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		if mymemResp.ResponseStatus != 200 {
			return fmt.Errorf("API error: %s (%d)", mymemResp.ResponseDetails, mymemResp.ResponseStatus)
		}

		translated = mymemResp.ResponseData.TranslatedText
		confidence = clamp01(mymemResp.ResponseData.Match)
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

	return Result{
		Text:           translated,
		Confidence:     confidence,
		Provider:       p.Name(),
		CostEstimate:   0,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Latency:        time.Since(start),
	}, nil
}

// EstimateCost returns 0: the MyMemory API is free within its daily quota.
func (p *MyMemoryProvider) EstimateCost(text, sourceLang, targetLang string) (float64, error) {
	return 0, nil
}

// HealthCheck reports whether the provider is usable. Breaker state is not
// consulted: an open breaker rejects inside Translate, so recovery probes can
// still run once the recovery timeout elapses.
func (p *MyMemoryProvider) HealthCheck(ctx context.Context) bool {
	return true
}
