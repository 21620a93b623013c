package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func mymemoryResponse(text string, match float64) string {
	return fmt.Sprintf(`{"responseData":{"translatedText":%q,"match":%f},"responseStatus":200}`, text, match)
}

func newTestMyMemory(serverURL string, client *http.Client) *MyMemoryProvider {
	p := NewMyMemoryProvider("")
	p.baseURL = serverURL
	p.client = client
	return p
}

func TestMyMemory_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "es|en" {
			t.Errorf("expected langpair es|en, got %q", got)
		}
		fmt.Fprint(w, mymemoryResponse("hello", 0.95))
	}))
	defer server.Close()

	p := newTestMyMemory(server.URL, server.Client())
	res, err := p.Translate(context.Background(), "hola", "es", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "hello" {
		t.Errorf("expected hello, got %q", res.Text)
	}
	if res.Confidence != 0.95 {
		t.Errorf("expected confidence 0.95, got %f", res.Confidence)
	}
	if res.Provider != "mymemory" {
		t.Errorf("expected provider mymemory, got %q", res.Provider)
	}
}

func TestMyMemory_SameLanguagePassthrough(t *testing.T) {
	p := NewMyMemoryProvider("")
	res, err := p.Translate(context.Background(), "test", "en", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "test" || res.Confidence != 1.0 || res.CostEstimate != 0 {
		t.Errorf("expected unchanged passthrough, got %+v", res)
	}
}

func TestMyMemory_EmptyInput(t *testing.T) {
	p := NewMyMemoryProvider("")
	_, err := p.Translate(context.Background(), "   ", "es", "en")

	var terr *TranslationError
	if !errors.As(err, &terr) || terr.Kind != ErrInvalidInput {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestMyMemory_UnsupportedLanguage(t *testing.T) {
	p := NewMyMemoryProvider("")

	_, err := p.Translate(context.Background(), "hola", "xx", "en")
	var terr *TranslationError
	if !errors.As(err, &terr) || terr.Kind != ErrUnsupportedLanguage {
		t.Fatalf("expected unsupported language error, got %v", err)
	}
	if terr.Message != "unsupported source language: xx" {
		t.Errorf("error must name the unsupported side, got %q", terr.Message)
	}

	_, err = p.Translate(context.Background(), "hola", "es", "yy")
	if !errors.As(err, &terr) || terr.Message != "unsupported target language: yy" {
		t.Errorf("expected unsupported target error, got %v", err)
	}
}

func TestMyMemory_RetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, mymemoryResponse("hello", 0.9))
	}))
	defer server.Close()

	p := newTestMyMemory(server.URL, server.Client())
	res, err := p.Translate(context.Background(), "hola", "es", "en")
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if res.Text != "hello" {
		t.Errorf("expected hello, got %q", res.Text)
	}
}

func TestMyMemory_NoRetryOnAuthFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := newTestMyMemory(server.URL, server.Client())
	_, err := p.Translate(context.Background(), "hola", "es", "en")
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("auth failures must not retry, got %d attempts", attempts)
	}

	var terr *TranslationError
	if !errors.As(err, &terr) || terr.Kind != ErrProviderFailure {
		t.Errorf("expected provider failure, got %v", err)
	}
}

func TestMyMemory_APIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseData":{"translatedText":"","match":0},"responseStatus":403,"responseDetails":"quota exceeded"}`)
	}))
	defer server.Close()

	p := newTestMyMemory(server.URL, server.Client())
	_, err := p.Translate(context.Background(), "hola", "es", "en")
	if err == nil {
		t.Fatal("expected error for non-200 response status")
	}
}

func TestMyMemory_EstimateCostIsFree(t *testing.T) {
	p := NewMyMemoryProvider("")
	cost, err := p.EstimateCost("hola", "es", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != 0 {
		t.Errorf("expected zero cost, got %f", cost)
	}
}
