package translator

import (
	"context"
	"strings"
	"testing"
)

func TestTextComplexity_Bounds(t *testing.T) {
	if got := textComplexity(""); got != 0 {
		t.Errorf("empty text must score 0, got %f", got)
	}

	dense := strings.Repeat("LOUD TEXT 123, 456; 789! abc-def (ghi)? ", 50)
	score := textComplexity(dense)
	if score < 0 || score > 1 {
		t.Errorf("score must stay in [0,1], got %f", score)
	}
}

func TestTextComplexity_Ordering(t *testing.T) {
	simple := textComplexity("the cat sat on the mat")
	complex := textComplexity(strings.Repeat(
		"Pursuant to clause 12.4(b), the Licensee shall remit 1,250.00 EUR within 30 days; failure triggers §8 penalties! ", 20))
	if complex <= simple {
		t.Errorf("dense legal text should score higher: simple=%f complex=%f", simple, complex)
	}
}

func TestLanguageFactor(t *testing.T) {
	if got := languageFactor("en"); got != 1.0 {
		t.Errorf("expected 1.0 for en, got %f", got)
	}
	if got := languageFactor("JA"); got != 1.35 {
		t.Errorf("expected case-insensitive lookup, got %f", got)
	}
	if got := languageFactor("tlh"); got != defaultLangFactor {
		t.Errorf("expected default factor for unknown code, got %f", got)
	}
}

func TestMock_Translate(t *testing.T) {
	p := NewMockProvider("mock").WithMapping("hola", "hello").WithConfidence(0.95)

	res, err := p.Translate(context.Background(), "hola", "es", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "hello" || res.Confidence != 0.95 || res.Provider != "mock" {
		t.Errorf("unexpected result: %+v", res)
	}

	// Unmapped text echoes at reduced confidence.
	res, err = p.Translate(context.Background(), "adios", "es", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "adios" || res.Confidence >= 0.95 {
		t.Errorf("expected echo at reduced confidence, got %+v", res)
	}

	if p.Translations() != 2 {
		t.Errorf("expected 2 recorded translations, got %d", p.Translations())
	}
}
