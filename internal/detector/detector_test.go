package detector

import (
	"sync"
	"testing"
)

var (
	shared     *Detector
	sharedOnce sync.Once
)

// sharedDetector avoids rebuilding the language models for every test.
func sharedDetector() *Detector {
	sharedOnce.Do(func() { shared = New() })
	return shared
}

func TestDetect_TooShort(t *testing.T) {
	d := sharedDetector()
	if _, ok := d.Detect("hi"); ok {
		t.Error("short text must not be detected")
	}
	if _, ok := d.Detect("   "); ok {
		t.Error("blank text must not be detected")
	}
}

func TestDetectISO_English(t *testing.T) {
	d := sharedDetector()
	iso, ok := d.DetectISO("The weather today is absolutely wonderful and the birds are singing")
	if !ok {
		t.Fatal("expected detection to succeed")
	}
	if iso != "en" {
		t.Errorf("expected en, got %q", iso)
	}
}

func TestDetectISO_Spanish(t *testing.T) {
	d := sharedDetector()
	iso, ok := d.DetectISO("El clima de hoy es absolutamente maravilloso y los pájaros están cantando")
	if !ok {
		t.Fatal("expected detection to succeed")
	}
	if iso != "es" {
		t.Errorf("expected es, got %q", iso)
	}
}

func TestIsLanguage(t *testing.T) {
	d := sharedDetector()
	if !d.IsLanguage("The weather today is absolutely wonderful and the birds are singing", "en") {
		t.Error("english text must match en")
	}
	if d.IsLanguage("The weather today is absolutely wonderful and the birds are singing", "fr") {
		t.Error("english text must not match fr")
	}
	// Undetectable text is never flagged as a mismatch.
	if !d.IsLanguage("ok", "fr") {
		t.Error("short text must pass any language check")
	}
}
