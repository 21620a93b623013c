// Package detector wraps lingua-go language detection behind a small API.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minReliableRunes is the shortest text worth detecting; shorter inputs are
// reported as unknown rather than guessed.
const minReliableRunes = 20

// Detector identifies the language of a text. Building one is expensive;
// reuse the instance.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect returns the detected language, or false when the text is too short
// or ambiguous.
func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if len([]rune(strings.TrimSpace(text))) < minReliableRunes {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// IsLanguage reports whether text appears to be written in the given ISO
// code. Undetectable texts pass, so short outputs are never flagged.
func (d *Detector) IsLanguage(text, iso string) bool {
	detected, ok := d.DetectISO(text)
	if !ok {
		return true
	}
	return strings.EqualFold(detected, iso)
}
