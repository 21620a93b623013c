package translator

import (
	"strings"
	"unicode"
)

// Weighted feature mix for textComplexity. Each feature is clamped to [0, 1]
// before weighting, so the score itself stays in [0, 1].
const (
	weightTokenCount   = 0.30
	weightSentenceLen  = 0.25
	weightPunctuation  = 0.20
	weightDigits       = 0.15
	weightUppercase    = 0.10
	defaultLangFactor  = 1.1
	tokenCountCeiling  = 200.0
	sentenceLenCeiling = 40.0
)

// languageComplexity holds static per-language difficulty multipliers.
// Unknown codes fall back to defaultLangFactor.
var languageComplexity = map[string]float64{
	"en": 1.00,
	"es": 1.05,
	"fr": 1.05,
	"it": 1.05,
	"pt": 1.05,
	"de": 1.15,
	"nl": 1.10,
	"pl": 1.20,
	"uk": 1.20,
	"ru": 1.20,
	"fi": 1.25,
	"hu": 1.25,
	"tr": 1.20,
	"ar": 1.30,
	"he": 1.25,
	"zh": 1.35,
	"ja": 1.35,
	"ko": 1.30,
	"th": 1.30,
	"vi": 1.20,
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// textComplexity scores how demanding a text is to translate, in [0, 1].
func textComplexity(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}

	sentences := 0
	punct := 0
	digits := 0
	upper := 0
	letters := 0
	for _, r := range text {
		switch {
		case r == '.' || r == '!' || r == '?':
			sentences++
			punct++
		case unicode.IsPunct(r):
			punct++
		case unicode.IsDigit(r):
			digits++
		case unicode.IsUpper(r):
			upper++
			letters++
		case unicode.IsLetter(r):
			letters++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	runes := len([]rune(text))
	tokenScore := clamp01(float64(len(tokens)) / tokenCountCeiling)
	sentenceScore := clamp01(float64(len(tokens)) / float64(sentences) / sentenceLenCeiling)
	punctScore := clamp01(float64(punct) / float64(runes) * 10)
	digitScore := clamp01(float64(digits) / float64(runes) * 10)
	upperScore := 0.0
	if letters > 0 {
		upperScore = clamp01(float64(upper) / float64(letters) * 2)
	}

	return weightTokenCount*tokenScore +
		weightSentenceLen*sentenceScore +
		weightPunctuation*punctScore +
		weightDigits*digitScore +
		weightUppercase*upperScore
}

// languageFactor returns the difficulty multiplier for an ISO language code.
func languageFactor(lang string) float64 {
	if f, ok := languageComplexity[strings.ToLower(lang)]; ok {
		return f
	}
	return defaultLangFactor
}
