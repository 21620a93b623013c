// Package quality scores (original, translated, sanitized) triples after the
// routing workflow completes. It is deliberately outside the router's
// critical path.
package quality

import (
	"fmt"
	"strings"

	"github.com/valpere/transroute/internal/detector"
	"github.com/valpere/transroute/internal/sanitize"
	"github.com/valpere/transroute/internal/translator"
)

// Sub-score weights for the overall score.
const (
	weightAccuracy     = 0.35
	weightSanitization = 0.25
	weightIntent       = 0.25
	weightConfidence   = 0.15
)

// Level buckets an overall score.
type Level string

const (
	LevelExcellent    Level = "excellent"
	LevelGood         Level = "good"
	LevelAcceptable   Level = "acceptable"
	LevelPoor         Level = "poor"
	LevelUnacceptable Level = "unacceptable"
)

func levelFor(score float64) Level {
	switch {
	case score >= 0.90:
		return LevelExcellent
	case score >= 0.80:
		return LevelGood
	case score >= 0.70:
		return LevelAcceptable
	case score >= 0.60:
		return LevelPoor
	default:
		return LevelUnacceptable
	}
}

// Report is the scoring outcome for one workflow run.
type Report struct {
	OverallScore      float64  `json:"overall_score"`
	TranslationScore  float64  `json:"translation_score"`
	SanitizationScore float64  `json:"sanitization_score"`
	IntentScore       float64  `json:"intent_score"`
	ConfidenceScore   float64  `json:"confidence_score"`
	Level             Level    `json:"level"`
	Issues            []string `json:"issues,omitempty"`
	Recommendations   []string `json:"recommendations,omitempty"`
}

// Config tunes the validator.
type Config struct {
	// MinConfidence flags results whose provider confidence falls below it.
	MinConfidence float64
	// DomainKeywords drive the terminology-density heuristic. Empty means
	// the heuristic is neutral.
	DomainKeywords []string
	// CheckLanguage verifies the output language matches the target using
	// the lingua detector. Detector construction is expensive; leave this
	// off in hot paths.
	CheckLanguage bool
}

func DefaultConfig() Config {
	return Config{MinConfidence: 0.7}
}

// Validator computes weighted quality reports. Safe for concurrent use.
type Validator struct {
	cfg Config
	det *detector.Detector
}

func New(cfg Config) *Validator {
	v := &Validator{cfg: cfg}
	if cfg.CheckLanguage {
		v.det = detector.New()
	}
	return v
}

// Validate scores a completed workflow: the original input, the provider's
// result, and the sanitized final output.
func (v *Validator) Validate(original string, res translator.Result, sanitized string) Report {
	confidence := clamp01(res.Confidence)
	accuracy := v.accuracyScore(res.Text, confidence)
	sanitization := sanitizationScore(res.Text, sanitized)
	intent := intentScore(original, sanitized)

	overall := weightAccuracy*accuracy +
		weightSanitization*sanitization +
		weightIntent*intent +
		weightConfidence*confidence

	report := Report{
		OverallScore:      overall,
		TranslationScore:  accuracy,
		SanitizationScore: sanitization,
		IntentScore:       intent,
		ConfidenceScore:   confidence,
		Level:             levelFor(overall),
	}
	v.collectIssues(&report, res, sanitized)
	return report
}

// accuracyScore starts from the clamped provider confidence and adjusts it
// by fluency and terminology-density heuristics.
func (v *Validator) accuracyScore(translated string, confidence float64) float64 {
	fluency := fluencyScore(translated)
	term := v.terminologyScore(translated)
	return clamp01(confidence * (0.8 + 0.1*fluency + 0.1*term))
}

// fluencyScore rates average sentence length: 15-25 words is ideal, with
// stepwise degradation outside that band.
func fluencyScore(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}
	avg := float64(words) / float64(sentences)
	switch {
	case avg >= 15 && avg <= 25:
		return 1.0
	case avg >= 10 && avg <= 30:
		return 0.85
	case avg >= 5 && avg <= 35:
		return 0.70
	default:
		return 0.55
	}
}

// terminologyScore rates domain-keyword density per 100 words: 1-5 is ideal.
// Without configured keywords the heuristic is neutral.
func (v *Validator) terminologyScore(text string) float64 {
	if len(v.cfg.DomainKeywords) == 0 {
		return 1.0
	}
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0.6
	}
	hits := 0
	lower := strings.ToLower(text)
	for _, kw := range v.cfg.DomainKeywords {
		hits += strings.Count(lower, strings.ToLower(kw))
	}
	density := float64(hits) / float64(len(words)) * 100
	switch {
	case density >= 1 && density <= 5:
		return 1.0
	case density > 5 && density <= 10:
		return 0.85
	case density > 0:
		return 0.75
	default:
		return 0.60
	}
}

// sanitizationScore is 1.0 when the translated text contained no disallowed
// content; otherwise it is the fraction of matches removed, with a small
// bonus when at least 70% of the original length survived.
func sanitizationScore(translated, sanitized string) float64 {
	before := sanitize.MatchCount(translated)
	if before == 0 {
		return 1.0
	}
	after := sanitize.MatchCount(sanitized)
	removed := float64(before-after) / float64(before)
	if removed < 0 {
		removed = 0
	}
	score := removed
	if len(translated) > 0 && float64(len(sanitized)) >= 0.7*float64(len(translated)) {
		score += 0.1
	}
	return clamp01(score)
}

// intentScore is the fraction of original-text keywords surviving into the
// processed text, with a bounded 10% bonus when the output is not
// drastically shorter than the input.
func intentScore(original, processed string) float64 {
	keywords := contentKeywords(original)
	if len(keywords) == 0 {
		return 1.0
	}
	lower := strings.ToLower(processed)
	kept := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			kept++
		}
	}
	score := float64(kept) / float64(len(keywords))
	if len(original) > 0 && float64(len(processed)) >= 0.5*float64(len(original)) {
		score *= 1.1
	}
	return clamp01(score)
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "was": {}, "his": {}, "her": {}, "they": {},
	"this": {}, "that": {}, "with": {}, "have": {}, "from": {}, "has": {},
	"will": {}, "wont": {}, "can": {}, "its": {}, "our": {}, "your": {},
}

func contentKeywords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if len([]rune(f)) < 3 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (v *Validator) collectIssues(report *Report, res translator.Result, sanitized string) {
	if res.Confidence < v.cfg.MinConfidence {
		report.Issues = append(report.Issues, "translation confidence below threshold")
		report.Recommendations = append(report.Recommendations,
			"retry with the preferred provider or raise the minimum confidence gate")
	}

	if len(res.Text) > 0 {
		removed := 1 - float64(len(sanitized))/float64(len(res.Text))
		if removed > 0.3 {
			report.Issues = append(report.Issues,
				fmt.Sprintf("excessive content removal: %d%%", int(removed*100)))
			report.Recommendations = append(report.Recommendations,
				"review sanitization patterns for over-aggressive stripping")
		}
	}

	if report.IntentScore < 0.6 {
		report.Issues = append(report.Issues, "original intent may be lost")
		report.Recommendations = append(report.Recommendations,
			"verify the translation preserves the source meaning")
	}

	if report.TranslationScore < 0.7 {
		report.Recommendations = append(report.Recommendations,
			"consider escalating to a higher-quality provider tier")
	}

	if v.det != nil && res.TargetLanguage != "" {
		if !v.det.IsLanguage(sanitized, res.TargetLanguage) {
			report.Issues = append(report.Issues,
				"output language does not match target "+res.TargetLanguage)
		}
	}
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
