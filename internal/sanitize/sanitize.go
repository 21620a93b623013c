// Package sanitize redacts disallowed content from translated output before
// it reaches downstream consumers.
package sanitize

import (
	"regexp"
	"strings"
)

const redactedMark = "[removed]"

// disallowedPatterns match content that must never pass through untouched.
// Each pattern is listed explicitly because Go's RE2 engine does not support
// backreferences.
var disallowedPatterns = []*regexp.Regexp{
	// Email addresses.
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	// International and US-style phone numbers.
	regexp.MustCompile(`\+?\d{1,3}[\s.\-]?\(?\d{2,4}\)?[\s.\-]?\d{3}[\s.\-]?\d{2,4}\b`),
	// Payment card numbers (13-19 digits with optional separators).
	regexp.MustCompile(`\b(?:\d[ \-]?){13,19}\b`),
	// US social security numbers.
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	// IPv4 addresses.
	regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
}

// MatchCount returns how many disallowed-content matches text contains.
func MatchCount(text string) int {
	count := 0
	for _, re := range disallowedPatterns {
		count += len(re.FindAllStringIndex(text, -1))
	}
	return count
}

// Clean replaces every disallowed match with a redaction mark and collapses
// the whitespace the removal leaves behind.
func Clean(text string) string {
	for _, re := range disallowedPatterns {
		text = re.ReplaceAllString(text, redactedMark)
	}
	return strings.TrimSpace(collapseSpaces(text))
}

var multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)

func collapseSpaces(text string) string {
	return multiSpaceRe.ReplaceAllString(text, " ")
}
