package sanitize

import (
	"strings"
	"testing"
)

func TestClean_Email(t *testing.T) {
	got := Clean("contact john.doe+test@example.co.uk for details")
	want := "contact [removed] for details"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_Phone(t *testing.T) {
	got := Clean("call +1 555 123 4567 tomorrow")
	if strings.Contains(got, "555") {
		t.Errorf("phone number must be redacted, got %q", got)
	}
	if !strings.Contains(got, redactedMark) {
		t.Errorf("expected redaction mark, got %q", got)
	}
}

func TestClean_CardNumber(t *testing.T) {
	got := Clean("pay with 4111 1111 1111 1111 please")
	if strings.Contains(got, "4111") {
		t.Errorf("card number must be redacted, got %q", got)
	}
}

func TestClean_SSN(t *testing.T) {
	got := Clean("my ssn is 123-45-6789 ok")
	if strings.Contains(got, "123-45-6789") {
		t.Errorf("ssn must be redacted, got %q", got)
	}
}

func TestClean_IPv4(t *testing.T) {
	got := Clean("server at 192.168.0.1 is down")
	if strings.Contains(got, "192.168.0.1") {
		t.Errorf("ip address must be redacted, got %q", got)
	}
}

func TestClean_PassesThroughCleanText(t *testing.T) {
	text := "nothing sensitive in this sentence"
	if got := Clean(text); got != text {
		t.Errorf("clean text must pass through unchanged, got %q", got)
	}
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	got := Clean("  spaced   out   text  ")
	if got != "spaced out text" {
		t.Errorf("expected collapsed spaces, got %q", got)
	}
}

func TestMatchCount(t *testing.T) {
	if got := MatchCount("no sensitive content"); got != 0 {
		t.Errorf("expected 0 matches, got %d", got)
	}
	text := "email a@b.com and also c@d.org today"
	if got := MatchCount(text); got != 2 {
		t.Errorf("expected 2 matches, got %d", got)
	}
}
