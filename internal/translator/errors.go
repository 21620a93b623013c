package translator

import "fmt"

// ErrorKind classifies translation failures.
type ErrorKind int

const (
	// ErrInvalidInput means the request failed validation before dispatch.
	ErrInvalidInput ErrorKind = iota
	// ErrUnsupportedLanguage means the source or target code is not handled.
	ErrUnsupportedLanguage
	// ErrProviderFailure means the upstream call failed (network, auth,
	// malformed request, timeout, or breaker rejection).
	ErrProviderFailure
	// ErrExhausted means every candidate provider was tried without an
	// acceptable result.
	ErrExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidInput:
		return "invalid_input"
	case ErrUnsupportedLanguage:
		return "unsupported_language"
	case ErrProviderFailure:
		return "provider_failure"
	case ErrExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// TranslationError is the typed error surfaced to callers of this package
// and of the router.
type TranslationError struct {
	Kind     ErrorKind
	Provider string
	Message  string
	Err      error
}

func (e *TranslationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TranslationError) Unwrap() error { return e.Err }
