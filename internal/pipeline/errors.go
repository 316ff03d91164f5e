package pipeline

import "fmt"

// snippetLen bounds how much offending model text is carried inside an
// InvalidJSONError for diagnostics.
const snippetLen = 200

// InvalidJSONError reports model output that could not be recovered as
// JSON, carrying a truncated snippet of the offending text.
type InvalidJSONError struct {
	Snippet string
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("model output is not recoverable JSON: %q", e.Snippet)
}

// ValidationError reports output that fails the strict schema/range
// checks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newInvalidJSON(text string) *InvalidJSONError {
	if len(text) > snippetLen {
		text = text[:snippetLen]
	}
	return &InvalidJSONError{Snippet: text}
}
