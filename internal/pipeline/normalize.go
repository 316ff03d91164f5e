package pipeline

import (
	"encoding/json"
	"strings"
)

// ExtractJSON recovers a JSON object from model output. It first strips
// Markdown code fences the model may have added despite instructions,
// tries the remaining text verbatim, and finally searches for the first
// balanced {...} span embedded in surrounding prose. Failure yields an
// *InvalidJSONError carrying a truncated snippet.
func ExtractJSON(text string) (string, error) {
	s := stripFences(text)

	if json.Valid([]byte(s)) {
		return s, nil
	}

	if span, ok := firstBalancedObject(s); ok && json.Valid([]byte(span)) {
		return span, nil
	}

	return "", newInvalidJSON(text)
}

// DecodeObject extracts and decodes a single JSON object into a loosely
// typed map. Non-object payloads (arrays, scalars) are rejected.
func DecodeObject(text string) (map[string]any, error) {
	span, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, newInvalidJSON(text)
	}
	return obj, nil
}

// DecodeInto extracts a JSON object and decodes it into v.
func DecodeInto(text string, v any) error {
	span, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return newInvalidJSON(text)
	}
	return nil
}

// stripFences removes ```json ... ``` or ``` ... ``` wrappers.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line (``` or ```json).
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		return s
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// firstBalancedObject finds the first {...} span with balanced braces,
// ignoring braces inside JSON string literals.
func firstBalancedObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
