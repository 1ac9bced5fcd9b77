package providers

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyResponse is returned when a backend reply normalizes to nothing.
// "No content" must surface as a failure so the fallback chain can move on,
// never as a blank success.
var ErrEmptyResponse = errors.New("empty model response")

// NormalizeContent reduces a backend's heterogeneous reply content to a
// single trimmed string. Content may be a plain string or a list of
// fragments, each either a string or an object carrying a "text" field.
// Fragments concatenate in array order; non-text fragments contribute
// nothing. Normalizing an already-normalized non-empty string is a no-op.
func NormalizeContent(content any) string {
	switch v := content.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		var b strings.Builder
		for _, part := range v {
			switch p := part.(type) {
			case string:
				b.WriteString(p)
			case map[string]any:
				if text, ok := p["text"].(string); ok {
					b.WriteString(text)
				}
			}
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}

// normalizeRaw decodes a raw JSON content value and normalizes it.
// An absent or null value normalizes to "".
func normalizeRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var content any
	if err := json.Unmarshal(raw, &content); err != nil {
		return ""
	}
	return NormalizeContent(content)
}
