// Package llmtext recovers structured data from unreliable model output.
// Generative models routinely wrap JSON in prose or markdown fencing; the
// layered recovery here maximizes successful extraction without a full
// grammar-aware parser.
package llmtext

import (
	"encoding/json"
	"strings"
)

// A strategy extracts a candidate JSON payload from raw model output.
// It reports false when the shape it looks for is absent; whether the
// candidate actually parses is the caller's problem.
type strategy func(raw string) (string, bool)

// Strategies are tried in order; the first candidate that unmarshals
// cleanly wins.
var strategies = []strategy{
	wholeText,
	taggedFence,
	anyFence,
	braceSpan,
}

// Decode normalizes raw model output into T. It reports false when no
// strategy yields text that unmarshals into T; that is a plain negative
// result, not an error, so callers decide how to react.
func Decode[T any](raw string) (T, bool) {
	for _, s := range strategies {
		candidate, found := s(raw)
		if !found {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func wholeText(raw string) (string, bool) {
	return strings.TrimSpace(raw), true
}

// taggedFence extracts the body of the first ```json fenced block.
func taggedFence(raw string) (string, bool) {
	_, after, found := strings.Cut(raw, "```json")
	if !found {
		return "", false
	}
	body, _, _ := strings.Cut(after, "```")
	return strings.TrimSpace(body), true
}

// anyFence extracts the body of the first fenced block of any tag.
func anyFence(raw string) (string, bool) {
	_, after, found := strings.Cut(raw, "```")
	if !found {
		return "", false
	}
	body, _, _ := strings.Cut(after, "```")
	return strings.TrimSpace(body), true
}

// braceSpan takes the greedy span from the first '{' to the last '}'.
func braceSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
