package utils

import "strings"

// StripFence returns the body of a markdown code fence wrapping s, or s
// trimmed when there is none.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := s[3:]
	// Drop the info string ("json", "text", ...).
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// CleanJSON extracts the JSON value from a model reply: it strips a code
// fence and any prose before the first brace or bracket and after the
// matching last one.
func CleanJSON(s string) string {
	s = StripFence(s)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}
