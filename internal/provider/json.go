package provider

import "strings"

// StripFences removes a markdown code fence wrapping a JSON payload. Upstream
// model output is not guaranteed to omit fences even when a JSON MIME type was
// requested.
func StripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if idx := strings.Index(t, "\n"); idx >= 0 {
		t = t[idx+1:]
	} else {
		t = strings.TrimPrefix(t, "```json")
		t = strings.TrimPrefix(t, "```")
	}
	if strings.HasSuffix(strings.TrimSpace(t), "```") {
		t = strings.TrimSpace(t)
		t = t[:strings.LastIndex(t, "```")]
	}
	return strings.TrimSpace(t)
}

// ExtractJSON finds the first balanced JSON object in a response. Fallback for
// backends that pad the payload with prose despite instructions.
func ExtractJSON(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
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
				return response[start : i+1]
			}
		}
	}
	return ""
}
