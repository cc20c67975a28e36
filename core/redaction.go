package core

import "strings"

const RedactedValue = "[REDACTED]"

// RedactSensitiveMap returns a copy of fields with credential bearing keys
// masked. Nested maps are walked.
func RedactSensitiveMap(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	target := make(map[string]any, len(fields))
	for key, value := range fields {
		if shouldRedactKey(key) {
			target[key] = RedactedValue
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			target[key] = RedactSensitiveMap(nested)
			continue
		}
		target[key] = value
	}
	return target
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "", "error_type", "error_code", "error_message", "error_text_code", "error_category", PropertyAuthorizationMode:
		return false
	case "code", PropertyRequestToken:
		return true
	}
	for _, token := range []string{"secret", "token", "password", "authorization", "credential"} {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}
