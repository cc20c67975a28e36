package mapping

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// Decode parses body into generic JSON values, keeping numbers as json.Number.
func Decode(body []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return value, nil
}

// Lookup walks a dotted path through nested objects. An empty path returns
// root itself.
func Lookup(root any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return root, root != nil
	}
	current := root
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		asMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, exists := asMap[part]
		if !exists {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Text renders a scalar as the string a record field carries. Null and
// missing values are empty; objects and arrays are kept as compact JSON.
func Text(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		if typed {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// TextAt is Lookup followed by Text.
func TextAt(root any, path string) string {
	value, ok := Lookup(root, path)
	if !ok {
		return ""
	}
	return Text(value)
}
