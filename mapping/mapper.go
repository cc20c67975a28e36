package mapping

import (
	"strings"
	"sync"

	"github.com/goliatone/go-socialconnect/core"
)

// Mapper maps response bodies wrapped in the {"meta": ..., "data": ...}
// envelope. A data object yields one record, a data array yields one record
// per element in order, and a null or missing data member yields none.
type Mapper struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewMapper registers schemas over the defaults; a schema reusing a default
// kind replaces it.
func NewMapper(schemas ...Schema) *Mapper {
	m := &Mapper{schemas: map[string]Schema{}}
	for _, schema := range DefaultSchemas() {
		m.schemas[schema.Kind] = schema
	}
	for _, schema := range schemas {
		m.Register(schema)
	}
	return m
}

func (m *Mapper) Register(schema Schema) {
	kind := strings.TrimSpace(schema.Kind)
	if kind == "" {
		return
	}
	m.mu.Lock()
	m.schemas[kind] = schema
	m.mu.Unlock()
}

func (m *Mapper) Schema(kind string) (Schema, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	schema, ok := m.schemas[strings.TrimSpace(kind)]
	return schema, ok
}

func (m *Mapper) Map(kind string, body []byte) ([]core.Record, error) {
	schema, ok := m.Schema(kind)
	if !ok {
		return nil, unknownKindError(kind)
	}
	root, err := Decode(body)
	if err != nil {
		return nil, malformedError(err, kind)
	}
	if schema.Kind == KindEmpty {
		return []core.Record{}, nil
	}

	object, ok := root.(map[string]any)
	if !ok {
		return nil, malformedError(nil, kind)
	}
	if schema.Root {
		return []core.Record{schema.Apply(object)}, nil
	}

	switch data := object["data"].(type) {
	case nil:
		return []core.Record{}, nil
	case map[string]any:
		return []core.Record{schema.Apply(data)}, nil
	case []any:
		records := make([]core.Record, 0, len(data))
		for _, item := range data {
			records = append(records, schema.Apply(item))
		}
		return records, nil
	default:
		return nil, malformedError(nil, kind)
	}
}

// ParseError extracts the provider error envelope. It reads meta.error_type,
// meta.code and meta.error_message, falling back to the same keys at the top
// level where OAuth endpoints report them. The data member is never
// inspected, so a broken payload does not hide the envelope.
func (m *Mapper) ParseError(statusCode int, body []byte) (*core.APIError, bool) {
	if len(body) == 0 {
		return nil, false
	}
	root, err := Decode(body)
	if err != nil {
		return nil, false
	}
	for _, prefix := range []string{"meta.", ""} {
		errorType := strings.TrimSpace(TextAt(root, prefix+"error_type"))
		if errorType == "" {
			continue
		}
		return &core.APIError{
			Type:       errorType,
			Code:       TextAt(root, prefix+"code"),
			Message:    TextAt(root, prefix+"error_message"),
			StatusCode: statusCode,
		}, true
	}
	return nil, false
}

var _ core.ResponseMapper = (*Mapper)(nil)
