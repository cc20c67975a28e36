package mapping

import (
	"strings"

	"github.com/goliatone/go-socialconnect/core"
)

// Field binds one output key to a dotted path inside an entity. When Items is
// set the path must point at an array and the field becomes a sub-list of
// records mapped with Items.
type Field struct {
	Name  string
	Path  string
	Items *Schema
}

// Schema is the fixed, ordered field set of one entity kind. Root schemas map
// the whole response body instead of its data member.
type Schema struct {
	Kind   string
	Root   bool
	Fields []Field
}

func Scalar(name string, path string) Field {
	return Field{Name: name, Path: path}
}

func List(name string, path string, items Schema) Field {
	return Field{Name: name, Path: path, Items: &items}
}

// Prefixed builds scalar fields named prefix+suffix for each suffix/path pair,
// a shorthand for the entity-prefixed field names every schema uses.
func Prefixed(prefix string, pathPrefix string, pairs ...string) []Field {
	fields := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		path := pairs[i+1]
		if pathPrefix != "" {
			path = strings.TrimSuffix(pathPrefix, ".") + "." + path
		}
		fields = append(fields, Scalar(prefix+pairs[i], path))
	}
	return fields
}

func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		keys = append(keys, field.Name)
	}
	return keys
}

// Apply maps entity to a record holding every schema field. Missing paths and
// non-object entities produce empty values, never missing keys.
func (s Schema) Apply(entity any) core.Record {
	record := core.NewRecord(len(s.Fields))
	for _, field := range s.Fields {
		if field.Items == nil {
			record.Set(field.Name, TextAt(entity, field.Path))
			continue
		}
		record.SetList(field.Name, field.Items.applyList(entity, field.Path))
	}
	return record
}

func (s Schema) applyList(entity any, path string) []core.Record {
	value, ok := Lookup(entity, path)
	if !ok {
		return []core.Record{}
	}
	items, ok := value.([]any)
	if !ok {
		return []core.Record{}
	}
	records := make([]core.Record, 0, len(items))
	for _, item := range items {
		records = append(records, s.Apply(item))
	}
	return records
}
