// Package mapping turns provider JSON payloads into normalized core records.
//
// Each entity kind is described by a Schema: an ordered list of output fields,
// each bound to a dotted path inside the entity. Extraction never fails on a
// missing path; the field is emitted with an empty value instead. Numbers keep
// their literal text so counts, ids and coordinates reach callers as strings.
package mapping
