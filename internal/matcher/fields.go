// file: internal/matcher/fields.go
// version: 1.0.0
// guid: 52e53880-64e6-4472-b044-069a603f5873

package matcher

import "strings"

// Record is the generic view of a caller's row: string keys mapping to
// scalars or nested records.
type Record = map[string]any

// FieldPath addresses a value inside a Record, one key per segment.
type FieldPath []string

// ParseFieldPath splits a dotted path such as "brand.name". Empty segments
// are dropped, so "" yields an empty path that never resolves.
func ParseFieldPath(s string) FieldPath {
	parts := strings.Split(s, ".")
	path := make(FieldPath, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		path = append(path, p)
	}
	return path
}

// ParseFieldPaths parses each dotted path in order.
func ParseFieldPaths(paths []string) []FieldPath {
	out := make([]FieldPath, 0, len(paths))
	for _, p := range paths {
		out = append(out, ParseFieldPath(p))
	}
	return out
}

func (p FieldPath) String() string {
	return strings.Join(p, ".")
}

// Resolve walks path through record. Missing keys, nil values and non-map
// intermediates all report absent; the terminal value is returned as is.
func Resolve(record Record, path FieldPath) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var current any = record
	for _, segment := range path {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func child(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		val, ok := m[key]
		return val, ok
	case map[string]string:
		val, ok := m[key]
		return val, ok
	default:
		return nil, false
	}
}
