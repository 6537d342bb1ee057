// file: internal/records/records.go
// version: 1.0.0
// guid: f4c41c27-0b06-4a66-b97a-72cb6459ed84

// Package records turns dataset files and typed values into the generic
// record view the matcher walks.
package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdfalk/dashboard-search/internal/matcher"
	"gopkg.in/yaml.v3"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrNotObject         = errors.New("dataset element is not an object")
	ErrTooManyRecords    = errors.New("dataset exceeds record limit")
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// IsDatasetFile reports whether path has a loadable extension.
func IsDatasetFile(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// Load reads every record from a dataset file. maxRecords <= 0 means no limit.
func Load(path string, maxRecords int) ([]matcher.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	recs, err := Decode(f, format, maxRecords)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return recs, nil
}

// Decode reads records in the given format from r.
func Decode(r io.Reader, format Format, maxRecords int) ([]matcher.Record, error) {
	var (
		recs []matcher.Record
		err  error
	)
	switch format {
	case FormatJSON:
		recs, err = decodeJSON(r)
	case FormatJSONL:
		recs, err = decodeJSONLines(r, maxRecords)
	case FormatYAML:
		recs, err = decodeYAML(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if maxRecords > 0 && len(recs) > maxRecords {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyRecords, len(recs), maxRecords)
	}
	return recs, nil
}

func decodeJSON(r io.Reader) ([]matcher.Record, error) {
	var items []any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return toRecords(items)
}

func decodeJSONLines(r io.Reader, maxRecords int) ([]matcher.Record, error) {
	var recs []matcher.Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var item any
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("line %d: decode json: %w", line, err)
		}
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("line %d: %w", line, ErrNotObject)
		}
		recs = append(recs, rec)
		if maxRecords > 0 && len(recs) > maxRecords {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManyRecords, maxRecords)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return recs, nil
}

func decodeYAML(r io.Reader) ([]matcher.Record, error) {
	var items []any
	if err := yaml.NewDecoder(r).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return []matcher.Record{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	for i := range items {
		items[i] = normalizeYAML(items[i])
	}
	return toRecords(items)
}

// normalizeYAML rewrites map[any]any nodes (non-string keys) into
// map[string]any so paths can walk them.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i := range t {
			t[i] = normalizeYAML(t[i])
		}
		return t
	default:
		return v
	}
}

func toRecords(items []any) ([]matcher.Record, error) {
	recs := make([]matcher.Record, 0, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d: %w", i, ErrNotObject)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// FromStruct converts a typed value into a record through its JSON form,
// so json tags decide the field names.
func FromStruct(v any) (matcher.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var rec matcher.Record
	if err := json.Unmarshal(data, &rec); err != nil || rec == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotObject, v)
	}
	return rec, nil
}

// FromSlice converts each element with FromStruct.
func FromSlice[T any](items []T) ([]matcher.Record, error) {
	recs := make([]matcher.Record, 0, len(items))
	for i, item := range items {
		rec, err := FromStruct(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
