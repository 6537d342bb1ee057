// file: internal/dataset/store.go
// version: 1.1.0
// guid: 295e4828-d66e-448b-b21d-6f872d282ceb

// Package dataset keeps named record collections in memory so repeated
// searches do not have to resend them.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jdfalk/dashboard-search/internal/cache"
	"github.com/jdfalk/dashboard-search/internal/matcher"
	"github.com/jdfalk/dashboard-search/internal/metrics"
	"github.com/jdfalk/dashboard-search/internal/records"
	"go.uber.org/zap"
)

var (
	ErrInvalidName    = errors.New("invalid dataset name")
	ErrTooManyRecords = errors.New("dataset exceeds record limit")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// Action describes a change to the store.
type Action string

const (
	ActionLoaded  Action = "loaded"
	ActionRemoved Action = "removed"
)

// Notifier is told about every dataset change.
type Notifier interface {
	DatasetChanged(name string, action Action, size int)
}

// Dataset is a named, immutable record collection.
type Dataset struct {
	Name     string
	Records  []matcher.Record
	Source   string // file path, or "api" for uploads
	LoadedAt time.Time
}

// Summary describes a dataset without its records.
type Summary struct {
	Name     string    `json:"name"`
	Size     int       `json:"size"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Store holds datasets in a TTL cache.
type Store struct {
	items      *cache.Cache[*Dataset]
	maxRecords int
	log        *zap.Logger
	notifier   Notifier
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithNotifier registers a change listener.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithMaxRecords caps dataset size; 0 means unlimited.
func WithMaxRecords(n int) Option {
	return func(s *Store) { s.maxRecords = n }
}

// NewStore creates a store whose datasets expire after ttl (0 = never).
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		items: cache.New[*Dataset](ttl),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxRecords returns the per-dataset record cap; 0 means unlimited.
func (s *Store) MaxRecords() int {
	return s.maxRecords
}

// ValidName reports whether name can be used as a dataset name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// NameFromPath derives a dataset name from its file name.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Put stores records under name, replacing any previous dataset. The
// dataset expires after the store TTL.
func (s *Store) Put(name string, recs []matcher.Record, source string) (*Dataset, error) {
	return s.put(name, recs, source, false)
}

// put stores a dataset; pinned datasets never expire.
func (s *Store) put(name string, recs []matcher.Record, source string, pinned bool) (*Dataset, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if s.maxRecords > 0 && len(recs) > s.maxRecords {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyRecords, len(recs), s.maxRecords)
	}
	if recs == nil {
		recs = []matcher.Record{}
	}
	ds := &Dataset{Name: name, Records: recs, Source: source, LoadedAt: time.Now()}
	if pinned {
		s.items.SetWithTTL(name, ds, 0)
	} else {
		s.items.Set(name, ds)
	}
	s.changed(name, ActionLoaded, len(recs))
	s.log.Info("dataset stored", zap.String("dataset", name), zap.Int("records", len(recs)), zap.String("source", source))
	return ds, nil
}

// Get returns a live dataset.
func (s *Store) Get(name string) (*Dataset, bool) {
	return s.items.Get(name)
}

// Delete removes a dataset and reports whether it existed.
func (s *Store) Delete(name string) bool {
	if !s.items.Invalidate(name) {
		return false
	}
	s.changed(name, ActionRemoved, 0)
	s.log.Info("dataset removed", zap.String("dataset", name))
	return true
}

// Clear drops every dataset, pinned ones included, and returns how many
// were live. A later Sync or LoadDir brings file datasets back.
func (s *Store) Clear() int {
	names := s.items.InvalidateAll()
	for _, name := range names {
		s.changed(name, ActionRemoved, 0)
	}
	s.log.Info("datasets cleared", zap.Int("count", len(names)))
	return len(names)
}

// List summarizes live datasets sorted by name.
func (s *Store) List() []Summary {
	s.items.Purge()
	names := s.items.Keys()
	out := make([]Summary, 0, len(names))
	for _, name := range names {
		ds, ok := s.items.Get(name)
		if !ok {
			continue
		}
		out = append(out, Summary{Name: ds.Name, Size: len(ds.Records), Source: ds.Source, LoadedAt: ds.LoadedAt})
	}
	return out
}

// Len counts live datasets.
func (s *Store) Len() int {
	return s.items.Len()
}

// LoadFile reads a dataset file and stores it under its base name. File
// datasets do not expire; the watcher keeps them current.
func (s *Store) LoadFile(path string) (*Dataset, error) {
	recs, err := records.Load(path, s.maxRecords)
	if err != nil {
		metrics.IncDatasetReload(false)
		return nil, err
	}
	ds, err := s.put(NameFromPath(path), recs, path, true)
	metrics.IncDatasetReload(err == nil)
	return ds, err
}

// LoadDir loads every dataset file directly inside dir. Files that fail are
// skipped and their errors joined into the returned error.
func (s *Store) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dataset dir: %w", err)
	}
	loaded := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !records.IsDatasetFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, err := s.LoadFile(path); err != nil {
			s.log.Warn("dataset load failed", zap.String("path", path), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// Sync brings the store in line with changed files: present files are
// (re)loaded, missing ones drop their dataset.
func (s *Store) Sync(paths []string) {
	for _, path := range paths {
		if !records.IsDatasetFile(path) {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			s.Delete(NameFromPath(path))
			continue
		}
		if _, err := s.LoadFile(path); err != nil {
			s.log.Warn("dataset reload failed", zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *Store) changed(name string, action Action, size int) {
	metrics.SetDatasets(s.items.Len())
	if s.notifier != nil {
		s.notifier.DatasetChanged(name, action, size)
	}
}
