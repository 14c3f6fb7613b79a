package survey

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LoadEvent describes one Loader.Load call.
type LoadEvent struct {
	Path     string
	CacheHit bool
	Rows     int
	Duration time.Duration
	Err      error
}

// LoadObserver is notified after every Load.
type LoadObserver func(LoadEvent)

// Option configures a Loader.
type Option func(*Loader)

// WithPipeline replaces the default cleaning steps.
func WithPipeline(steps ...Step) Option {
	return func(l *Loader) { l.steps = steps }
}

// WithObserver registers a load observer.
func WithObserver(o LoadObserver) Option {
	return func(l *Loader) { l.observe = o }
}

// WithLogger sets the logger used for cache and watch diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// Loader builds canonical tables and memoizes them by source identity
// (absolute path, size and modification time). It is safe for concurrent use.
type Loader struct {
	steps   []Step
	observe LoadObserver
	log     *slog.Logger

	mu    sync.Mutex
	cache map[string]*Table
}

// NewLoader constructs a Loader with an empty cache.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		steps: DefaultPipeline(),
		log:   slog.New(slog.DiscardHandler),
		cache: make(map[string]*Table),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load reads and cleans the CSV at path once per distinct source identity.
func Load(path string) (*Table, error) {
	return NewLoader().Load(path)
}

// Load returns the cached table for path while the file is unchanged and
// rebuilds it otherwise.
func (l *Loader) Load(path string) (*Table, error) {
	start := time.Now()
	t, hit, err := l.load(path)
	if l.observe != nil {
		ev := LoadEvent{Path: path, CacheHit: hit, Duration: time.Since(start), Err: err}
		if t != nil {
			ev.Rows = t.Len()
		}
		l.observe(ev)
	}
	return t, err
}

func (l *Loader) load(path string) (*Table, bool, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, &NotFoundError{Path: path, Err: err}
		}
		return nil, false, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return nil, false, fmt.Errorf("source %s is a directory", path)
	}
	src := sourceOf(key, info)

	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.cache[key]; ok && t.source.Same(src) {
		return t, true, nil
	}

	f, err := os.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, &NotFoundError{Path: path, Err: err}
		}
		return nil, false, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	t, err := build(f, src, l.steps)
	if err != nil {
		delete(l.cache, key)
		return nil, false, err
	}
	l.cache[key] = t
	l.log.Debug("survey table built", "path", key, "rows", t.Len(), "id", t.ID())
	return t, false, nil
}

// Invalidate drops the cached table for path, if any.
func (l *Loader) Invalidate(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
}

// Reset empties the cache.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.cache = make(map[string]*Table)
	l.mu.Unlock()
}

// Cached reports whether a table for path is currently cached.
func (l *Loader) Cached(path string) bool {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[key]
	return ok
}

// Build cleans survey data read from r with the default pipeline. src only
// labels the result.
func Build(r io.Reader, src Source) (*Table, error) {
	return build(r, src, DefaultPipeline())
}

func build(r io.Reader, src Source, steps []Step) (*Table, error) {
	f, err := readFrame(r)
	if err != nil {
		return nil, err
	}
	if err := f.checkSchema(RequiredColumns); err != nil {
		return nil, err
	}
	f, err = runPipeline(f, steps)
	if err != nil {
		return nil, err
	}
	if !f.agesSet || len(f.ages) != len(f.rows) {
		return nil, errors.New("pipeline did not finalize the age column")
	}
	return newTable(f, src), nil
}
