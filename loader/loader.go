// Package loader resolves template names to parsed templates from a search
// path of directories, caching parsed results.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ardnew/mung"
	"github.com/c2h5oh/datasize"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rcrowley/go-metrics"
	"github.com/sahilm/fuzzy"

	"github.com/DmitryKokorin/grantlee/log"
	"github.com/DmitryKokorin/grantlee/pkg"
	"github.com/DmitryKokorin/grantlee/template"
)

// Predefined errors (sentinel values).
var (
	ErrNotFound = template.NewError("template not found")
	ErrTooLarge = template.NewError("template source exceeds size limit")
	ErrRead     = template.NewError("failed to read template")
)

const (
	// DefaultCacheSize is the number of parsed templates kept by default.
	DefaultCacheSize = 128
	// DefaultMaxSize is the default limit on template source size.
	DefaultMaxSize = 1 * datasize.MB

	maxSuggestions = 3
)

// Metric names registered by a Loader.
const (
	MetricCacheHit  = "loader.cache.hit"
	MetricCacheMiss = "loader.cache.miss"
	MetricCacheSize = "loader.cache.size"
)

// EnvPath returns the environment variable holding additional template
// directories, separated by [os.PathListSeparator].
func EnvPath() string { return pkg.EnvPrefix() + "PATH" }

// SearchPath returns dirs followed by the directories listed in
// [EnvPath], keeping only those that exist.
func SearchPath(dirs ...string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(EnvPath())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	return slices.DeleteFunc(filepath.SplitList(joined),
		func(s string) bool { return s == "" || !isDir(s) })
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// Loader loads and parses templates by name. It is safe for concurrent use.
type Loader struct {
	cache    *lru.Cache
	lib      *template.Library
	registry metrics.Registry
	logger   log.Logger
	roots    []fs.FS
	dirs     []string
	maxSize  datasize.ByteSize
	size     int
}

// Option configures a Loader.
type Option func(*Loader)

// WithDirs searches the given directories, then those in [EnvPath].
func WithDirs(dirs ...string) Option {
	return func(l *Loader) {
		l.dirs = SearchPath(dirs...)
		for _, d := range l.dirs {
			l.roots = append(l.roots, os.DirFS(d))
		}
	}
}

// WithFS adds file systems to search after any directories.
func WithFS(fsys ...fs.FS) Option {
	return func(l *Loader) { l.roots = append(l.roots, fsys...) }
}

// WithCacheSize sets the number of parsed templates kept in memory.
func WithCacheSize(n int) Option {
	return func(l *Loader) { l.size = n }
}

// WithMaxSize limits the size of template sources.
func WithMaxSize(size datasize.ByteSize) Option {
	return func(l *Loader) { l.maxSize = size }
}

// WithLogger sets the loader logger.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithMetrics records cache statistics in r.
func WithMetrics(r metrics.Registry) Option {
	return func(l *Loader) { l.registry = r }
}

// New returns a Loader parsing with the tags in lib.
func New(lib *template.Library, opts ...Option) (*Loader, error) {
	l := &Loader{
		lib:      lib,
		logger:   log.Default(),
		registry: metrics.NewRegistry(),
		maxSize:  DefaultMaxSize,
		size:     DefaultCacheSize,
	}

	for _, opt := range opts {
		opt(l)
	}

	cache, err := lru.New(l.size)
	if err != nil {
		return nil, err
	}

	l.cache = cache

	metrics.NewRegisteredFunctionalGauge(MetricCacheSize, l.registry,
		func() int64 { return int64(l.cache.Len()) })

	return l, nil
}

// Dirs returns the directories on the search path.
func (l *Loader) Dirs() []string { return slices.Clone(l.dirs) }

// Load returns the parsed template called name, parsing it on first use.
func (l *Loader) Load(ctx context.Context, name string) (*template.Template, error) {
	if v, ok := l.cache.Get(name); ok {
		if tmpl, ok := v.(*template.Template); ok {
			metrics.GetOrRegisterCounter(MetricCacheHit, l.registry).Inc(1)

			return tmpl, nil
		}
	}

	metrics.GetOrRegisterCounter(MetricCacheMiss, l.registry).Inc(1)

	src, err := l.Source(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	tmpl, err := template.Parse(name, src, l.lib,
		template.WithParserLogger(l.logger),
		template.WithParserContext(ctx))
	if err != nil {
		return nil, err
	}

	l.cache.Add(name, tmpl)

	l.logger.DebugContext(ctx, "template loaded",
		slog.String("name", name),
		slog.Duration("parse", time.Since(start)))

	return tmpl, nil
}

// Source returns the source text of the first template called name on the
// search path.
func (l *Loader) Source(name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", ErrNotFound.With(slog.String("name", name))
	}

	for _, root := range l.roots {
		info, err := fs.Stat(root, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return "", ErrRead.Wrap(err).With(slog.String("name", name))
		}

		if info.IsDir() {
			continue
		}

		if datasize.ByteSize(info.Size()) > l.maxSize {
			return "", ErrTooLarge.With(
				slog.String("name", name),
				slog.String("size", datasize.ByteSize(info.Size()).HR()),
				slog.String("limit", l.maxSize.HR()),
			)
		}

		data, err := fs.ReadFile(root, name)
		if err != nil {
			return "", ErrRead.Wrap(err).With(slog.String("name", name))
		}

		return string(data), nil
	}

	return "", l.notFound(name)
}

// Names returns every file name on the search path, sorted.
func (l *Loader) Names() []string {
	var names []string

	for _, root := range l.roots {
		_ = fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.Type().IsRegular() {
				names = append(names, path)
			}

			return nil
		})
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// Purge drops every cached template.
func (l *Loader) Purge() { l.cache.Purge() }

func (l *Loader) notFound(name string) error {
	err := ErrNotFound.With(slog.String("name", name))

	matches := fuzzy.Find(name, l.Names())
	if len(matches) == 0 {
		return err
	}

	suggest := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggest) == maxSuggestions {
			break
		}

		suggest = append(suggest, m.Str)
	}

	return err.With(slog.Any("suggest", suggest))
}
