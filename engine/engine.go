// Package engine ties the template packages together: a tag library with
// block inheritance, a cached loader, logging, metrics, and tracing.
package engine

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/rcrowley/go-metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DmitryKokorin/grantlee/inherit"
	"github.com/DmitryKokorin/grantlee/loader"
	"github.com/DmitryKokorin/grantlee/loadertags"
	"github.com/DmitryKokorin/grantlee/log"
	"github.com/DmitryKokorin/grantlee/pkg"
	"github.com/DmitryKokorin/grantlee/template"
)

// Metric names registered by an Engine.
const (
	MetricParse  = "engine.parse"
	MetricRender = "engine.render"
	MetricErrors = "engine.errors"
)

// Engine parses, loads, composes, and renders templates.
// It is safe for concurrent use.
type Engine struct {
	lib      *template.Library
	loader   *loader.Loader
	registry metrics.Registry
	tracer   trace.Tracer
	logger   log.Logger
	cfg      config
}

type config struct {
	provider   trace.TracerProvider
	registry   metrics.Registry
	logger     *log.Logger
	dirs       []string
	fsys       []fs.FS
	cacheSize  int
	maxSize    datasize.ByteSize
	autoescape bool
}

// Option configures an Engine.
type Option func(config) config

// WithDirs adds template directories to the search path.
func WithDirs(dirs ...string) Option {
	return func(c config) config {
		c.dirs = append(c.dirs, dirs...)

		return c
	}
}

// WithFS adds file systems searched after the directories.
func WithFS(fsys ...fs.FS) Option {
	return func(c config) config {
		c.fsys = append(c.fsys, fsys...)

		return c
	}
}

// WithCacheSize sets the number of parsed templates kept in memory.
func WithCacheSize(n int) Option {
	return func(c config) config {
		c.cacheSize = n

		return c
	}
}

// WithMaxSize limits the size of loaded template sources.
func WithMaxSize(size datasize.ByteSize) Option {
	return func(c config) config {
		c.maxSize = size

		return c
	}
}

// WithAutoescape controls HTML escaping of rendered variables.
func WithAutoescape(enable bool) Option {
	return func(c config) config {
		c.autoescape = enable

		return c
	}
}

// WithLogger sets the logger; the package-level default is used otherwise.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = &logger

		return c
	}
}

// WithMetrics records engine and loader metrics in r.
func WithMetrics(r metrics.Registry) Option {
	return func(c config) config {
		c.registry = r

		return c
	}
}

// WithTracerProvider sets the source of the engine tracer. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c config) config {
		c.provider = tp

		return c
	}
}

// New returns an Engine with the block tag registered.
func New(opts ...Option) (*Engine, error) {
	cfg := config{
		cacheSize:  loader.DefaultCacheSize,
		maxSize:    loader.DefaultMaxSize,
		autoescape: true,
	}

	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	logger := log.Default()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	registry := cfg.registry
	if registry == nil {
		registry = metrics.NewRegistry()
	}

	provider := cfg.provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	lib := template.NewLibrary()
	if err := loadertags.Register(lib); err != nil {
		return nil, err
	}

	ld, err := loader.New(lib,
		loader.WithDirs(cfg.dirs...),
		loader.WithFS(cfg.fsys...),
		loader.WithCacheSize(cfg.cacheSize),
		loader.WithMaxSize(cfg.maxSize),
		loader.WithLogger(logger),
		loader.WithMetrics(registry),
	)
	if err != nil {
		return nil, err
	}

	return &Engine{
		lib:      lib,
		loader:   ld,
		registry: registry,
		tracer:   provider.Tracer(pkg.Path, trace.WithInstrumentationVersion(pkg.Version)),
		logger:   logger,
		cfg:      cfg,
	}, nil
}

// Library returns the tag library templates are parsed with.
func (e *Engine) Library() *template.Library { return e.lib }

// Loader returns the template loader.
func (e *Engine) Loader() *loader.Loader { return e.loader }

// Metrics returns the metrics registry.
func (e *Engine) Metrics() metrics.Registry { return e.registry }

// Stats returns a snapshot of every registered metric.
func (e *Engine) Stats() map[string]map[string]any {
	return e.registry.GetAll()
}

// ParseString parses src as a template called name. The result is not
// cached.
func (e *Engine) ParseString(
	ctx context.Context,
	name, src string,
) (*template.Template, error) {
	ctx, span := e.tracer.Start(ctx, "parse",
		trace.WithAttributes(attribute.String("template", name)))
	defer span.End()

	start := time.Now()

	tmpl, err := template.Parse(name, src, e.lib,
		template.WithParserLogger(e.logger),
		template.WithParserContext(ctx))

	metrics.GetOrRegisterTimer(MetricParse, e.registry).UpdateSince(start)

	if err != nil {
		return nil, e.fail(ctx, span, err)
	}

	return tmpl, nil
}

// Load returns the parsed template called name from the search path.
func (e *Engine) Load(ctx context.Context, name string) (*template.Template, error) {
	ctx, span := e.tracer.Start(ctx, "load",
		trace.WithAttributes(attribute.String("template", name)))
	defer span.End()

	tmpl, err := e.loader.Load(ctx, name)
	if err != nil {
		return nil, e.fail(ctx, span, err)
	}

	return tmpl, nil
}

// Chain loads each named template and composes them, most derived first.
func (e *Engine) Chain(ctx context.Context, names ...string) (*template.Template, error) {
	chain := make([]*template.Template, 0, len(names))

	for _, name := range names {
		tmpl, err := e.Load(ctx, name)
		if err != nil {
			return nil, err
		}

		chain = append(chain, tmpl)
	}

	return inherit.Compose(chain...)
}

// Render renders tmpl against data.
func (e *Engine) Render(
	ctx context.Context,
	tmpl *template.Template,
	data map[string]any,
) (string, error) {
	ctx, span := e.tracer.Start(ctx, "render",
		trace.WithAttributes(attribute.String("template", tmpl.Name)))
	defer span.End()

	c := template.NewContext(ctx, data,
		template.WithAutoescape(e.cfg.autoescape),
		template.WithContextLogger(e.logger))

	start := time.Now()
	out, err := tmpl.Render(c)

	metrics.GetOrRegisterTimer(MetricRender, e.registry).UpdateSince(start)

	if err != nil {
		return "", e.fail(ctx, span, err)
	}

	span.SetAttributes(attribute.Int("bytes", len(out)))

	return out, nil
}

// RenderChain composes the named templates, most derived first, and
// renders the result against data.
func (e *Engine) RenderChain(
	ctx context.Context,
	data map[string]any,
	names ...string,
) (string, error) {
	tmpl, err := e.Chain(ctx, names...)
	if err != nil {
		return "", err
	}

	return e.Render(ctx, tmpl, data)
}

// fail records err on span and in metrics and logs it.
func (e *Engine) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	metrics.GetOrRegisterCounter(MetricErrors, e.registry).Inc(1)

	e.logger.DebugContext(ctx, "engine error", slog.Any("error", err))

	return err
}
