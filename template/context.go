package template

import (
	"context"
	"log/slog"

	"github.com/DmitryKokorin/grantlee/log"
)

// Context is the render-time variable scope stack.
//
// Scopes are pushed and popped in LIFO order; [Context.Lookup] searches from
// the innermost scope outward. The base scope, created by [NewContext],
// holds the caller's data and is never popped. A Context is not safe for
// concurrent use.
type Context struct {
	ctx        context.Context
	logger     log.Logger
	scopes     []map[string]Value
	autoescape bool
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithAutoescape controls HTML escaping of non-safe output (default on).
func WithAutoescape(enable bool) ContextOption {
	return func(c *Context) { c.autoescape = enable }
}

// WithContextLogger sets the logger used while rendering.
func WithContextLogger(logger log.Logger) ContextOption {
	return func(c *Context) { c.logger = logger }
}

// NewContext returns a Context whose base scope holds data.
func NewContext(
	ctx context.Context,
	data map[string]any,
	opts ...ContextOption,
) *Context {
	if ctx == nil {
		ctx = context.Background()
	}

	base := make(map[string]Value, len(data))
	for k, v := range data {
		base[k] = ValueOf(v)
	}

	c := &Context{
		ctx:        ctx,
		logger:     log.Default(),
		scopes:     []map[string]Value{base},
		autoescape: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Context returns the [context.Context] the render runs under.
func (c *Context) Context() context.Context { return c.ctx }

// Logger returns the render logger.
func (c *Context) Logger() log.Logger { return c.logger }

// Autoescape reports whether non-safe output is HTML-escaped.
func (c *Context) Autoescape() bool { return c.autoescape }

// Depth returns the number of scopes, including the base scope.
func (c *Context) Depth() int { return len(c.scopes) }

// Push opens a new innermost scope.
func (c *Context) Push() {
	c.scopes = append(c.scopes, make(map[string]Value))
	c.logger.TraceContext(c.ctx, "scope push", slog.Int("depth", len(c.scopes)))
}

// Pop discards the innermost scope. The base scope is never popped.
func (c *Context) Pop() {
	if len(c.scopes) <= 1 {
		c.logger.WarnContext(c.ctx, "scope pop at base scope ignored")

		return
	}

	c.scopes[len(c.scopes)-1] = nil
	c.scopes = c.scopes[:len(c.scopes)-1]
	c.logger.TraceContext(c.ctx, "scope pop", slog.Int("depth", len(c.scopes)))
}

// Insert binds name to v in the innermost scope.
func (c *Context) Insert(name string, v Value) {
	c.scopes[len(c.scopes)-1][name] = v
}

// Lookup returns the innermost binding of name.
func (c *Context) Lookup(name string) (Value, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// Names returns every bound name, innermost bindings shadowing outer ones.
func (c *Context) Names() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for i := len(c.scopes) - 1; i >= 0; i-- {
		for name := range c.scopes[i] {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}

	return names
}

// env flattens the scope stack into an expression environment.
func (c *Context) env() map[string]any {
	env := make(map[string]any)

	for _, scope := range c.scopes {
		for name, v := range scope {
			env[name] = v.Native()
		}
	}

	return env
}
