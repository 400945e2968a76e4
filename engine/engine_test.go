package engine_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/rcrowley/go-metrics"

	"github.com/DmitryKokorin/grantlee/engine"
	"github.com/DmitryKokorin/grantlee/loader"
	"github.com/DmitryKokorin/grantlee/loadertags"
	"github.com/DmitryKokorin/grantlee/template"
)

var site = fstest.MapFS{
	"base.html": {Data: []byte(
		"<title>{% block title %}Site{% endblock %}</title>" +
			"{% block body %}{% endblock %}")},
	"section.html": {Data: []byte(
		"{% block title %}{{ section }} - {{ block.super }}{% endblock %}")},
	"page.html": {Data: []byte(
		"{% block title %}{{ page }} | {{ block.super }}{% endblock %}" +
			"{% block body %}<p>{{ text }}</p>{% endblock body %}")},
}

func newEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	t.Setenv(loader.EnvPath(), "")

	e, err := engine.New(append([]engine.Option{engine.WithFS(site)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return e
}

func TestEngine_RenderChain(t *testing.T) {
	e := newEngine(t)

	data := map[string]any{"section": "Docs", "page": "Intro", "text": "a<b"}

	tests := []struct {
		name  string
		chain []string
		want  string
	}{
		{
			name:  "base only",
			chain: []string{"base.html"},
			want:  "<title>Site</title>",
		},
		{
			name:  "two levels",
			chain: []string{"section.html", "base.html"},
			want:  "<title>Docs - Site</title>",
		},
		{
			name:  "three levels",
			chain: []string{"page.html", "section.html", "base.html"},
			want:  "<title>Intro | Docs - Site</title><p>a&lt;b</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.RenderChain(context.Background(), data, tt.chain...)
			if err != nil {
				t.Fatalf("RenderChain: %v", err)
			}
			if out != tt.want {
				t.Errorf("render = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEngine_ParseString_Autoescape(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct {
		escape bool
		want   string
	}{
		{true, "&lt;i&gt;"},
		{false, "<i>"},
	} {
		e := newEngine(t, engine.WithAutoescape(tt.escape))

		tmpl, err := e.ParseString(ctx, "inline", "{{ v }}")
		if err != nil {
			t.Fatal(err)
		}

		out, err := e.Render(ctx, tmpl, map[string]any{"v": "<i>"})
		if err != nil || out != tt.want {
			t.Errorf("autoescape=%v: render = %q, %v", tt.escape, out, err)
		}
	}
}

func TestEngine_Errors(t *testing.T) {
	r := metrics.NewRegistry()
	e := newEngine(t, engine.WithMetrics(r))
	ctx := context.Background()

	if _, err := e.RenderChain(ctx, nil, "page.html", "nope.html"); !errors.Is(err, loader.ErrNotFound) {
		t.Errorf("missing template: %v", err)
	}

	if _, err := e.ParseString(ctx, "bad", "{% block a b %}{% endblock %}"); !errors.Is(err, template.ErrTagSyntax) {
		t.Errorf("syntax error: %v", err)
	}

	if _, err := e.RenderChain(ctx, nil, "section.html"); !errors.Is(err, loadertags.ErrSuperWithoutAncestor) {
		t.Errorf("super without ancestor: %v", err)
	}

	if _, err := e.RenderChain(ctx, nil); err == nil {
		t.Error("empty chain rendered")
	}

	if n := metrics.GetOrRegisterCounter(engine.MetricErrors, r).Count(); n != 3 {
		t.Errorf("error count = %d, want 3", n)
	}
}

func TestEngine_Stats(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	for range 2 {
		if _, err := e.RenderChain(ctx, nil, "base.html"); err != nil {
			t.Fatal(err)
		}
	}

	stats := e.Stats()

	render, ok := stats[engine.MetricRender]
	if !ok {
		t.Fatalf("no %s metric in %v", engine.MetricRender, stats)
	}
	if render["count"] != int64(2) {
		t.Errorf("render count = %v, want 2", render["count"])
	}

	if hits := stats[loader.MetricCacheHit]; hits["count"] != int64(1) {
		t.Errorf("cache hits = %v, want 1", hits["count"])
	}
}
