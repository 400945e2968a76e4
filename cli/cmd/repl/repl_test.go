package repl

import (
	"context"
	"io"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DmitryKokorin/grantlee/engine"
	"github.com/DmitryKokorin/grantlee/log"
	"github.com/DmitryKokorin/grantlee/template"
)

var testFiles = fstest.MapFS{
	"base.html": {Data: []byte("<title>{% block title %}Site{% endblock %}</title>")},
}

func newTestModel(t *testing.T, chain ...string) model {
	t.Helper()

	logger := log.Make(io.Discard)

	eng, err := engine.New(engine.WithFS(testFiles), engine.WithLogger(logger))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}

	ctx := context.Background()

	templates := make([]*template.Template, 0, len(chain))

	for _, name := range chain {
		tmpl, err := eng.Load(ctx, name)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", name, err)
		}

		templates = append(templates, tmpl)
	}

	data := map[string]any{
		"name": "Docs",
		"user": map[string]any{
			"address": map[string]any{"city": "Oslo"},
		},
	}

	return newModel(ctx, eng, templates, data, NewHistory(""), logger)
}

// typed returns m with input set to s, the cursor at its end, and
// completions refreshed.
func typed(m model, s string) model {
	m.input.SetValue(s)
	m.input.SetCursor(len(s))
	refreshMatches(&m, false)

	return m
}

func matchStrings(m model) []string {
	out := make([]string, 0, len(m.matches))
	for _, match := range m.matches {
		out = append(out, match.Str)
	}

	return out
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input      string
		cursor     int
		word       string
		start, end int
	}{
		{input: "{{ user.na", cursor: 10, word: "na", start: 8, end: 10},
		{input: "{{ name }}", cursor: 5, word: "name", start: 3, end: 7},
		{input: "{% block ti", cursor: 11, word: "ti", start: 9, end: 11},
		{input: "{{ ", cursor: 3, word: "", start: 3, end: 3},
		{input: "ab", cursor: 10, word: "ab", start: 0, end: 2},
	}

	for _, tt := range tests {
		word, start, end := wordBounds(tt.input, tt.cursor)
		if word != tt.word || start != tt.start || end != tt.end {
			t.Errorf("wordBounds(%q, %d) = %q, %d, %d; want %q, %d, %d",
				tt.input, tt.cursor, word, start, end, tt.word, tt.start, tt.end)
		}
	}
}

func TestMemberPath(t *testing.T) {
	tests := []struct {
		input string
		start int
		want  []string
	}{
		{input: "{{ user.address.ci", start: 16, want: []string{"user", "address"}},
		{input: "{{ block.su", start: 9, want: []string{"block"}},
		{input: "{{ na", start: 3, want: nil},
		{input: "{{ .x", start: 4, want: nil},
	}

	for _, tt := range tests {
		if got := memberPath(tt.input, tt.start); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("memberPath(%q, %d) = %q, want %q", tt.input, tt.start, got, tt.want)
		}
	}
}

func TestCompletions_Candidates(t *testing.T) {
	m := newTestModel(t, "base.html")

	tests := []struct {
		name string
		path []string
		want []string
	}{
		{name: "top level", path: nil, want: []string{"block", "endblock", "name", "title", "user"}},
		{name: "block handle", path: []string{"block"}, want: []string{"name", "super"}},
		{name: "map", path: []string{"user"}, want: []string{"address"}},
		{name: "nested map", path: []string{"user", "address"}, want: []string{"city"}},
		{name: "scalar", path: []string{"name"}, want: nil},
		{name: "unknown", path: []string{"nope", "x"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.complete.candidates(tt.path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("candidates(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestModel_ComputeMatches(t *testing.T) {
	m := newTestModel(t, "base.html")

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "command", input: ":qu", want: []string{"quit"}},
		{name: "command argument", input: ":set na", want: nil},
		{name: "empty word", input: "{{ ", want: nil},
		{name: "after dot lists members", input: "{{ user.", want: []string{"address"}},
		{name: "handle members", input: "{{ block.s", want: []string{"super"}},
		{name: "block name", input: "{% block tit", want: []string{"title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchStrings(typed(m, tt.input))
			if len(tt.want) == 0 {
				if len(got) != 0 {
					t.Errorf("matches = %q, want none", got)
				}

				return
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("matches = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_Cycle(t *testing.T) {
	m := typed(newTestModel(t, "base.html"), "{{ e")
	if len(m.matches) < 2 {
		t.Fatalf("matches = %q, want at least two", matchStrings(m))
	}

	m = m.cycle(1)
	if !m.tabActive || m.suggIdx != 0 {
		t.Fatalf("after Tab: tabActive=%v suggIdx=%d", m.tabActive, m.suggIdx)
	}

	if want := "{{ " + m.matches[0].Str; m.input.Value() != want {
		t.Errorf("input = %q, want %q", m.input.Value(), want)
	}

	m = m.cycle(-1)
	if last := len(m.matches) - 1; m.suggIdx != last {
		t.Errorf("after Shift-Tab suggIdx = %d, want %d", m.suggIdx, last)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.tabActive || m.input.Value() != "{{ e" {
		t.Errorf("after Esc: tabActive=%v input=%q", m.tabActive, m.input.Value())
	}
}

func TestModel_Cycle_SoleCandidate(t *testing.T) {
	m := typed(newTestModel(t, "base.html"), "{% block tit")

	m = m.cycle(1)
	if got := m.input.Value(); got != "{% block title" {
		t.Errorf("input = %q, want completed block name", got)
	}

	if m.tabActive || len(m.matches) != 0 {
		t.Errorf("tabActive=%v matches=%q, want completion closed", m.tabActive, matchStrings(m))
	}
}

func TestModel_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		chain   []string
		src     string
		want    string
		wantErr bool
	}{
		{name: "standalone", src: "Hello {{ name }}", want: "Hello Docs"},
		{name: "nested data", src: "{{ user.address.city }}", want: "Oslo"},
		{name: "extends chain", chain: []string{"base.html"}, src: "{% block title %}{{ name }}{% endblock %}", want: "<title>Docs</title>"},
		{name: "super", chain: []string{"base.html"}, src: "{% block title %}{{ block.super }}!{% endblock %}", want: "<title>Site!</title>"},
		{name: "no override", chain: []string{"base.html"}, src: "ignored", want: "<title>Site</title>"},
		{name: "unclosed", src: "{% block a %}", wantErr: true},
		{name: "super without ancestor", src: "{% block a %}{{ block.super }}{% endblock %}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestModel(t, tt.chain...).evaluate(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("evaluate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("evaluate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_ExecuteCommand_Set(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.executeCommand(nil, "set who World")

	if got := m.data["who"]; got != "World" {
		t.Fatalf("data[who] = %v, want World", got)
	}

	if !slices.Contains(m.complete.candidates(nil), "who") {
		t.Error("new key is not offered for completion")
	}

	got, err := m.evaluate("Hi {{ who }}")
	if err != nil || got != "Hi World" {
		t.Errorf("evaluate() = %q, %v", got, err)
	}
}

func TestModel_ListBlocks(t *testing.T) {
	if got := newTestModel(t, "base.html").listBlocks(); !strings.Contains(got, "title") {
		t.Errorf("listBlocks() = %q, want title", got)
	}

	if got := newTestModel(t).listBlocks(); !strings.Contains(got, "no blocks") {
		t.Errorf("listBlocks() = %q, want placeholder", got)
	}
}

func TestModel_HistoryMove(t *testing.T) {
	m := newTestModel(t)
	m.history = NewHistory(filepath.Join(t.TempDir(), "history"))

	for _, line := range []string{"one", "two"} {
		if err := m.history.Write(line); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		dir  int
		want string
	}{
		{dir: -1, want: "two"},
		{dir: -1, want: "one"},
		{dir: -1, want: "one"},
		{dir: 1, want: "two"},
		{dir: 1, want: ""},
	}

	for i, s := range steps {
		m = m.historyMove(s.dir)
		if got := m.input.Value(); got != s.want {
			t.Fatalf("step %d: input = %q, want %q", i, got, s.want)
		}
	}
}
