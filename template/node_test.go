package template

import (
	"context"
	"errors"
	"testing"
)

var errAttr = NewError("attribute failed")

// lazyHandle counts attribute resolutions.
type lazyHandle struct {
	calls *int
}

func (h lazyHandle) Attr(name string) (Value, error) {
	*h.calls++

	switch name {
	case "safe":
		return Safe("<i>ok</i>"), nil
	case "fail":
		return Nil(), errAttr
	default:
		return String(name), nil
	}
}

func TestVariableNode_Render(t *testing.T) {
	data := map[string]any{
		"name": "<b>",
		"n":    3,
		"user": map[string]any{"first": "Ann", "tags": []any{"x", "y"}},
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"escaped", "{{ name }}", "&lt;b&gt;"},
		{"member", "{{ user.first }}", "Ann"},
		{"index member", `{{ user["first"] }}`, "Ann"},
		{"list index", "{{ user.tags[1] }}", "y"},
		{"missing", "{{ missing }}", ""},
		{"missing member", "{{ missing.deep.er }}", ""},
		{"arithmetic", "{{ n + 1 }}", "4"},
		{"concat", `{{ "a" + "b" }}`, "ab"},
		{"empty", "{{ }}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse("t", tt.src, NewLibrary())
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			if got := render(t, tmpl, data); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariableNode_Render_AutoescapeOff(t *testing.T) {
	tmpl, err := Parse("t", "{{ name }}", NewLibrary())
	if err != nil {
		t.Fatal(err)
	}

	c := NewContext(context.Background(),
		map[string]any{"name": "<b>"}, WithAutoescape(false))

	out, err := tmpl.Render(c)
	if err != nil || out != "<b>" {
		t.Errorf("render = %q, %v", out, err)
	}
}

func TestVariableNode_Render_HandleAttrs(t *testing.T) {
	calls := 0

	c := NewContext(context.Background(), nil)
	c.Push()
	c.Insert("h", HandleValue(lazyHandle{calls: &calls}))

	tests := []struct {
		src   string
		want  string
		calls int
	}{
		{"{{ h.safe }}", "<i>ok</i>", 1},
		{"{{ h.label }}", "label", 1},
		{"{{ false && h.safe }}", "false", 0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			calls = 0

			tmpl, err := Parse("t", tt.src, NewLibrary())
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			out, err := tmpl.Render(c)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if out != tt.want {
				t.Errorf("render = %q, want %q", out, tt.want)
			}
			if calls != tt.calls {
				t.Errorf("attribute resolved %d times, want %d", calls, tt.calls)
			}
		})
	}
}

func TestVariableNode_Render_HandleError(t *testing.T) {
	calls := 0

	c := NewContext(context.Background(), nil)
	c.Insert("h", HandleValue(lazyHandle{calls: &calls}))

	tmpl, err := Parse("t", "ab\n {{ h.fail }}", NewLibrary())
	if err != nil {
		t.Fatal(err)
	}

	out, err := tmpl.Render(c)
	if !errors.Is(err, errAttr) {
		t.Fatalf("error = %v, want attribute failure", err)
	}
	if out != "" {
		t.Errorf("partial output %q returned with error", out)
	}

	var ee *Error
	if errors.As(err, &ee) {
		if pos, ok := ee.Position(); !ok || pos.Line != 2 || pos.Column != 2 {
			t.Errorf("position = %v, want 2:2", pos)
		}
	}
}
