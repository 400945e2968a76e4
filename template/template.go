package template

import (
	"log/slog"
)

// Template is a parsed template.
type Template struct {
	Name  string
	Nodes NodeList
}

// Parse parses src in a single parse pass.
func Parse(name, src string, lib *Library, opts ...ParserOption) (*Template, error) {
	p := NewParser(name, src, lib, opts...)

	nodes, err := p.ParseUntil()
	if err != nil {
		return nil, WrapError(err).With(slog.String("template", name))
	}

	p.logger.DebugContext(p.ctx, "template parsed",
		slog.String("template", name),
		slog.Int("nodes", len(nodes)),
		slog.Int("blocks", p.pass.Blocks.Len()))

	return &Template{Name: name, Nodes: nodes}, nil
}

// Render renders the template against c.
func (t *Template) Render(c *Context) (string, error) {
	out, err := t.Nodes.Render(c)
	if err != nil {
		return "", WrapError(err).With(slog.String("template", t.Name))
	}

	return out, nil
}
