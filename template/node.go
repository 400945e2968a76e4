package template

import (
	"html"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Node is one renderable element of a parsed template.
type Node interface {
	Render(c *Context) (string, error)
}

// NodeList is an ordered sequence of nodes. Its output is the concatenation
// of each node's output.
type NodeList []Node

// Render renders each node in order, stopping at the first error.
func (l NodeList) Render(c *Context) (string, error) {
	var sb strings.Builder

	for _, n := range l {
		s, err := n.Render(c)
		if err != nil {
			return "", err
		}

		sb.WriteString(s)
	}

	return sb.String(), nil
}

// TextNode is literal template text.
type TextNode string

// Render returns the text unchanged.
func (n TextNode) Render(*Context) (string, error) { return string(n), nil }

// VariableNode outputs the result of a compiled expression.
type VariableNode struct {
	program *vm.Program
	source  string
	pos     Position
}

// NewVariableNode compiles source into a VariableNode located at pos.
func NewVariableNode(source string, pos Position) (*VariableNode, error) {
	n := &VariableNode{source: source, pos: pos}

	if source == "" {
		return n, nil
	}

	program, err := expr.Compile(source,
		expr.Patch(attrPatcher{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source)).
			WithPosition(pos)
	}

	n.program = program

	return n, nil
}

// Source returns the expression text.
func (n *VariableNode) Source() string { return n.source }

// Position returns where the variable appears in the template.
func (n *VariableNode) Position() Position { return n.pos }

// Render evaluates the expression against c. The result is HTML-escaped when
// autoescape is enabled, unless it is a [SafeString].
func (n *VariableNode) Render(c *Context) (string, error) {
	if n.program == nil {
		return "", nil
	}

	var attrErr error

	env := c.env()
	env[attrFunc] = func(x any, name string) any {
		v, err := attr(x, name)
		if err != nil && attrErr == nil {
			attrErr = err
		}

		return v
	}

	out, err := expr.Run(n.program, env)
	if attrErr != nil {
		return "", locate(attrErr, n.pos)
	}

	if err != nil {
		return "", ErrExprEvaluate.Wrap(err).
			With(slog.String("source", n.source)).
			WithPosition(n.pos)
	}

	v := ValueOf(out)

	c.logger.TraceContext(c.ctx, "variable",
		slog.String("source", n.source),
		slog.String("kind", v.Kind().String()))

	if v.Kind() == KindSafe || !c.autoescape {
		return v.String(), nil
	}

	return html.EscapeString(v.String()), nil
}
