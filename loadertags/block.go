package loadertags

import (
	"log/slog"

	"github.com/DmitryKokorin/grantlee/template"
)

// Predefined errors (sentinel values).
var (
	ErrSuperWithoutAncestor = template.NewError("super called on block without ancestor")
	ErrCycle                = template.NewError("block parent chain would form a cycle")
)

// HandleName is the scope binding a rendering block exposes to its body.
const HandleName = "block"

// BlockNode is one definition of a named block, optionally linked to the
// definition it overrides.
//
// The body is never modified after parsing. A BlockNode holds no
// render-time state, so one node may be rendered concurrently against
// distinct contexts.
type BlockNode struct {
	parent *BlockNode
	name   string
	body   template.NodeList
}

// NewBlockNode returns a block named name with the given body.
func NewBlockNode(name string, body template.NodeList) *BlockNode {
	if body == nil {
		body = template.NodeList{}
	}

	return &BlockNode{name: name, body: body}
}

// Name returns the block name.
func (n *BlockNode) Name() string { return n.name }

// Body returns the block's own content, excluding ancestors.
func (n *BlockNode) Body() template.NodeList { return n.body }

// Parent returns the definition n overrides, or nil.
func (n *BlockNode) Parent() *BlockNode { return n.parent }

// Depth returns the number of ancestors linked behind n.
func (n *BlockNode) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}

	return depth
}

// AddParent appends a definition with the given body at the far end of the
// chain, making it the most distant ancestor of n.
func (n *BlockNode) AddParent(body template.NodeList) {
	tail := n
	for tail.parent != nil {
		tail = tail.parent
	}

	tail.parent = NewBlockNode(n.name, body)
}

// SetParent links p directly behind n, replacing any existing ancestors.
// A nil p unlinks them. It fails with [ErrCycle] if n is p or one of p's
// ancestors.
func (n *BlockNode) SetParent(p *BlockNode) error {
	for q := p; q != nil; q = q.parent {
		if q == n {
			return ErrCycle.With(slog.String("block", n.name))
		}
	}

	n.parent = p

	return nil
}

// Render renders the body in a new scope binding [HandleName] to n.
// The scope is popped on every exit path.
func (n *BlockNode) Render(c *template.Context) (string, error) {
	c.Push()
	defer c.Pop()

	c.Insert(HandleName, template.HandleValue(&handle{node: n, ctx: c}))

	c.Logger().TraceContext(c.Context(), "render block",
		slog.String("block", n.name),
		slog.Int("ancestors", n.Depth()))

	return n.body.Render(c)
}

// Super renders the definition n overrides against c. The result has
// already been escaped by its own rendering and is returned as safe text.
func (n *BlockNode) Super(c *template.Context) (template.SafeString, error) {
	if n.parent == nil {
		return "", ErrSuperWithoutAncestor.With(slog.String("block", n.name))
	}

	s, err := n.parent.Render(c)
	if err != nil {
		return "", err
	}

	return template.SafeString(s), nil
}

// handle is the value bound to [HandleName] while a block renders. It
// carries the rendering context so super renders the ancestor in the same
// scope stack.
type handle struct {
	node *BlockNode
	ctx  *template.Context
}

// Attr resolves block.name and block.super.
func (h *handle) Attr(name string) (template.Value, error) {
	switch name {
	case "name":
		return template.String(h.node.name), nil

	case "super":
		s, err := h.node.Super(h.ctx)
		if err != nil {
			return template.Nil(), err
		}

		return template.Safe(s), nil

	default:
		return template.Nil(), nil
	}
}

// String returns the block name.
func (h *handle) String() string { return h.node.name }
