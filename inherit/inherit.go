// Package inherit composes an explicit chain of parsed templates into a
// single renderable template using block overrides.
//
// The caller decides which templates take part and in what order; this
// package never discovers parents on its own.
package inherit

import (
	"log/slog"
	"slices"

	"github.com/DmitryKokorin/grantlee/loadertags"
	"github.com/DmitryKokorin/grantlee/template"
)

// Predefined errors (sentinel values).
var (
	ErrEmptyChain  = template.NewError("empty inheritance chain")
	ErrNilTemplate = template.NewError("nil template in inheritance chain")
)

// Compose returns a template with the structure of the last template in
// chain (the base) in which every block renders the most derived definition
// of that name, linked through [loadertags.BlockNode.AddParent] to each less
// derived definition in chain order.
//
// Chain is ordered most derived first. Content outside blocks is taken from
// the base only. Blocks nested inside overriding definitions are resolved
// the same way, so a block introduced by an intermediate template may be
// overridden by a more derived one.
//
// The templates in chain are not modified and may be composed again.
func Compose(chain ...*template.Template) (*template.Template, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	c := &composer{defs: make(map[string][]*loadertags.BlockNode)}

	for i, t := range chain {
		if t == nil {
			return nil, ErrNilTemplate.With(slog.Int("index", i))
		}

		for _, b := range loadertags.Blocks(t.Nodes) {
			c.defs[b.Name()] = append(c.defs[b.Name()], b)
		}
	}

	base := chain[len(chain)-1]

	return &template.Template{
		Name:  base.Name,
		Nodes: c.list(base.Nodes, nil),
	}, nil
}

// composer holds every definition of each block name, most derived first.
type composer struct {
	defs map[string][]*loadertags.BlockNode
}

// list copies nodes, replacing each block with its composed chain. A block
// whose name is already being composed further up is kept as is.
func (c *composer) list(nodes template.NodeList, active []string) template.NodeList {
	out := make(template.NodeList, len(nodes))

	for i, n := range nodes {
		b, ok := n.(*loadertags.BlockNode)
		if !ok || slices.Contains(active, b.Name()) {
			out[i] = n

			continue
		}

		out[i] = c.block(b.Name(), append(active[:len(active):len(active)], b.Name()))
	}

	return out
}

func (c *composer) block(name string, active []string) *loadertags.BlockNode {
	defs := c.defs[name]

	head := loadertags.NewBlockNode(name, c.list(defs[0].Body(), active))
	for _, d := range defs[1:] {
		head.AddParent(c.list(d.Body(), active))
	}

	return head
}
