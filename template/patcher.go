package template

import (
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm/runtime"
)

// attrFunc is the environment function member access is rewritten to.
const attrFunc = "__attr"

// attrPatcher rewrites member access "x.name" (and "x['name']") into the
// call attrFunc(x, "name").
//
// The rewrite lets a [Handle] compute attributes on demand, so an attribute
// such as block.super is only rendered when the expression reaches it, and
// makes access on missing values yield nil instead of a runtime error.
type attrPatcher struct{}

// Visit implements ast.Visitor for attrPatcher.
func (attrPatcher) Visit(node *ast.Node) {
	member, ok := (*node).(*ast.MemberNode)
	if !ok || member.Method {
		return
	}

	prop, ok := member.Property.(*ast.StringNode)
	if !ok {
		return
	}

	ast.Patch(node, &ast.CallNode{
		Callee: &ast.IdentifierNode{Value: attrFunc},
		Arguments: []ast.Node{
			member.Node,
			&ast.StringNode{Value: prop.Value},
		},
	})
}

// attr resolves attribute name of x.
func attr(x any, name string) (any, error) {
	switch o := x.(type) {
	case nil:
		return nil, nil

	case Handle:
		v, err := o.Attr(name)
		if err != nil {
			return nil, err
		}

		return v.Native(), nil

	case map[string]any:
		return o[name], nil

	default:
		return fetch(o, name), nil
	}
}

// fetch reads a field or key with the expression runtime, yielding nil when
// x has no such member.
func fetch(x any, name string) (v any) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()

	return runtime.Fetch(x, name)
}
