package loadertags

import "github.com/DmitryKokorin/grantlee/template"

// Blocks returns the blocks declared in list, including those nested in
// block bodies, in document order. Ancestor definitions are not visited.
func Blocks(list template.NodeList) []*BlockNode {
	var out []*BlockNode

	for _, node := range list {
		if b, ok := node.(*BlockNode); ok {
			out = append(out, b)
			out = append(out, Blocks(b.body)...)
		}
	}

	return out
}
