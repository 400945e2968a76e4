package cmd

import (
	"context"

	"github.com/DmitryKokorin/grantlee/loadertags"
	"github.com/DmitryKokorin/grantlee/template"
)

// Blocks prints the blocks of a composed inheritance chain as YAML.
type Blocks struct {
	Names []string `arg:"" help:"Template names, most derived first" name:"name"`
}

// blockEntry is one block in the printed tree. Definitions counts the
// templates in the chain that define the block.
type blockEntry struct {
	Name        string       `yaml:"name"`
	Definitions int          `yaml:"definitions"`
	Blocks      []blockEntry `yaml:"blocks,omitempty"`
}

// Run executes the blocks command.
func (b *Blocks) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	eng, err := engineFrom(ctx)
	if err != nil {
		return err
	}

	tmpl, err := eng.Chain(ctx, b.Names...)
	if err != nil {
		return err
	}

	return writeYAML(ctx, stdout(ctx), blockTree(tmpl.Nodes))
}

// blockTree returns the blocks of list with their nested blocks.
func blockTree(list template.NodeList) []blockEntry {
	var out []blockEntry

	for _, node := range list {
		if n, ok := node.(*loadertags.BlockNode); ok {
			out = append(out, blockEntry{
				Name:        n.Name(),
				Definitions: n.Depth() + 1,
				Blocks:      blockTree(n.Body()),
			})
		}
	}

	return out
}
