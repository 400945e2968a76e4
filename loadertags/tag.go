package loadertags

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/DmitryKokorin/grantlee/template"
)

// Tag keywords.
const (
	BlockTag = "block"
	EndTag   = "endblock"
)

var errArity = errors.New("block tag takes one argument")

// Register adds the block tag to lib.
func Register(lib *template.Library) error {
	return lib.Register(BlockTag, template.TagFunc(parseBlock))
}

// parseBlock parses "block <name>" and its body up to "endblock" or
// "endblock <name>".
func parseBlock(content string, p *template.Parser) (template.Node, error) {
	args := template.SmartSplit(content)
	if len(args) != 2 {
		return nil, template.ErrTagSyntax.Wrap(errArity).
			With(slog.Int("args", len(args)-1))
	}

	name := args[1]

	if !p.Pass().Blocks.Add(name) {
		return nil, template.ErrTagSyntax.
			Wrap(fmt.Errorf("%s appears more than once.", name)). //nolint:staticcheck
			With(slog.String("block", name))
	}

	body, err := p.ParseUntil(EndTag, EndTag+" "+name)
	if err != nil {
		return nil, err
	}

	p.Logger().TraceContext(p.Context(), "block parsed",
		slog.String("block", name),
		slog.String("end", p.Matched()),
		slog.Int("nodes", len(body)))

	return NewBlockNode(name, body), nil
}
