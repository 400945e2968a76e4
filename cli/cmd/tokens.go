package cmd

import (
	"context"

	"github.com/DmitryKokorin/grantlee/template"
)

// Tokens prints the lexer's token stream for a template as YAML.
type Tokens struct {
	Name string `arg:"" help:"Template name" name:"name"`
	Text bool   `       help:"Include text tokens"  default:"true" negatable:""`
}

type tokenEntry struct {
	Pos     string `yaml:"pos"`
	Kind    string `yaml:"kind"`
	Content string `yaml:"content"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	eng, err := engineFrom(ctx)
	if err != nil {
		return err
	}

	src, err := eng.Loader().Source(t.Name)
	if err != nil {
		return err
	}

	return writeYAML(ctx, stdout(ctx), tokenList(template.Lex(src), t.Text))
}

func tokenList(tokens []template.Token, text bool) []tokenEntry {
	out := make([]tokenEntry, 0, len(tokens))

	for _, tok := range tokens {
		if !text && tok.Kind == template.TokenText {
			continue
		}

		out = append(out, tokenEntry{
			Pos:     tok.Pos.String(),
			Kind:    tok.Kind.String(),
			Content: tok.Content,
		})
	}

	return out
}
