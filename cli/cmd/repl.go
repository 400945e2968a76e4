package cmd

import (
	"context"

	"github.com/DmitryKokorin/grantlee/cli/cmd/repl"
	"github.com/DmitryKokorin/grantlee/log"
)

// Repl renders typed template text interactively.
type Repl struct {
	Names   []string `arg:"" help:"Templates the typed text extends, most derived first" name:"name" optional:""`
	Data    []string `       help:"YAML file(s) providing the render context"                                       short:"D" type:"path"`
	History string   `       help:"History file"                                          default:"${history}"                type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	eng, err := engineFrom(ctx)
	if err != nil {
		return err
	}

	data, err := loadData(r.Data)
	if err != nil {
		return err
	}

	return repl.Run(ctx, eng, data, r.Names, r.History, log.Default())
}
