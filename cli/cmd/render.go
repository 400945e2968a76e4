package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/DmitryKokorin/grantlee/log"
)

// Render renders an inheritance chain of templates to standard output.
type Render struct {
	Names []string `arg:"" help:"Template names, most derived first" name:"name"`
	Data  []string `       help:"YAML file(s) providing the render context, '-' for stdin" short:"D" type:"path"`
	Stats bool     `       help:"Print engine metrics as YAML after rendering"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
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

	log.DebugContext(ctx, "render",
		slog.Any("chain", r.Names),
		slog.Int("data_keys", len(data)),
	)

	out, err := eng.RenderChain(ctx, data, r.Names...)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	if _, err := io.WriteString(w, out); err != nil {
		return ErrWrite.Wrap(err)
	}

	if r.Stats {
		return writeYAML(ctx, w, eng.Stats())
	}

	return nil
}

// writeYAML encodes v as a YAML document on w.
func writeYAML(ctx context.Context, w io.Writer, v any) error {
	b, err := yaml.MarshalContext(ctx, v, yaml.Indent(2))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if _, err := w.Write(b); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}
