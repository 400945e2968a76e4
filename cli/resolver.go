package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] reading YAML configuration files.
//
// Top-level keys name global flags. A key naming a command holds a mapping
// of that command's flags. Keys may use hyphens or underscores:
//
//	log-level: debug
//	dir: [templates, partials]
//	render:
//	  data: site.yaml
//
// Command-line flags override values from the file.
func resolve(r io.Reader) (kong.Resolver, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(src)) == 0 {
		return config{}, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return config(doc), nil
}

// config implements [kong.Resolver] over a decoded YAML document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A command's own section takes
// precedence over the top level.
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := c.lookup(parent.Command.Name).(map[string]any); ok {
			if v := config(section).lookup(flag.Name); v != nil {
				return scalar(v), nil
			}
		}
	}

	if v := c.lookup(flag.Name); v != nil {
		return scalar(v), nil
	}

	return nil, nil
}

func (c config) lookup(name string) any {
	if v, ok := c[name]; ok {
		return v
	}

	return c[strings.ReplaceAll(name, "-", "_")]
}

// scalar converts decoded YAML into the forms kong's mappers accept:
// numbers become strings and sequences become comma-separated lists.
func scalar(v any) any {
	switch v := v.(type) {
	case string, bool:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprint(scalar(e)))
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
