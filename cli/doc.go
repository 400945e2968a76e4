// Package cli contains the command line interface for grantlee.
//
// # Usage
//
//	grantlee [flags] render [--data FILE] [--stats] NAME...
//	grantlee [flags] blocks NAME...
//	grantlee [flags] tokens NAME
//	grantlee [flags] repl [--data FILE] [NAME...]
//
// NAME arguments form an inheritance chain, most derived first:
//
//	grantlee -d templates render page.html section.html base.html
//
// Templates are searched in each --dir, then in the directories listed in
// GRANTLEE_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/grantlee/config.yaml). Top-level keys
// name global flags; a key naming a command holds that command's flags.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn, error
//   - --log-format: json, text
//   - --log-time-layout: RFC3339, Kitchen, none, or a Go layout
//   - --[no-]log-caller, --[no-]log-pretty
//
// # Profiling Options
//
// Available only when built with the pprof tag:
//
//	go build -tags pprof -o grantlee .
//	grantlee --pprof-mode=cpu render page.html base.html
package cli
