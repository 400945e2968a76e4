// Package cmd implements the grantlee subcommands: render, blocks, tokens,
// and repl.
//
// Commands read the [engine.Engine] and the kong context from the
// [context.Context] kong binds, see [WithEngine] and [WithContext].
package cmd

const (
	// ConfigIdentifier is the kong variable holding the configuration file
	// path.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable holding the REPL history path.
	HistoryIdentifier = "history"

	// HistoryFile is the base name of the REPL history file in the cache
	// directory.
	HistoryFile = "history.utf8"
)
