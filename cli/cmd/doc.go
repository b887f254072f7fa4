// Package cmd provides the packrat subcommands: parse, match, suggest,
// ident and init.
//
// Every command parses with grammars from package grammar, configured by
// the [Globals] flags shared across commands. Syntax errors are rendered
// to stderr with the offending input line and a caret under the error
// column.
package cmd

// ConfigIdentifier is the kong variable identifier containing the path of
// the configuration file.
const ConfigIdentifier = "config"
