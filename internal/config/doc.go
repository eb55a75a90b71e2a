// Package config provides the configuration system for textmodel.
//
// Options are read from a single TOML file:
//
//	default_eol = "auto"         # "auto", "lf", or "crlf"
//	trim_auto_whitespace = true  # delete abandoned auto-indent lines
//	undo_stack_size = 1000       # bounded undo entries
//	log_level = "info"           # debug, info, warn, error
//
// A missing file yields defaults, not an error; a present but invalid
// file is an error. The engine only ever reads options, it never
// writes them.
//
// Reader wraps a path and re-reads the file when its modification
// time changes, so long-running callers can poll Current() for fresh
// values without a watcher.
package config
