// Package cli contains the command line interface for packrat.
//
// # Usage
//
//	packrat parse ident stone
//	packrat parse --format=json predicate '#weapons[damage=5]'
//	packrat match --schema=schema.yaml '*[damage~"value > 3"]' items.yaml
//	packrat suggest --schema=schema.yaml predicate '*[dam'
//	packrat init
//
// # Configuration
//
// Flag defaults are read from the config file in the user configuration
// directory (for example ~/.config/packrat/config), written in the packrat
// config grammar:
//
//	# comments run to the end of the line
//	log-level = debug
//	log_format = "json"; max-depth = 500
//
// A JSON file of the same name with a ".json" suffix is also read.
// Command-line flags override both. The init command writes the current
// flag values to the config file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o packrat .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/packrat/pprof)
package cli
