package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/packrat/cli/cmd"
	"github.com/ardnew/packrat/grammar"
)

// resolve is a [kong.ConfigurationLoader] for config files written in the
// packrat config grammar:
//
//	# comments run to the end of the line
//	log-level = debug
//	log_format = "json"; max-depth = 500
//
// Keys name long flags, with underscores accepted in place of hyphens.
// Command-line flags override config file values. A malformed config file
// is an error.
func resolve(r io.Reader) (kong.Resolver, error) {
	cfg, err := grammar.ReadConfig(r)
	if err != nil {
		return nil, cmd.ErrReadConfig.Wrap(err)
	}

	return newConfig(cfg), nil
}

// config implements [kong.Resolver] over a parsed config file.
type config map[string]any

func newConfig(cfg grammar.Config) config {
	c := make(config, len(cfg.Entries))

	for key, value := range cfg.Map() {
		// kong parses numbers from their text.
		switch v := value.(type) {
		case int64:
			value = strconv.FormatInt(v, 10)
		case float64:
			value = strconv.FormatFloat(v, 'f', -1, 64)
		}

		c[key] = value
	}

	return c
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	return nil, nil
}
