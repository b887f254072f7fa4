package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/packrat/grammar"
	"github.com/ardnew/packrat/log"
	"github.com/ardnew/packrat/pkg"
	"github.com/ardnew/packrat/profile"
)

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	return i.write(ctx, confPath, i.entries(ktx))
}

func (i *Init) write(ctx context.Context, path string, entries []grammar.Entry) error {
	_, err := os.Stat(path)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data := formatConfig(entries)

	// What init writes must load back as the same entries.
	if _, err := grammar.ParseConfig(string(data)); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.Int("entries", len(entries)),
	)

	return nil
}

// entries returns the current value of every configurable flag.
func (i *Init) entries(ktx *kong.Context) []grammar.Entry {
	ignore := []string{"help", "version", profile.Tag}

	var entries []grammar.Entry

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			entries = append(entries, grammar.Entry{Key: flag.Name, Value: v})
		}
	}

	return entries
}

// configValue converts a flag value to a config value. Values the config
// grammar cannot express, such as lists, are skipped.
func configValue(val any) (any, bool) {
	if val == nil {
		return nil, false
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		return rv.String(), rv.Len() > 0
	}

	return nil, false
}

// formatConfig renders entries in the config grammar.
func formatConfig(entries []grammar.Entry) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s configuration\n", pkg.Name)

	for _, e := range entries {
		b.WriteString(e.Key)
		b.WriteString(" = ")

		switch v := e.Value.(type) {
		case string:
			b.WriteString(quote(v))
		case bool:
			b.WriteString(strconv.FormatBool(v))
		case int64:
			b.WriteString(strconv.FormatInt(v, 10))
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}

		b.WriteByte('\n')
	}

	return b.Bytes()
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string { return `"` + quoter.Replace(s) + `"` }
