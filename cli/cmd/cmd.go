package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/packrat/argument"
	"github.com/ardnew/packrat/grammar"
	"github.com/ardnew/packrat/log"
	"github.com/ardnew/packrat/packrat"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Grammar names accepted by the parse and suggest commands.
const (
	grammarIdent     = "ident"
	grammarPredicate = "predicate"
	grammarConfig    = "config"
)

// Globals are the flags shared by every command.
type Globals struct {
	MaxDepth int    `default:"${maxDepth}"                            help:"Maximum rule nesting depth (0 disables the guard)"`
	Schema   string `help:"YAML file listing known items, tags and fields" type:"existingfile"`
}

func (g *Globals) options() []packrat.Option {
	return []packrat.Option{
		packrat.WithMaxDepth(g.MaxDepth),
		packrat.WithLogger(log.Default()),
	}
}

// schema reads the predicate schema, or returns the empty schema when none
// was given.
func (g *Globals) schema() (grammar.Schema, error) {
	var s grammar.Schema

	if g.Schema == "" {
		return s, nil
	}

	data, err := os.ReadFile(g.Schema)
	if err != nil {
		return s, ErrReadSchema.With(slog.String("file", g.Schema)).Wrap(err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, ErrReadSchema.With(slog.String("file", g.Schema)).Wrap(err)
	}

	return s, nil
}

func (g *Globals) predicateParser() (*packrat.Parser[grammar.Predicate], error) {
	s, err := g.schema()
	if err != nil {
		return nil, err
	}

	return grammar.NewPredicateParser(s, g.options()...)
}

// parser returns the named grammar with its values boxed as any.
func (g *Globals) parser(name string) (argument.Parser[any], error) {
	switch name {
	case grammarIdent:
		p, err := grammar.NewIdentParser(g.options()...)
		if err != nil {
			return nil, err
		}

		return boxed[grammar.Ident](p), nil

	case grammarPredicate:
		p, err := g.predicateParser()
		if err != nil {
			return nil, err
		}

		return boxed[grammar.Predicate](p), nil

	case grammarConfig:
		p, err := grammar.NewConfigParser(g.options()...)
		if err != nil {
			return nil, err
		}

		return boxed[grammar.Config](p), nil
	}

	return nil, ErrUnknownGrammar.With(slog.String("grammar", name))
}

func boxed[T any](p argument.Parser[T]) argument.Parser[any] {
	return argument.Map(p, func(v T) any { return v })
}

// stdinSource names standard input among command sources.
const stdinSource = "-"

// fileKey identifies a file by device and inode, so that one file reached
// through different paths or symlinks is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// openSources opens each named source once. All occurrences of "-" refer
// to a single stdin, which is placed last.
func openSources(names []string, stdin io.Reader) ([]io.ReadCloser, error) {
	var (
		files    []io.ReadCloser
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		path, err := filepath.EvalSymlinks(name)
		if err != nil {
			closeAll(files)

			return nil, ErrReadInput.With(slog.String("file", name)).Wrap(err)
		}

		info, err := os.Stat(path)
		if err != nil {
			closeAll(files)

			return nil, ErrReadInput.With(slog.String("file", name)).Wrap(err)
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		f, err := os.Open(path)
		if err != nil {
			closeAll(files)

			return nil, ErrReadInput.With(slog.String("file", name)).Wrap(err)
		}

		files = append(files, f)
	}

	if hasStdin {
		files = append(files, io.NopCloser(stdin))
	}

	return files, nil
}

func closeAll(files []io.ReadCloser) {
	for _, f := range files {
		_ = f.Close()
	}
}

// readInput returns the text of input, or all of stdin when input is "-".
func readInput(input string, stdin io.Reader) (string, error) {
	if input != stdinSource {
		return input, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return strings.TrimRight(string(data), "\r\n"), nil
}
