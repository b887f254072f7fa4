package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/packrat/argument"
	"github.com/ardnew/packrat/log"
)

// Parse parses its input with one grammar and prints the result.
type Parse struct {
	Output output `embed:""`

	Grammar string `arg:"" enum:"ident,predicate,config" help:"Grammar to parse with (${enum})"`
	Input   string `arg:"" default:"-"                   help:"Input text, or '-' for stdin"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context, g *Globals) error {
	return p.run(ctx, g, os.Stdin, os.Stdout, os.Stderr)
}

func (p *Parse) run(ctx context.Context, g *Globals, stdin io.Reader, stdout, stderr io.Writer) error {
	input, err := readInput(p.Input, stdin)
	if err != nil {
		return err
	}

	parser, err := g.parser(p.Grammar)
	if err != nil {
		return err
	}

	v, err := argument.ParseAll(parser, input)
	if err != nil {
		_ = renderError(stderr, input, err)

		return ErrInvalidInput.With(slog.String("grammar", p.Grammar)).Wrap(err)
	}

	log.DebugContext(ctx, "parsed input",
		slog.String("grammar", p.Grammar),
		slog.Int("length", len(input)),
	)

	return p.Output.write(stdout, v)
}
