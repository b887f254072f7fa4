package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/packrat/log"
	"github.com/ardnew/packrat/suggest"
)

// Suggest lists the completions a grammar offers for partial input.
type Suggest struct {
	Output output `embed:""`

	Cursor int  `default:"-1" help:"Complete at this byte offset instead of the end of input"`
	Apply  bool `help:"Print the input with each suggestion applied"`

	Grammar string `arg:"" enum:"ident,predicate,config" help:"Grammar to complete (${enum})"`
	Input   string `arg:"" default:"-"                   help:"Partial input text, or '-' for stdin"`
}

// Run executes the suggest command.
func (s *Suggest) Run(ctx context.Context, g *Globals) error {
	return s.run(ctx, g, os.Stdin, os.Stdout)
}

func (s *Suggest) run(ctx context.Context, g *Globals, stdin io.Reader, stdout io.Writer) error {
	input, err := readInput(s.Input, stdin)
	if err != nil {
		return err
	}

	if s.Cursor >= 0 && s.Cursor < len(input) {
		input = input[:s.Cursor]
	}

	parser, err := g.parser(s.Grammar)
	if err != nil {
		return err
	}

	list, err := parser.ListSuggestions(ctx, suggest.NewBuilder(input, 0)).Await(ctx)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "listed suggestions",
		slog.String("grammar", s.Grammar),
		slog.Int("start", list.Range.Start),
		slog.Int("count", len(list.List)),
	)

	if s.Apply {
		for _, sg := range list.List {
			if _, err := fmt.Fprintln(stdout, sg.Apply(input)); err != nil {
				return err
			}
		}

		return nil
	}

	if s.Output.Format != formatText {
		return s.Output.write(stdout, list)
	}

	for _, sg := range list.List {
		line := sg.Text
		if sg.Tooltip != "" {
			line += "\t" + sg.Tooltip
		}

		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return err
		}
	}

	return nil
}
