package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/packrat/grammar"
)

// Ident normalizes identifiers, filling in the default namespace.
type Ident struct {
	Output output `embed:""`

	Idents []string `arg:"" help:"Identifiers such as 'stone' or 'core:stone'"`
}

// Run executes the ident command.
func (i *Ident) Run(ctx context.Context) error {
	return i.run(ctx, os.Stdout, os.Stderr)
}

func (i *Ident) run(_ context.Context, stdout, stderr io.Writer) error {
	ids := make([]grammar.Ident, 0, len(i.Idents))

	for _, s := range i.Idents {
		id, err := grammar.ParseIdent(s)
		if err != nil {
			_ = renderError(stderr, s, err)

			return ErrInvalidInput.With(slog.String("ident", s)).Wrap(err)
		}

		ids = append(ids, id)
	}

	if i.Output.Format == formatText {
		for _, id := range ids {
			if err := i.Output.write(stdout, id); err != nil {
				return err
			}
		}

		return nil
	}

	return i.Output.write(stdout, ids)
}
