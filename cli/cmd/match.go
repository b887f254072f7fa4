package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/packrat/grammar"
	"github.com/ardnew/packrat/log"
)

// Match prints the items satisfying a predicate. Items are read as YAML
// sequences of {id, tags, components} mappings.
type Match struct {
	Output output `embed:""`

	Invert bool `help:"Print the items that do not match" short:"v"`

	Predicate string   `arg:""                                     help:"Item predicate, such as '#core:weapons[damage=5]'"`
	Items     []string `arg:"" default:"-" type:"existingfile"   help:"YAML files of items, or '-' for stdin"`
}

// Run executes the match command.
func (m *Match) Run(ctx context.Context, g *Globals) error {
	return m.run(ctx, g, os.Stdin, os.Stdout, os.Stderr)
}

func (m *Match) run(ctx context.Context, g *Globals, stdin io.Reader, stdout, stderr io.Writer) error {
	parser, err := g.predicateParser()
	if err != nil {
		return err
	}

	pred, err := parser.ParseString(m.Predicate)
	if err != nil {
		_ = renderError(stderr, m.Predicate, err)

		return ErrInvalidInput.With(slog.String("grammar", grammarPredicate)).Wrap(err)
	}

	items, err := m.readItems(stdin)
	if err != nil {
		return err
	}

	var matched []grammar.Item

	for _, item := range items {
		ok, err := pred.Match(item)
		if err != nil {
			return err
		}

		if ok != m.Invert {
			matched = append(matched, item)
		}
	}

	log.DebugContext(ctx, "matched items",
		slog.Int("items", len(items)),
		slog.Int("matched", len(matched)),
	)

	if m.Output.Format == formatText {
		for _, item := range matched {
			if err := m.Output.write(stdout, item.ID); err != nil {
				return err
			}
		}

		return nil
	}

	return m.Output.write(stdout, matched)
}

// readItems decodes every YAML document of every source.
func (m *Match) readItems(stdin io.Reader) ([]grammar.Item, error) {
	sources, err := openSources(m.Items, stdin)
	if err != nil {
		return nil, err
	}
	defer closeAll(sources)

	var items []grammar.Item

	for _, src := range sources {
		dec := yaml.NewDecoder(src)

		for {
			var doc []grammar.Item

			err := dec.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}

			if err != nil {
				return nil, ErrReadItems.Wrap(err)
			}

			items = append(items, doc...)
		}
	}

	return items, nil
}
