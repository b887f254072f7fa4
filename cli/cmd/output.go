package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// output selects how a command writes its result.
type output struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})" short:"o"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output" short:"i"`
}

// write encodes v to w. The text format prints values implementing
// [fmt.Stringer] directly and everything else as YAML.
func (o output) write(w io.Writer, v any) error {
	switch o.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", fmt.Sprintf("%*s", o.Indent, ""))

		if err := enc.Encode(v); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case formatText:
		if s, ok := v.(fmt.Stringer); ok {
			_, err := fmt.Fprintln(w, s)

			return err
		}
	}

	data, err := yaml.MarshalWithOptions(v, yaml.Indent(max(o.Indent, 1)))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}
