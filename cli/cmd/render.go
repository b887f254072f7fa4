package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/packrat/reader"
)

// styles color diagnostics for one output.
type styles struct {
	message lipgloss.Style
	gutter  lipgloss.Style
	caret   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)

	return styles{
		message: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		gutter:  r.NewStyle().Foreground(lipgloss.Color("8")),
		caret:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// renderError writes err to w. A syntax error positioned in input is
// followed by the offending line and a caret under its column:
//
//	expected literal ] at line 1, column 6:
//	  1 | foo[a
//	           ^
func renderError(w io.Writer, input string, err error) error {
	st := newStyles(w)

	var se *reader.SyntaxError
	if !errors.As(err, &se) || se.Cursor < 0 || se.Cursor > len(input) {
		_, werr := fmt.Fprintln(w, st.message.Render(err.Error()))

		return werr
	}

	line, col := reader.New(input).Position(se.Cursor)
	text := strings.Split(input, "\n")[line-1]
	num := strconv.Itoa(line)

	var b strings.Builder

	b.WriteString(st.message.Render(fmt.Sprintf("%s at line %d, column %d:", se.Msg, line, col)))
	b.WriteByte('\n')
	b.WriteString(st.gutter.Render("  " + num + " |"))
	b.WriteByte(' ')
	b.WriteString(text)
	b.WriteByte('\n')
	// 2 leading spaces + " | "
	b.WriteString(strings.Repeat(" ", len(num)+5+col-1))
	b.WriteString(st.caret.Render("^"))
	b.WriteByte('\n')

	_, werr := io.WriteString(w, b.String())

	return werr
}
