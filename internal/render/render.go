package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/geange/fsm"
)

const undefined = "-"

// MarkdownTable renders the transition table of m. Rows are states and
// columns are inputs; Moore machines get an extra output column.
func MarkdownTable(m fsm.Machine) string {
	var sb strings.Builder
	switch t := m.(type) {
	case *fsm.Mealy:
		writeHeader(&sb, t.Inputs, false)
		for _, s := range t.States {
			cells := make([]string, len(t.Inputs))
			for i, in := range t.Inputs {
				cells[i] = undefined
				if tr, ok := t.Transition(s, in); ok {
					cells[i] = tr.Next + " / " + tr.Output
				}
			}
			writeRow(&sb, stateCell(s, t.Initial()), cells)
		}
	case *fsm.Moore:
		writeHeader(&sb, t.Inputs, true)
		for _, s := range t.States {
			cells := []string{t.Output(s)}
			for _, in := range t.Inputs {
				next, ok := t.Next(s, in)
				if !ok {
					next = undefined
				}
				cells = append(cells, next)
			}
			writeRow(&sb, stateCell(s, t.Initial()), cells)
		}
	}
	return sb.String()
}

func stateCell(s, initial string) string {
	if s == initial {
		return "→ " + s
	}
	return s
}

func writeHeader(sb *strings.Builder, inputs []string, withOutput bool) {
	columns := []string{"state"}
	if withOutput {
		columns = append(columns, "output")
	}
	columns = append(columns, inputs...)
	fmt.Fprintf(sb, "| %s |\n", strings.Join(escapeAll(columns), " | "))
	sb.WriteString("|")
	for range columns {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
}

func writeRow(sb *strings.Builder, head string, cells []string) {
	fmt.Fprintf(sb, "| %s | %s |\n", escape(head), strings.Join(escapeAll(cells), " | "))
}

func escape(s string) string {
	if s == "" {
		return " "
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escape(c)
	}
	return out
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Write prints markdown to w, styled with glamour when pretty is set and w is
// a terminal. Otherwise the markdown is written unchanged.
func Write(w io.Writer, markdown string, pretty bool) error {
	if pretty && IsTerminal(w) {
		styled, err := Pretty(markdown)
		if err == nil {
			markdown = styled
		}
	}
	_, err := io.WriteString(w, markdown)
	return err
}

// Pretty styles markdown for a terminal.
func Pretty(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
