package fsm

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

const (
	tableSeparator      = ';'
	mealyCellSeparator  = "/"
	undefinedTransition = "-"
)

func newTableReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = tableSeparator
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr
}

// readTable returns the rows of a semicolon separated table with every cell
// trimmed. Whitespace-only lines are skipped.
func readTable(r io.Reader) ([][]string, error) {
	records, err := newTableReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func isUndefined(cell string) bool {
	return cell == "" || cell == undefinedTransition
}

// ReadMealyTable parses
//
//	;s1;s2;...
//	x1;s2/y1;s1/y2;...
//
// A cell of "-" or nothing means the transition is undefined.
func ReadMealyTable(r io.Reader) (*Mealy, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing state header", ErrMalformedTable)
	}

	states := rows[0][1:]
	m := NewMealy(states, nil)
	for line, row := range rows[1:] {
		input := row[0]
		m.Inputs = append(m.Inputs, input)
		if len(row)-1 > len(states) {
			return nil, fmt.Errorf("%w: line %d has %d cells for %d states", ErrMalformedTable, line+2, len(row)-1, len(states))
		}
		for i, cell := range row[1:] {
			if isUndefined(cell) {
				continue
			}
			next, output, ok := strings.Cut(cell, mealyCellSeparator)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: cell %q is not next/output", ErrMalformedTable, line+2, cell)
			}
			m.SetTransition(states[i], input, strings.TrimSpace(next), strings.TrimSpace(output))
		}
	}
	return m, nil
}

// ReadMooreTable parses
//
//	;y1;y2;...
//	;s1;s2;...
//	x1;s2;s1;...
func ReadMooreTable(r io.Reader) (*Moore, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: missing output or state header", ErrMalformedTable)
	}

	outputs := rows[0][1:]
	states := rows[1][1:]
	if len(outputs) > len(states) {
		return nil, fmt.Errorf("%w: %d outputs for %d states", ErrMalformedTable, len(outputs), len(states))
	}

	m := NewMoore(states, nil)
	for i, s := range states {
		out := ""
		if i < len(outputs) {
			out = outputs[i]
		}
		m.SetOutput(s, out)
	}
	for line, row := range rows[2:] {
		input := row[0]
		m.Inputs = append(m.Inputs, input)
		if len(row)-1 > len(states) {
			return nil, fmt.Errorf("%w: line %d has %d cells for %d states", ErrMalformedTable, line+3, len(row)-1, len(states))
		}
		for i, cell := range row[1:] {
			if isUndefined(cell) {
				continue
			}
			m.SetTransition(states[i], input, cell)
		}
	}
	return m, nil
}

func writeRow(w io.Writer, head string, cells []string) error {
	_, err := fmt.Fprintf(w, "%s%c%s\n", head, tableSeparator, strings.Join(cells, string(tableSeparator)))
	return err
}

// WriteMealyTable writes m in the format read by ReadMealyTable.
func WriteMealyTable(w io.Writer, m *Mealy) error {
	if err := writeRow(w, "", m.States); err != nil {
		return err
	}
	for _, in := range m.Inputs {
		cells := make([]string, len(m.States))
		for i, s := range m.States {
			cells[i] = undefinedTransition
			if t, ok := m.Transition(s, in); ok {
				cells[i] = t.Next + mealyCellSeparator + t.Output
			}
		}
		if err := writeRow(w, in, cells); err != nil {
			return err
		}
	}
	return nil
}

// WriteMooreTable writes m in the format read by ReadMooreTable.
func WriteMooreTable(w io.Writer, m *Moore) error {
	outputs := make([]string, len(m.States))
	for i, s := range m.States {
		outputs[i] = m.Output(s)
	}
	if err := writeRow(w, "", outputs); err != nil {
		return err
	}
	if err := writeRow(w, "", m.States); err != nil {
		return err
	}
	for _, in := range m.Inputs {
		cells := make([]string, len(m.States))
		for i, s := range m.States {
			cells[i] = undefinedTransition
			if next, ok := m.Next(s, in); ok {
				cells[i] = next
			}
		}
		if err := writeRow(w, in, cells); err != nil {
			return err
		}
	}
	return nil
}

// ReadTable reads a Mealy or Moore table depending on kind.
func ReadTable(r io.Reader, kind MachineKind) (Machine, error) {
	if kind == KindMoore {
		return ReadMooreTable(r)
	}
	return ReadMealyTable(r)
}

// WriteTable writes m in the table format of its kind.
func WriteTable(w io.Writer, m Machine) error {
	switch t := m.(type) {
	case *Mealy:
		return WriteMealyTable(w, t)
	case *Moore:
		return WriteMooreTable(w, t)
	}
	return fmt.Errorf("unknown machine type %T", m)
}
