package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geange/fsm"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCompileTable(t *testing.T) {
	out, err := run(t, "compile", "a|b", "--format", "table")
	require.NoError(t, err)
	assert.Equal(t, ";;F\n;q0;q1\na;q1;-\nb;q1;-\n", out)
}

func TestCompileStages(t *testing.T) {
	out, err := run(t, "compile", "ab*c", "--stages", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "normalized: a.b*.c")
	assert.Contains(t, out, "kind: moore")
}

func TestCompileMealy(t *testing.T) {
	out, err := run(t, "compile", "a", "--target", "mealy", "--format", "table")
	require.NoError(t, err)
	assert.Equal(t, ";q0;q1\na;q1/F;-\n", out)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := run(t, "compile", "a||b")
	assert.True(t, errors.Is(err, fsm.ErrMalformedAlternation))
}

func TestCompileConfigFile(t *testing.T) {
	path := writeFile(t, "fsm.yaml", "max_depth: 1\n")
	_, err := run(t, "--config", path, "compile", "((a))")
	assert.True(t, errors.Is(err, fsm.ErrSubexpressionOverflow))
}

func TestMinimizeTable(t *testing.T) {
	path := writeFile(t, "mealy.csv", ";a;b;c\nx;b/0;c/0;c/0\ny;a/1;a/1;a/1\n")
	out, err := run(t, "minimize", "--in", path, "--kind", "mealy")
	require.NoError(t, err)
	assert.Equal(t, ";q0\nx;q0/0\ny;q0/1\n", out)
}

func TestMinimizeToFile(t *testing.T) {
	in := writeFile(t, "moore.csv", ";0;1;1\n;a;b;c\nx;b;c;c\n")
	out := filepath.Join(t.TempDir(), "out.yaml")
	_, err := run(t, "minimize", "--in", in, "--kind", "moore", "--format", "yaml", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	m, err := fsm.UnmarshalMachine(data)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumStates())
}

func TestConvert(t *testing.T) {
	path := writeFile(t, "mealy.csv", ";a;b\nx;b/1;a/0\n")
	out, err := run(t, "convert", "--in", path)
	require.NoError(t, err)
	assert.Equal(t, ";0;1\n;a;b\nx;b;a\n", out)

	path = writeFile(t, "bad.csv", ";a;b\nx;b/1;b/0\n")
	_, err = run(t, "convert", "--in", path)
	var inconsistent *fsm.InconsistentOutputError
	require.True(t, errors.As(err, &inconsistent))
	assert.Equal(t, "b", inconsistent.State)
}

func TestGraph(t *testing.T) {
	out, err := run(t, "graph", "a*", "--stage", "nfa")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `digraph "nfa"`))
	assert.Contains(t, out, `"q0" -> "q1" [label="ε"];`)

	out, err = run(t, "graph", "a*", "--format", "mermaid")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))

	_, err = run(t, "graph", "a", "--stage", "regex")
	assert.Error(t, err)
}

func TestFailedWriteLeavesNoFile(t *testing.T) {
	in := writeFile(t, "mealy.csv", ";a\nx;a/0\n")
	out := filepath.Join(t.TempDir(), "out.txt")

	_, err := run(t, "minimize", "--in", in, "--format", "svg", "--out", out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestCompilePatternLimit(t *testing.T) {
	path := writeFile(t, "fsm.yaml", "max_pattern_length: 4\n")
	_, err := run(t, "--config", path, "compile", "abcde")
	assert.ErrorIs(t, err, fsm.ErrPatternTooLong)
}

func TestGrammar(t *testing.T) {
	path := writeFile(t, "right.txt", "S -> aA | b\nA -> bS | a\n")
	out, err := run(t, "grammar", "--in", path)
	require.NoError(t, err)
	assert.Equal(t, ";;;F\n;q0;q1;q2\na;q1;q2;-\nb;q2;q0;-\n", out)

	out, err = run(t, "grammar", "--in", path, "--minimize=false", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "S2 (end)")

	path = writeFile(t, "mixed.txt", "S -> aB | Bb\nB -> b\n")
	_, err = run(t, "grammar", "--in", path)
	assert.ErrorIs(t, err, fsm.ErrMixedGrammar)
}
