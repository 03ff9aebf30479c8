package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveUnreachableMoore(t *testing.T) {
	m := NewMoore([]string{"s0", "s1", "s2", "s3"}, []string{"a"})
	m.SetOutput("s1", "x")
	m.SetOutput("s3", "y")
	m.SetTransition("s0", "a", "s1")
	m.SetTransition("s1", "a", "s0")
	m.SetTransition("s2", "a", "s3")

	got := RemoveUnreachable(m).(*Moore)
	assert.Equal(t, []string{"s0", "s1"}, got.States)
	assert.Equal(t, "x", got.Output("s1"))
	next, ok := got.Next("s1", "a")
	assert.True(t, ok)
	assert.Equal(t, "s0", next)
}

func TestRemoveUnreachableMealy(t *testing.T) {
	m := NewMealy([]string{"s0", "s1", "s2"}, []string{"a", "b"})
	m.SetTransition("s0", "b", "s2", "o")
	m.SetTransition("s1", "a", "s0", "o")

	got := RemoveUnreachable(m).(*Mealy)
	assert.Equal(t, []string{"s0", "s2"}, got.States)
	assert.Equal(t, 2, got.NumStates())
}

func TestRemoveUnreachableEmpty(t *testing.T) {
	got := RemoveUnreachable(NewMealy(nil, nil))
	assert.Equal(t, 0, got.NumStates())
}
