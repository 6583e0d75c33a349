package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnableChainsEditsAndStopsAtFirstError(t *testing.T) {
	var logged []string
	s := NewSheet()
	r := NewRunnable(s, func(msg string) { logged = append(logged, msg) })

	r.Set(mustParsePos(t, "A1"), "1").
		Set(mustParsePos(t, "A2"), "=A2").
		Set(mustParsePos(t, "A3"), "3")

	require.Error(t, r.Err())
	require.Len(t, logged, 1)
	require.Nil(t, s.GetCell(mustParsePos(t, "A3")), "edits after the first failure must not apply")
}

func TestRunnableMustPanicsOnRecordedError(t *testing.T) {
	s := NewSheet()
	r := NewRunnable(s, func(string) {})
	r.Set(mustParsePos(t, "A1"), "=A1")

	require.Panics(t, func() { r.Must() })
}

func TestRunnableForEachAppliesToEveryPosition(t *testing.T) {
	s := NewSheet()
	r := NewRunnable(s, func(string) {})
	positions := []Position{mustParsePos(t, "A1"), mustParsePos(t, "A2"), mustParsePos(t, "A3")}

	r.ForEach(positions, func(r *RunnableSheet, pos Position) *RunnableSheet {
		return r.Set(pos, "9")
	})

	require.NoError(t, r.Err())
	for _, pos := range positions {
		v, err := s.GetCell(pos).Value()
		require.NoError(t, err)
		require.Equal(t, "9", v)
	}
}
