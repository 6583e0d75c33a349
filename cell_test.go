package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferencedCellsEmptyForNonFormulaCells(t *testing.T) {
	s := NewSheet()
	a1 := mustParsePos(t, "A1")

	require.NoError(t, s.SetCell(a1, "plain text"))
	require.Empty(t, s.GetCell(a1).ReferencedCells())

	require.NoError(t, s.SetCell(a1, "42"))
	require.Empty(t, s.GetCell(a1).ReferencedCells())
}

func TestReferencedCellsSortedAndDeduplicatedForFormula(t *testing.T) {
	s := NewSheet()
	c3 := mustParsePos(t, "C3")
	require.NoError(t, s.SetCell(c3, "=B2+A1+B2"))

	refs := s.GetCell(c3).ReferencedCells()
	require.Equal(t, []Position{
		mustParsePos(t, "A1"),
		mustParsePos(t, "B2"),
	}, refs)
}

func TestEscapedTextIsPreservedButCoercesWithoutTheMark(t *testing.T) {
	s := NewSheet()
	a1, b1 := mustParsePos(t, "A1"), mustParsePos(t, "B1")
	require.NoError(t, s.SetCell(a1, "'123"))
	require.Equal(t, "'123", s.GetCell(a1).Text())

	require.NoError(t, s.SetCell(b1, "=A1+1"))
	v, err := s.GetCell(b1).Value()
	require.NoError(t, err)
	require.Equal(t, 124.0, v)
}

func TestClearDetachesOutgoingEdges(t *testing.T) {
	s := NewSheet()
	a1, b1 := mustParsePos(t, "A1"), mustParsePos(t, "B1")
	require.NoError(t, s.SetCell(a1, "1"))
	require.NoError(t, s.SetCell(b1, "=A1+1"))

	require.NoError(t, s.ClearCell(b1))
	require.Nil(t, s.GetCell(b1))

	// A1 may now be set to reference B1 without forming a cycle, since
	// B1 no longer references A1.
	require.NoError(t, s.ClearCell(a1))
	require.NoError(t, s.SetCell(a1, "=B1"))
	require.NoError(t, s.SetCell(b1, "7"))

	v, err := s.GetCell(a1).Value()
	require.NoError(t, err)
	require.Equal(t, 7.0, v)
}

func TestReplacingFormulaWithLiteralDropsOldOutgoingEdges(t *testing.T) {
	s := NewSheet()
	a1, b1, c1 := mustParsePos(t, "A1"), mustParsePos(t, "B1"), mustParsePos(t, "C1")
	require.NoError(t, s.SetCell(a1, "1"))
	require.NoError(t, s.SetCell(b1, "=A1+1"))

	require.NoError(t, s.SetCell(b1, "plain"))
	require.Empty(t, s.GetCell(b1).ReferencedCells())

	// A1 no longer has B1 as a dependent, so A1 can now reference B1.
	require.NoError(t, s.SetCell(c1, "1"))
	require.NoError(t, s.SetCell(a1, "=B1+C1"))
	require.NoError(t, s.SetCell(b1, "2"))

	v, err := s.GetCell(a1).Value()
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}
