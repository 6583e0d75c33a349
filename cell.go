package spreadsheet

import "github.com/ponchik327/gosheet/internal/formula"

// Cell owns one grid slot's value together with the two edge sets
// spec.md's invariants I1/I2 are phrased in terms of: out, the cells
// this cell's formula reads, and in, the cells whose formulas read
// this cell. Grounded on the original source's cell.h, which embeds
// descending_cells_/ascending_cells_ directly on the cell rather than
// in a side table — see SPEC_FULL.md's "Graph bookkeeping lives on
// Cell" design note.
type Cell struct {
	sheet *Sheet
	pos   Position
	value CellValue
	out   map[Position]struct{}
	in    map[Position]struct{}
}

func newCell(sheet *Sheet, pos Position) *Cell {
	return &Cell{sheet: sheet, pos: pos, value: EmptyCellValue()}
}

// Set parses text and installs it as this cell's new content. It is
// atomic: if text names a formula that would introduce a dependency
// cycle, the cell is left completely unchanged and a
// *EngineError{Code: ErrCircularDependency} is returned. A malformed
// formula body likewise leaves the cell unchanged, reported as
// *EngineError{Code: ErrFormulaSyntax}.
func (c *Cell) Set(text string) error {
	candidate, err := ParseCellValue(text)
	if err != nil {
		return err
	}
	newOut := candidate.ReferencedPositions()
	if len(newOut) > 0 && c.sheet.wouldCreateCycle(c.pos, newOut) {
		return &EngineError{Code: ErrCircularDependency, Message: "setting " + c.pos.String() + " would create a circular dependency"}
	}

	c.value = candidate
	c.rewireOutEdges(newOut)
	c.sheet.invalidateDependents(c)
	return nil
}

// Clear resets this cell to Empty, detaching it from anything it
// used to reference and invalidating every transitive dependent the
// same way Set does.
func (c *Cell) Clear() {
	c.value = EmptyCellValue()
	c.rewireOutEdges(nil)
	c.sheet.invalidateDependents(c)
}

func (c *Cell) rewireOutEdges(newOut []Position) {
	for pos := range c.out {
		if other := c.sheet.cellAt(pos); other != nil {
			delete(other.in, c.pos)
		}
	}
	if len(newOut) == 0 {
		c.out = nil
		return
	}
	out := make(map[Position]struct{}, len(newOut))
	for _, pos := range newOut {
		out[pos] = struct{}{}
		other := c.sheet.getOrCreateCell(pos)
		if other.in == nil {
			other.in = make(map[Position]struct{})
		}
		other.in[c.pos] = struct{}{}
	}
	c.out = out
}

// Value returns this cell's GetValue() result: a float64 for Empty
// and Formula, the literal text (escape stripped) for Text, or a
// FormulaError for a Formula that failed to evaluate. The returned
// error, when non-nil, is always a FormulaError value — never an
// EngineError — per spec.md's rule that evaluation failures are data,
// not API failures.
func (c *Cell) Value() (any, error) {
	return c.value.displayValue(c.lookup)
}

// numericValue is the coercion another cell's formula applies when it
// references this one: Empty and Formula behave as Value does, but
// Text is parsed as a strict decimal literal instead of returned
// verbatim, matching original_source's CellValueGetter.
func (c *Cell) numericValue() (float64, error) {
	return c.value.numericValue(c.lookup)
}

// Text returns the raw text a caller would see re-editing this cell.
func (c *Cell) Text() string {
	return c.value.GetText()
}

// ReferencedCells returns the positions this cell's formula reads,
// sorted and deduplicated. It is empty for Empty and Text cells.
func (c *Cell) ReferencedCells() []Position {
	return c.value.ReferencedPositions()
}

// IsEmpty reports whether this cell currently holds no content — the
// condition under which Sheet excludes it from the printable region
// and treats GetCell as returning nothing.
func (c *Cell) IsEmpty() bool {
	return c.value.kind == cellEmpty
}

func (c *Cell) lookup(ref formula.CellRef) (float64, error) {
	pos := Position{Row: ref.Row, Col: ref.Col}
	other := c.sheet.cellAt(pos)
	if other == nil {
		return 0, nil
	}
	v, err := other.numericValue()
	if err != nil {
		return 0, toFormulaEvalError(err)
	}
	return v, nil
}

func toFormulaEvalError(err error) *formula.EvalError {
	if fe, ok := err.(FormulaError); ok {
		switch fe.Kind {
		case FormulaErrorDiv0:
			return &formula.EvalError{Kind: formula.ErrorDiv0}
		case FormulaErrorRef:
			return &formula.EvalError{Kind: formula.ErrorRef}
		default:
			return &formula.EvalError{Kind: formula.ErrorValue}
		}
	}
	return &formula.EvalError{Kind: formula.ErrorValue}
}
