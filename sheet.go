package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Sheet owns every Cell in a single spreadsheet as a dense row-major
// grid grown on demand, grounded on the original source's
// Sheet::Storage (vector<vector<unique_ptr<CellInterface>>>) rather
// than the teacher's chunked, multi-worksheet storage — this engine
// is single-sheet per spec.md's concurrency/resource model.
type Sheet struct {
	id   uuid.UUID
	grid [][]*Cell
}

// NewSheet returns an empty sheet. Its ID is a fresh uuid so that a
// caller juggling several independent sheets (a test harness, a
// multi-tenant host) has a stable identity to log or compare by.
func NewSheet() *Sheet {
	return &Sheet{id: uuid.New()}
}

// ID returns this sheet's identity.
func (s *Sheet) ID() uuid.UUID {
	return s.id
}

// SetCell parses and installs text at pos, creating the cell if it
// does not yet exist. It returns an *EngineError (InvalidPosition,
// FormulaSyntax, or CircularDependency) on failure, leaving the sheet
// completely unchanged.
func (s *Sheet) SetCell(pos Position, text string) error {
	if !pos.IsValid() {
		return s.annotate(&EngineError{Code: ErrInvalidPosition, Message: fmt.Sprintf("position %v is out of range", pos)})
	}
	return s.annotate(s.getOrCreateCell(pos).Set(text))
}

// annotate prefixes an *EngineError's Message with this sheet's ID, so
// a log line or error report carrying it can be correlated back to
// the specific sheet instance that produced it. Errors of any other
// type, and nil, pass through unchanged.
func (s *Sheet) annotate(err error) error {
	if err == nil {
		return nil
	}
	engineErr, ok := err.(*EngineError)
	if !ok {
		return err
	}
	return &EngineError{Code: engineErr.Code, Message: fmt.Sprintf("sheet %s: %s", s.id, engineErr.Message)}
}

// GetCell returns the cell at pos, or nil if it currently holds no
// content. This is true both for a position that was never written
// and for one that has been cleared or failed an edit — even though
// the engine may still hold an internal node there to carry graph
// edges for cells that reference it, Empty is externally
// indistinguishable from absent.
func (s *Sheet) GetCell(pos Position) *Cell {
	c := s.cellAt(pos)
	if c == nil || c.IsEmpty() {
		return nil
	}
	return c
}

// ClearCell resets pos back to Empty. Clearing a position that was
// never written is a no-op.
func (s *Sheet) ClearCell(pos Position) error {
	if !pos.IsValid() {
		return s.annotate(&EngineError{Code: ErrInvalidPosition, Message: fmt.Sprintf("position %v is out of range", pos)})
	}
	if c := s.cellAt(pos); c != nil {
		c.Clear()
	}
	return nil
}

func (s *Sheet) cellAt(pos Position) *Cell {
	if pos.Row < 0 || pos.Row >= len(s.grid) {
		return nil
	}
	row := s.grid[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return nil
	}
	return row[pos.Col]
}

func (s *Sheet) getOrCreateCell(pos Position) *Cell {
	s.ensureCapacity(pos)
	row := s.grid[pos.Row]
	if row[pos.Col] == nil {
		row[pos.Col] = newCell(s, pos)
	}
	return row[pos.Col]
}

func (s *Sheet) ensureCapacity(pos Position) {
	for len(s.grid) <= pos.Row {
		s.grid = append(s.grid, nil)
	}
	row := s.grid[pos.Row]
	for len(row) <= pos.Col {
		row = append(row, nil)
	}
	s.grid[pos.Row] = row
}

// wouldCreateCycle reports whether wiring self's out-edges to newOut
// would create a dependency cycle, without mutating any state.
// Grounded on the original source's Cell::HasCircularDependency: a
// DFS over the existing graph seeded at each candidate reference,
// looking for a path back to self.
func (s *Sheet) wouldCreateCycle(self Position, newOut []Position) bool {
	visited := map[Position]bool{self: true}
	var visit func(p Position) bool
	visit = func(p Position) bool {
		if visited[p] {
			return false
		}
		visited[p] = true
		cell := s.cellAt(p)
		if cell == nil {
			return false
		}
		for ref := range cell.out {
			if ref == self {
				return true
			}
			if visit(ref) {
				return true
			}
		}
		return false
	}
	for _, p := range newOut {
		if p == self {
			return true
		}
		if visit(p) {
			return true
		}
	}
	return false
}

// invalidateDependents walks cell's in-edges, discarding the cached
// result of every transitively dependent formula cell. It stops
// descending into a dependent whose cache was already invalid, since
// everything further downstream was already invalidated the last
// time that happened — matching the original source's
// InvalidateReferencedCellsCache, which only recurses past cells
// whose cache it actually found valid.
func (s *Sheet) invalidateDependents(cell *Cell) {
	for pos := range cell.in {
		dep := s.cellAt(pos)
		if dep == nil {
			continue
		}
		if dep.value.cacheValid() {
			dep.value.invalidateCache()
			s.invalidateDependents(dep)
		}
	}
}

// PrintableSize returns the bounding rectangle (rows, cols) that
// covers every non-empty cell. A sheet with no content reports (0,0).
func (s *Sheet) PrintableSize() (rows, cols int) {
	for r := len(s.grid) - 1; r >= 0; r-- {
		row := s.grid[r]
		for c := len(row) - 1; c >= 0; c-- {
			if cell := row[c]; cell != nil && !cell.IsEmpty() {
				if r+1 > rows {
					rows = r + 1
				}
				if c+1 > cols {
					cols = c + 1
				}
			}
		}
	}
	return rows, cols
}

// PrintValues renders the printable rectangle, one tab-separated row
// per line, with each cell's GetValue() result: a formula's numeric
// result or error token, a text cell's literal text (escape sign
// stripped), or an empty string.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.print(w, func(c *Cell) string {
		if c == nil || c.IsEmpty() {
			return ""
		}
		v, err := c.Value()
		if err != nil {
			return err.Error()
		}
		if text, ok := v.(string); ok {
			return text
		}
		return strconv.FormatFloat(v.(float64), 'g', -1, 64)
	})
}

// PrintTexts renders the printable rectangle the same way but with
// each cell's raw text instead of its evaluated value.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.print(w, func(c *Cell) string {
		if c == nil {
			return ""
		}
		return c.Text()
	})
}

func (s *Sheet) print(w io.Writer, getter func(*Cell) string) error {
	rows, cols := s.PrintableSize()
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(getter(s.cellAt(Position{Row: r, Col: c})))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
