package formula

import "sort"

// formulaWrapper wraps a parsed expression tree and memoizes its
// sorted, deduplicated cell list at construction, mirroring the
// original C++ Formula constructor's std::sort+std::unique pass over
// referenced_cells_.
type formulaWrapper struct {
	root  AST
	cells []CellRef
}

func wrap(root AST) AST {
	cells := root.Cells()
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	deduped := cells[:0]
	for i, c := range cells {
		if i == 0 || c != deduped[len(deduped)-1] {
			deduped = append(deduped, c)
		}
	}
	return &formulaWrapper{root: root, cells: deduped}
}

func (f *formulaWrapper) Execute(lookup Lookup) (float64, error) { return f.root.Execute(lookup) }
func (f *formulaWrapper) Cells() []CellRef                       { return f.cells }
func (f *formulaWrapper) String() string                         { return f.root.String() }
