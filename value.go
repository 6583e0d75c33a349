package spreadsheet

import (
	"math"
	"regexp"
	"strconv"

	"github.com/ponchik327/gosheet/internal/formula"
)

// FormulaSign marks the first character of a cell's raw text that
// introduces a formula. EscapeSign marks text that must be treated
// literally even though it would otherwise look like a number or a
// formula — both conventions are named directly in the engine's
// external interface.
const (
	FormulaSign = '='
	EscapeSign  = '\''
)

// strictDecimal is the strict numeric-literal grammar used to coerce
// a text cell's content to a number when a formula references it.
// Grounded on the original source's CellValueGetter: unlike
// strconv.ParseFloat, it rejects leading '+', exponents, "inf"/"nan",
// and leading zeros like "0123" — only the forms a spreadsheet user
// would recognize as a plain number are accepted.
var strictDecimal = regexp.MustCompile(`^(-?)(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// cellKind tags which variant a CellValue currently holds.
type cellKind int

const (
	cellEmpty cellKind = iota
	cellText
	cellFormula
)

// CellValue is the tagged union backing a Cell's content: empty,
// literal text, or a parsed formula with its own result cache. The
// cache field is populated only by successful numeric evaluations;
// per the engine's invalidation contract, a FormulaError result is
// never cached, so a cell that currently errors is re-evaluated every
// time it is read until a dependency makes it succeed again.
type CellValue struct {
	kind  cellKind
	text  string
	ast   formula.AST
	cache *float64
}

// EmptyCellValue returns the value held by a cell that has never
// been written, or has been cleared.
func EmptyCellValue() CellValue {
	return CellValue{kind: cellEmpty}
}

// ParseCellValue classifies raw input text the way SetCell does:
// formula syntax, escaped literal text, or plain literal text. It
// returns a *EngineError{Code: ErrFormulaSyntax} if text begins with
// FormulaSign but its body fails to parse.
func ParseCellValue(text string) (CellValue, error) {
	if text == "" {
		return EmptyCellValue(), nil
	}
	if text[0] == FormulaSign && len(text) > 1 {
		ast, err := formula.Parse(text[1:])
		if err != nil {
			return CellValue{}, &EngineError{Code: ErrFormulaSyntax, Message: err.Error()}
		}
		return CellValue{kind: cellFormula, ast: ast}, nil
	}
	return CellValue{kind: cellText, text: text}, nil
}

// IsFormula reports whether v holds a parsed formula.
func (v CellValue) IsFormula() bool { return v.kind == cellFormula }

// GetText returns the raw text a caller would see re-editing this
// cell: empty string for Empty, the literal text (escape sign
// included, if present) for Text, and "=" followed by the formula's
// canonical printed form for Formula.
func (v CellValue) GetText() string {
	switch v.kind {
	case cellText:
		return v.text
	case cellFormula:
		return string(FormulaSign) + v.ast.String()
	default:
		return ""
	}
}

// ReferencedPositions returns the positions this value's formula
// reads, sorted and deduplicated. Empty and Text values reference no
// other cell.
func (v CellValue) ReferencedPositions() []Position {
	if v.kind != cellFormula {
		return nil
	}
	refs := v.ast.Cells()
	positions := make([]Position, len(refs))
	for i, r := range refs {
		positions[i] = Position{Row: r.Row, Col: r.Col}
	}
	return positions
}

// cacheValid reports whether a Formula value's memoized result can be
// returned without re-evaluating.
func (v *CellValue) cacheValid() bool {
	return v.kind == cellFormula && v.cache != nil
}

// invalidateCache discards a Formula value's memoized result.
func (v *CellValue) invalidateCache() {
	v.cache = nil
}

// displayValue computes this value's GetValue() result the way
// spec.md §6 defines it: a double for Empty/Formula, or the literal
// string (escape stripped) for Text. Unlike numericValue, a Text
// value here never parses or errors — it is original_source's
// TextCellValue::GetValue(), which just returns the escape-stripped
// string, not CellValueGetter's numeric coercion.
func (v *CellValue) displayValue(lookup formula.Lookup) (any, error) {
	switch v.kind {
	case cellEmpty:
		return 0.0, nil
	case cellText:
		return displayText(v.text), nil
	case cellFormula:
		return v.evaluateFormula(lookup)
	default:
		return 0.0, nil
	}
}

// numericValue computes this value's numeric result using lookup to
// resolve any cell references, applying the CellValueGetter coercion
// rules for Empty and Text. This is the path a formula takes when it
// references this cell — never the one PrintValues/GetValue take for
// this cell's own display value.
func (v *CellValue) numericValue(lookup formula.Lookup) (float64, error) {
	switch v.kind {
	case cellEmpty:
		return 0, nil
	case cellText:
		return coerceTextToNumber(v.text)
	case cellFormula:
		return v.evaluateFormula(lookup)
	default:
		return 0, nil
	}
}

// evaluateFormula runs the cache-then-execute contract shared by
// displayValue and numericValue for Formula cells: a cached result is
// returned as-is, otherwise the AST is executed and only a finite
// result is memoized (spec.md §3 I4 — a non-finite result, such as an
// arithmetic overflow, is reported as Div0 and never cached).
func (v *CellValue) evaluateFormula(lookup formula.Lookup) (float64, error) {
	if v.cache != nil {
		return *v.cache, nil
	}
	result, err := v.ast.Execute(lookup)
	if err != nil {
		return 0, translateEvalError(err)
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, FormulaError{Kind: FormulaErrorDiv0}
	}
	v.cache = &result
	return result, nil
}

// displayText strips one leading EscapeSign from a Text value's raw
// text, the escape an edit uses to keep text that starts with
// FormulaSign from being parsed as a formula.
func displayText(text string) string {
	if len(text) > 0 && text[0] == EscapeSign {
		return text[1:]
	}
	return text
}

func coerceTextToNumber(text string) (float64, error) {
	raw := text
	if len(raw) > 0 && raw[0] == EscapeSign {
		raw = raw[1:]
	}
	if !strictDecimal.MatchString(raw) {
		return 0, FormulaError{Kind: FormulaErrorValue}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, FormulaError{Kind: FormulaErrorValue}
	}
	return v, nil
}

func translateEvalError(err error) error {
	if evalErr, ok := err.(*formula.EvalError); ok {
		switch evalErr.Kind {
		case formula.ErrorDiv0:
			return FormulaError{Kind: FormulaErrorDiv0}
		case formula.ErrorRef:
			return FormulaError{Kind: FormulaErrorRef}
		default:
			return FormulaError{Kind: FormulaErrorValue}
		}
	}
	return FormulaError{Kind: FormulaErrorValue}
}
