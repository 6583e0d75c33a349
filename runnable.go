package spreadsheet

import "log"

// RunnableSheet chains a sequence of edits against a Sheet, stopping
// at (and remembering) the first error, the way the teacher's
// RunnableSpreadsheet lets callers compose a batch of Set/Remove
// calls without checking an error after every single one. Trimmed to
// this engine's single-sheet scope: no worksheet switching, no named
// ranges.
type RunnableSheet struct {
	sheet *Sheet
	err   error
	log   func(string)
}

// NewRunnable wraps sheet for chained edits. A nil logf defaults to
// the standard library's default logger, matching the corpus's
// fallback when no structured logger has been wired in.
func NewRunnable(sheet *Sheet, logf func(string)) *RunnableSheet {
	if logf == nil {
		logf = func(msg string) { log.Default().Println(msg) }
	}
	return &RunnableSheet{sheet: sheet, log: logf}
}

// Set installs text at pos. Once an error has been recorded, Set is
// a no-op so the chain can be built without per-call error checks.
func (r *RunnableSheet) Set(pos Position, text string) *RunnableSheet {
	if r.err != nil {
		return r
	}
	if err := r.sheet.SetCell(pos, text); err != nil {
		r.log(err.Error())
		r.err = err
	}
	return r
}

// Clear resets pos to Empty, subject to the same short-circuit rule
// as Set.
func (r *RunnableSheet) Clear(pos Position) *RunnableSheet {
	if r.err != nil {
		return r
	}
	if err := r.sheet.ClearCell(pos); err != nil {
		r.log(err.Error())
		r.err = err
	}
	return r
}

// ForEach applies fn to every position in positions, short-circuiting
// the same way Set does on the first error fn reports.
func (r *RunnableSheet) ForEach(positions []Position, fn func(*RunnableSheet, Position) *RunnableSheet) *RunnableSheet {
	for _, pos := range positions {
		if r.err != nil {
			break
		}
		r = fn(r, pos)
	}
	return r
}

// Then runs fn against the wrapped sheet unless a prior step already
// failed.
func (r *RunnableSheet) Then(fn func(*Sheet) error) *RunnableSheet {
	if r.err != nil {
		return r
	}
	if err := fn(r.sheet); err != nil {
		r.log(err.Error())
		r.err = err
	}
	return r
}

// Err returns the first error recorded by the chain, or nil.
func (r *RunnableSheet) Err() error {
	return r.err
}

// Must panics if the chain recorded an error, otherwise returns the
// wrapped sheet — for callers (tests, setup code) that treat a
// failed chain as a programmer error.
func (r *RunnableSheet) Must() *Sheet {
	if r.err != nil {
		panic(r.err)
	}
	return r.sheet
}

// Sheet returns the wrapped sheet regardless of chain errors so far.
func (r *RunnableSheet) Sheet() *Sheet {
	return r.sheet
}
