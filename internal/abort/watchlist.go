// Package abort implements the abort and dependency tracking of spec
// §3 "Abort watchlists" and §4.9: two idempotently-appended watchlists
// that short-circuit evaluation when a matching class is defined, and
// a satisfied-dependency-handle set gating promises with a depends_on
// list.
package abort

import (
	"github.com/evalcore/agent/internal/classexpr"
	"github.com/hashicorp/go-multierror"
)

// Entry is one watchlist item: a class expression and the expression
// that activated it (spec §3: "(class-expression, activated-on-expression)").
type Entry struct {
	ClassExpr   string
	ActivatedOn string
}

// Watchlists owns the global and per-bundle abort-class-expression lists
// (spec §3, §4.9). EvalAborted and BundleAborted are the two flags the
// driver checks between promises (spec §5 "Cancellation / timeout").
type Watchlists struct {
	heapAbort       []Entry
	heapAbortBundle []Entry
	EvalAborted     bool
	BundleAborted   bool

	// resolve checks whether a class-expression token is currently true;
	// injected so this package never depends on the class table directly.
	resolve classexpr.TokenResolver
}

func New(resolve classexpr.TokenResolver) *Watchlists {
	return &Watchlists{resolve: resolve}
}

// AppendHeapAbort adds an entry to the global watchlist idempotently by
// expression text, and immediately re-checks the current class set: if
// a match already exists, EvalAborted is set right away (spec §4.9: "on
// append to heap_abort, the evaluator immediately re-checks the current
// class set and aborts eval if a match already exists").
func (w *Watchlists) AppendHeapAbort(entry Entry) {
	if containsEntry(w.heapAbort, entry.ClassExpr) {
		return
	}
	w.heapAbort = append(w.heapAbort, entry)
	if classexpr.Evaluate(entry.ClassExpr, w.resolve) == classexpr.True {
		w.EvalAborted = true
	}
}

// AppendHeapAbortCurrentBundle adds an entry to the per-bundle watchlist
// idempotently by expression text.
func (w *Watchlists) AppendHeapAbortCurrentBundle(entry Entry) {
	if containsEntry(w.heapAbortBundle, entry.ClassExpr) {
		return
	}
	w.heapAbortBundle = append(w.heapAbortBundle, entry)
}

// CheckDefine runs the abort-watchlist check that must fire on every
// class-table Put (spec §4.2): if qualifiedName matches any
// heap_abort_current_bundle entry, BundleAborted is set; if it matches
// any heap_abort entry, EvalAborted is set.
func (w *Watchlists) CheckDefine(qualifiedName string) {
	tokens := map[string]struct{}{qualifiedName: {}}
	for _, e := range w.heapAbortBundle {
		if classexpr.EvaluateAgainstTokens(e.ClassExpr, tokens) == classexpr.True {
			w.BundleAborted = true
			break
		}
	}
	for _, e := range w.heapAbort {
		if classexpr.EvaluateAgainstTokens(e.ClassExpr, tokens) == classexpr.True {
			w.EvalAborted = true
			break
		}
	}
}

// ConsumeBundleAborted reads and clears the per-bundle abort flag (spec
// §5: "consumed (cleared) when queried").
func (w *Watchlists) ConsumeBundleAborted() bool {
	v := w.BundleAborted
	w.BundleAborted = false
	return v
}

// RegisterBulk appends many entries to the global watchlist at once,
// aggregating any per-entry failure with go-multierror rather than
// aborting the whole batch (grounded on the domain stack's
// go-multierror usage for bulk registration, spec §4.9).
func (w *Watchlists) RegisterBulk(entries []Entry) error {
	var errs *multierror.Error
	for _, e := range entries {
		if e.ClassExpr == "" {
			errs = multierror.Append(errs, errEmptyExpression(e))
			continue
		}
		w.AppendHeapAbort(e)
	}
	return errs.ErrorOrNil()
}

func containsEntry(list []Entry, expr string) bool {
	for _, e := range list {
		if e.ClassExpr == expr {
			return true
		}
	}
	return false
}

type errEmptyExpression Entry

func (e errEmptyExpression) Error() string {
	return "abort watchlist entry has an empty class expression (activated-on=" + e.ActivatedOn + ")"
}
