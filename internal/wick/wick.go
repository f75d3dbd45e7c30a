// Package wick is the contraction engine's façade: it orchestrates
// elementary-contraction enumeration, composite generation, canonicalization,
// and evaluation behind a single Contract entry point, and accumulates the
// resulting terms into an Expression with += semantics.
package wick

import (
	"sync"

	"github.com/nsc-wicked/wicked/internal/canon"
	"github.com/nsc-wicked/wicked/internal/contraction"
	"github.com/nsc-wicked/wicked/internal/evaluate"
	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/scalar"
	"github.com/nsc-wicked/wicked/internal/space"
	"github.com/nsc-wicked/wicked/internal/term"
	"github.com/nsc-wicked/wicked/internal/vertex"
)

// Expression accumulates scored terms keyed by their canonical structure
// with += semantics: terms with equal keys combine, and a term whose
// combined coefficient is zero is dropped.
type Expression struct {
	order []string
	terms map[string]term.Term
}

// NewExpression returns an empty accumulator.
func NewExpression() *Expression {
	return &Expression{terms: make(map[string]term.Term)}
}

// Add folds t into the accumulator, combining with any existing term of
// the same canonical structure and dropping the entry entirely if the
// combined coefficient is zero.
func (e *Expression) Add(t term.Term) {
	key := t.Key()
	if existing, ok := e.terms[key]; ok {
		combined := existing
		combined.Coeff = existing.Coeff.Add(t.Coeff)
		if combined.Coeff.IsZero() {
			delete(e.terms, key)
			e.removeOrder(key)
			return
		}
		e.terms[key] = combined
		return
	}
	if t.Coeff.IsZero() {
		return
	}
	e.terms[key] = t
	e.order = append(e.order, key)
}

func (e *Expression) removeOrder(key string) {
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			return
		}
	}
}

// Merge folds every term of o into e.
func (e *Expression) Merge(o *Expression) {
	for _, k := range o.order {
		e.Add(o.terms[k])
	}
}

// Terms returns the accumulated terms in the order each key was first
// inserted.
func (e *Expression) Terms() []term.Term {
	out := make([]term.Term, 0, len(e.order))
	for _, k := range e.order {
		if t, ok := e.terms[k]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Len reports how many distinct terms remain in the accumulator.
func (e *Expression) Len() int { return len(e.order) }

// Theorem is the stateful façade callers drive: it owns the orbital-space
// registry and the tunables (max cumulant rank, verbosity) that every
// Contract call reads.
type Theorem struct {
	Reg         *space.Registry
	maxCumulant int
	printLevel  int
	Parallel    bool
}

// NewTheorem builds a Theorem bound to reg, with reg's own MaxCumulant as
// the initial cumulant cap.
func NewTheorem(reg *space.Registry) *Theorem {
	return &Theorem{Reg: reg, maxCumulant: reg.MaxCumulant()}
}

// SetMaxCumulant overrides the cumulant rank cap used by subsequent
// Contract calls, independent of the registry's own default.
func (w *Theorem) SetMaxCumulant(k int) { w.maxCumulant = k }

// SetPrint sets the façade's verbosity knob; callers consult PrintLevel to
// decide how much diagnostic logging to emit around a Contract call.
func (w *Theorem) SetPrint(level int) { w.printLevel = level }

// PrintLevel returns the current verbosity knob.
func (w *Theorem) PrintLevel() int { return w.printLevel }

// Contract enumerates every composite contraction of ops within
// [minRank, maxRank], canonicalizes each, evaluates it, and returns the
// accumulated Expression with factor folded into every term's coefficient.
func (w *Theorem) Contract(factor scalar.Scalar, ops []operator.Operator, minRank, maxRank int) (*Expression, error) {
	numSpaces := w.Reg.NumSpaces()
	en := contraction.NewEnumerator(w.Reg)
	pool := en.Enumerate(ops)

	verts := make([]vertex.Vertex, len(ops))
	for i, op := range ops {
		verts[i] = op.Vertex(numSpaces)
	}
	gen := contraction.NewGenerator(pool, verts)
	composites := gen.Generate(minRank, maxRank)

	if w.Parallel {
		return w.contractParallel(factor, ops, composites)
	}
	return w.contractSerial(factor, ops, composites)
}

func (w *Theorem) contractSerial(factor scalar.Scalar, ops []operator.Operator, composites []contraction.Composite) (*Expression, error) {
	out := NewExpression()
	for _, c := range composites {
		res, err := canon.Canonicalize(ops, c)
		if err != nil {
			return nil, err
		}
		t, err := evaluate.Evaluate(w.Reg, res.Ops, res.Composite, factor)
		if err != nil {
			return nil, err
		}
		out.Add(t)
	}
	return out, nil
}

// contractParallel evaluates composites across a worker pool and merges
// each worker's private accumulator at the end, the same chunked
// fan-out/reduce shape used elsewhere in the engine's ambient codebase for
// other embarrassingly parallel per-item work: deal the composites
// round-robin into at most eight chunks, run each chunk on its own
// goroutine into its own Expression, then merge.
func (w *Theorem) contractParallel(factor scalar.Scalar, ops []operator.Operator, composites []contraction.Composite) (*Expression, error) {
	n := len(composites)
	if n == 0 {
		return NewExpression(), nil
	}
	workers := numWorkers(n)
	chunks := make([][]contraction.Composite, workers)
	for i, c := range composites {
		chunks[i%workers] = append(chunks[i%workers], c)
	}

	results := make([]*Expression, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = w.contractSerial(factor, ops, chunks[i])
		}(i)
	}
	wg.Wait()

	out := NewExpression()
	for i := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if results[i] != nil {
			out.Merge(results[i])
		}
	}
	return out, nil
}

func numWorkers(n int) int {
	w := n
	if w > 8 {
		w = 8
	}
	if w < 1 {
		w = 1
	}
	return w
}

// ContractExpression lifts Contract over an operator.Expression, distributing
// linearly: every term's own coefficient multiplies factor for that term's
// contraction, and every term's own operator-position list is contracted as
// a whole (spec.md §8.8 linearity).
func (w *Theorem) ContractExpression(factor scalar.Scalar, expr operator.Expression, minRank, maxRank int) (*Expression, error) {
	out := NewExpression()
	for _, t := range expr.Terms {
		sub, err := w.Contract(factor.Mul(t.Coeff), t.Ops, minRank, maxRank)
		if err != nil {
			return nil, err
		}
		out.Merge(sub)
	}
	return out, nil
}
