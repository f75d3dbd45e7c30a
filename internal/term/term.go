// Package term implements the output side of the contraction engine: the
// symbolic tensors and second-quantized operator strings a contraction
// evaluates into, and the canonical-form rewriting that lets two terms
// differing only by tensor order or an antisymmetric-tensor leg
// permutation be recognized as the same term and merged. Dummy indices are
// not renamed, so two terms that differ only by a dummy-index relabeling
// keep distinct keys.
package term

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nsc-wicked/wicked/internal/combin"
	"github.com/nsc-wicked/wicked/internal/index"
	"github.com/nsc-wicked/wicked/internal/scalar"
)

// Tensor is one symbolic tensor factor, e.g. a two-body integral or a
// density cumulant, named by a label and carrying an ordered list of upper
// and lower indices.
type Tensor struct {
	Label string
	Upper []index.Index
	Lower []index.Index
}

// Reindex returns a copy of t with every index replaced via m; an index
// absent from m is left unchanged.
func (t Tensor) Reindex(m map[index.Index]index.Index) Tensor {
	return Tensor{Label: t.Label, Upper: reindexAll(t.Upper, m), Lower: reindexAll(t.Lower, m)}
}

func reindexAll(xs []index.Index, m map[index.Index]index.Index) []index.Index {
	out := make([]index.Index, len(xs))
	for i, x := range xs {
		if y, ok := m[x]; ok {
			out[i] = y
		} else {
			out[i] = x
		}
	}
	return out
}

// sortIndicesParity stable-sorts xs by (Space, N) in place and returns the
// permutation parity of the sort, +1 or -1. A tensor assumed antisymmetric
// under exchange of upper (or lower) indices picks up that sign when its
// legs are canonicalized into sorted order.
func sortIndicesParity(xs []index.Index) int {
	n := len(xs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		xa, xb := xs[order[a]], xs[order[b]]
		if xa.Space != xb.Space {
			return xa.Space < xb.Space
		}
		return xa.N < xb.N
	})
	sorted := make([]index.Index, n)
	for i, o := range order {
		sorted[i] = xs[o]
	}
	copy(xs, sorted)
	return combin.PermutationParity(order)
}

// SQOperator is one leg of the uncontracted second-quantized operator
// string a term carries: a creation or annihilation operator on an index
// that survived contraction.
type SQOperator struct {
	Index index.Index
	Cre   bool
}

func (o SQOperator) reindex(m map[index.Index]index.Index) SQOperator {
	if y, ok := m[o.Index]; ok {
		return SQOperator{Index: y, Cre: o.Cre}
	}
	return o
}

// Term is one symbolic summand of a contraction's result: a rational
// coefficient, a product of Tensor factors, and an uncontracted
// second-quantized operator string, all summed implicitly over every free
// (non-dummy) index.
type Term struct {
	Coeff   scalar.Scalar
	Tensors []Tensor
	SQOps   []SQOperator
}

// Reindex returns a copy of tm with every index relabeled via m.
func (tm Term) Reindex(m map[index.Index]index.Index) Term {
	tensors := make([]Tensor, len(tm.Tensors))
	for i, t := range tm.Tensors {
		tensors[i] = t.Reindex(m)
	}
	sqops := make([]SQOperator, len(tm.SQOps))
	for i, o := range tm.SQOps {
		sqops[i] = o.reindex(m)
	}
	return Term{Coeff: tm.Coeff, Tensors: tensors, SQOps: sqops}
}

// Canonicalize returns a copy of tm with each tensor's upper and lower legs
// independently sorted into a canonical (Space, N) order, folding the sign
// of that reordering into Coeff under the assumption that every tensor here
// is antisymmetric in its upper indices and in its lower indices
// separately — true of every tensor the evaluator produces (integrals and
// cumulants alike are antisymmetrized density-fitting-free physicist-order
// tensors).
func (tm Term) Canonicalize() Term {
	coeff := tm.Coeff
	tensors := make([]Tensor, len(tm.Tensors))
	for i, t := range tm.Tensors {
		nt := Tensor{Label: t.Label, Upper: append([]index.Index(nil), t.Upper...), Lower: append([]index.Index(nil), t.Lower...)}
		if sortIndicesParity(nt.Upper) < 0 {
			coeff = coeff.Neg()
		}
		if sortIndicesParity(nt.Lower) < 0 {
			coeff = coeff.Neg()
		}
		tensors[i] = nt
	}
	sortTensors(tensors)
	return Term{Coeff: coeff, Tensors: tensors, SQOps: append([]SQOperator(nil), tm.SQOps...)}
}

func sortTensors(ts []Tensor) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].Label != ts[j].Label {
			return ts[i].Label < ts[j].Label
		}
		return tensorKey(ts[i]) < tensorKey(ts[j])
	})
}

func tensorKey(t Tensor) string {
	var b strings.Builder
	for _, x := range t.Upper {
		fmt.Fprintf(&b, "u%d.%d", x.Space, x.N)
	}
	for _, x := range t.Lower {
		fmt.Fprintf(&b, "l%d.%d", x.Space, x.N)
	}
	return b.String()
}

// Key returns a string that is equal for two Terms iff they have the same
// tensor structure and the same uncontracted operator string, ignoring
// Coeff; callers use it to coalesce terms in an Expression after each has
// been Canonicalize'd so the structural comparison is order-independent.
func (tm Term) Key() string {
	var b strings.Builder
	for _, t := range tm.Tensors {
		b.WriteString(t.Label)
		b.WriteString(tensorKey(t))
		b.WriteByte(';')
	}
	b.WriteByte('|')
	for _, o := range tm.SQOps {
		fmt.Fprintf(&b, "%d.%d.%v;", o.Index.Space, o.Index.N, o.Cre)
	}
	return b.String()
}

// String renders tm using label to print each index.
func (tm Term) String(label func(index.Index) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", tm.Coeff.String())
	for _, t := range tm.Tensors {
		b.WriteByte(' ')
		b.WriteString(t.Label)
		b.WriteByte('[')
		for _, x := range t.Upper {
			b.WriteString(label(x))
		}
		b.WriteByte(',')
		for _, x := range t.Lower {
			b.WriteString(label(x))
		}
		b.WriteByte(']')
	}
	if len(tm.SQOps) > 0 {
		b.WriteString(" {")
		for i, o := range tm.SQOps {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(label(o.Index))
			if o.Cre {
				b.WriteByte('+')
			} else {
				b.WriteByte('-')
			}
		}
		b.WriteByte('}')
	}
	return b.String()
}
