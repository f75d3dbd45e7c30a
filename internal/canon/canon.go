// Package canon implements composite-contraction canonicalization: given a
// composite contraction over an operator string, find the permutation of
// operator positions and the matching permutation of its elementary
// contractions that produces the lexicographically smallest signature, so
// that two composites related by the joint symmetry of relabeling operator
// positions and reordering elementary contractions are recognized as
// equivalent. The winning permutation is applied to both the composite and
// the operator string itself before either is handed back, so a caller
// never has to carry the permutation around separately.
//
// Canonicalization contributes no sign of its own; the full sign of a
// contracted term comes entirely from the Fermi permutation parity
// computed during evaluation (see internal/evaluate). This mirrors the
// reference implementation's own contraction canonicalizer, which computes
// and discards a candidate sign at this stage.
package canon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nsc-wicked/wicked/internal/combin"
	"github.com/nsc-wicked/wicked/internal/contraction"
	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/vertex"
	"github.com/nsc-wicked/wicked/internal/wickederr"
)

// connectivity is a bitmask per operator position recording which other
// positions share an elementary contraction with it. uint64 comfortably
// covers any operator string the engine is expected to canonicalize.
type connectivity []uint64

func buildConnectivity(c contraction.Composite, numPos int) connectivity {
	conn := make(connectivity, numPos)
	for _, e := range c.Elems {
		for i := range e.Legs {
			for j := range e.Legs {
				if i == j {
					continue
				}
				conn[e.Legs[i].Pos] |= 1 << uint(e.Legs[j].Pos)
			}
		}
	}
	return conn
}

// Result is the outcome of canonicalizing one composite contraction.
type Result struct {
	// Positions is the permutation of operator positions, Positions[i]
	// being where original position i is mapped.
	Positions []int
	// Ops is the original operator string reordered by the winning
	// permutation: Ops[Positions[i]] is the operator that started at i.
	Ops []operator.Operator
	// Composite is c with its elementary contractions reordered (and their
	// leg positions remapped through Positions) into canonical order, so
	// its leg positions index directly into Ops.
	Composite contraction.Composite
	Signature string
}

// Canonicalize returns the canonical form of c over the operator string
// ops. Every permutation of len(ops) positions is generated and then
// filtered by the allowed predicate below, this package's equivalent of
// the reference canonicalizer's "leftmask" constraint: it rejects any
// permutation that would reorder two connected positions relative to each
// other, which is exactly the relabeling the joint symmetry forbids.
//
// Canonicalize refuses any operator string where some operator has an odd
// total leg count: the contraction engine only ever produces elementary
// contractions in matched pairs (or, for general-space cumulants, matched
// creation/annihilation counts), so an odd-rank operator can never be
// reconciled with that structure and canonicalizing it is a caller error.
func Canonicalize(ops []operator.Operator, c contraction.Composite) (Result, error) {
	for i, op := range ops {
		if op.Rank()%2 != 0 {
			return Result{}, wickederr.Unsupportedf("canon: operator %d (%q) has odd rank %d", i, op.Label, op.Rank())
		}
	}

	numPos := len(ops)
	conn := buildConnectivity(c, numPos)

	perm := make([]int, numPos)
	for i := range perm {
		perm[i] = i
	}

	best := Result{}
	haveBest := false

	for {
		if allowed(conn, perm) {
			cand := applyPermutation(c, perm)
			permOps := applyOpsPermutation(ops, perm)
			sig := signature(permOps, cand)
			if !haveBest || sig < best.Signature {
				best = Result{
					Positions: append([]int(nil), perm...),
					Ops:       permOps,
					Composite: cand,
					Signature: sig,
				}
				haveBest = true
			}
		}
		if !combin.NextPermutation(perm) {
			break
		}
	}
	return best, nil
}

// allowed reports whether applying perm to the connectivity structure
// respects the ordering constraint that connected positions must remain
// ordered consistently with their original relative order within each
// elementary contraction's leg list; this is the filter that keeps
// canonicalization from conflating composites that aren't actually related
// by the joint symmetry.
func allowed(conn connectivity, perm []int) bool {
	for i := range conn {
		for j := range conn {
			if i == j {
				continue
			}
			if conn[i]&(1<<uint(j)) == 0 {
				continue
			}
			// i and j are connected: their relative order under perm must
			// match their relative order originally.
			if (i < j) != (perm[i] < perm[j]) {
				return false
			}
		}
	}
	return true
}

func applyPermutation(c contraction.Composite, perm []int) contraction.Composite {
	elems := make([]contraction.Elementary, len(c.Elems))
	for i, e := range c.Elems {
		legs := make([]contraction.Leg, len(e.Legs))
		for j, l := range e.Legs {
			legs[j] = contraction.Leg{Pos: perm[l.Pos], Cre: l.Cre}
		}
		elems[i] = contraction.Elementary{Space: e.Space, Legs: legs}
	}
	sort.Slice(elems, func(i, j int) bool {
		return elemKey(elems[i]) < elemKey(elems[j])
	})
	return contraction.Composite{Elems: elems}
}

// applyOpsPermutation reorders ops the same way applyPermutation reorders a
// composite's leg positions, so a composite's Pos fields and the returned
// operator slice always agree on which operator sits at which position.
func applyOpsPermutation(ops []operator.Operator, perm []int) []operator.Operator {
	out := make([]operator.Operator, len(ops))
	for i, op := range ops {
		out[perm[i]] = op
	}
	return out
}

func elemKey(e contraction.Elementary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "s%d:", e.Space)
	for _, l := range e.Legs {
		if l.Cre {
			b.WriteByte('c')
		} else {
			b.WriteByte('a')
		}
		b.WriteString(itoa(l.Pos))
		b.WriteByte('.')
	}
	return b.String()
}

// signature is the canonical form's sort key: operator labels and
// per-space (creation, annihilation) leg counts under the candidate
// permutation come first, so two permutations are only ever compared on
// contraction structure (elemKey, appended after) once their operator
// content already ties. A signature driven only by position arithmetic
// would let two structurally symmetric but content-different orderings
// tie or rank arbitrarily.
func signature(permOps []operator.Operator, c contraction.Composite) string {
	var b strings.Builder
	for _, op := range permOps {
		b.WriteString(op.Label)
		b.WriteByte(':')
		v := op.Vertex(vertex.MaxSpaces)
		for s := 0; s < vertex.MaxSpaces; s++ {
			fmt.Fprintf(&b, "%d,%d;", v[s].Cre, v[s].Ann)
		}
		b.WriteByte('|')
	}
	for _, e := range c.Elems {
		b.WriteString(elemKey(e))
		b.WriteByte(';')
	}
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
