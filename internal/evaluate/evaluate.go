// Package evaluate turns one canonical composite contraction into a scored
// symbolic term: it assigns second-quantized operator indices, inserts the
// density-cumulant tensors each elementary contraction contributes,
// computes the Fermi sign via permutation parity, and folds in the
// combinatorial prefactor. This is the evaluation step of the contraction
// engine, grounded directly on the reference implementation's
// evaluate_contraction (six numbered steps, preserved here as the Step 1
// through Step 6 comments below).
package evaluate

import (
	"sort"

	"github.com/nsc-wicked/wicked/internal/combin"
	"github.com/nsc-wicked/wicked/internal/contraction"
	"github.com/nsc-wicked/wicked/internal/index"
	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/scalar"
	"github.com/nsc-wicked/wicked/internal/space"
	"github.com/nsc-wicked/wicked/internal/term"
	"github.com/nsc-wicked/wicked/internal/wickederr"
)

// opMapKey locates one sqop emission by the (position, space,
// creation-or-not, local-slot) tuple Step 1 assigns it.
type opMapKey struct {
	Pos   int
	Space index.Space
	Cre   bool
	Local int
}

// sqopRec is one materialized second-quantized operator slot.
type sqopRec struct {
	idx  index.Index
	cre  bool
	pos  int
	sp   index.Space
	sign int // always -1; Evaluate keeps assigned sorted_positions in signOrder
}

// Evaluate evaluates one canonical composite contraction of ops into a
// canonicalized Term whose Coeff already carries the overall sign, or an
// error for an invariant violation. factor is the caller's running scalar prefactor
// (e.g. an accumulated commutator sign); callers fold it into Step 6
// themselves by passing scalar.One() and multiplying afterward, or by
// passing their own running factor directly.
func Evaluate(reg *space.Registry, ops []operator.Operator, c contraction.Composite, factor scalar.Scalar) (term.Term, error) {
	numSpaces := reg.NumSpaces()

	sqops, opMap, operatorTensors := materialize(reg, ops, numSpaces)

	signOrder := make([]int, len(sqops))
	for i := range signOrder {
		signOrder[i] = -1
	}
	sortedPosition := 0
	unoccupiedSign := 1
	reindex := make(map[index.Index]index.Index)
	var cumulantTensors []term.Tensor

	opsOffset := make([]struct{ Cre, Ann [8]int }, len(ops))

	// Step 2 — assign sorted positions contraction by contraction.
	for _, e := range c.Elems {
		sp := e.Space
		kind := reg.SpaceKind(sp)

		var creTouched, annTouched []int // sqop positions, in positional sweep order

		// Group this elementary contraction's legs by operator position,
		// preserving ascending-position sweep order.
		byPos := make(map[int][2]int) // pos -> (creCount, annCount)
		order := []int{}
		for _, l := range e.Legs {
			cnt := byPos[l.Pos]
			if l.Cre {
				cnt[0]++
			} else {
				cnt[1]++
			}
			if _, seen := byPos[l.Pos]; !seen {
				order = append(order, l.Pos)
			}
			byPos[l.Pos] = cnt
		}
		sort.Ints(order)

		for _, A := range order {
			cnt := byPos[A]
			for i := 0; i < cnt[0]; i++ {
				local := opsOffset[A].Cre[sp]
				opsOffset[A].Cre[sp]++
				key := opMapKey{Pos: A, Space: sp, Cre: true, Local: local}
				sq, ok := opMap[key]
				if !ok {
					panic(wickederr.Invariantf("evaluate: op_map lookup miss for %+v", key))
				}
				creTouched = append(creTouched, sq)
			}
		}
		for _, A := range order {
			cnt := byPos[A]
			for i := 0; i < cnt[1]; i++ {
				local := opsOffset[A].Ann[sp]
				opsOffset[A].Ann[sp]++
				key := opMapKey{Pos: A, Space: sp, Cre: false, Local: local}
				sq, ok := opMap[key]
				if !ok {
					panic(wickederr.Invariantf("evaluate: op_map lookup miss for %+v", key))
				}
				annTouched = append(annTouched, sq)
			}
		}

		for _, sq := range creTouched {
			signOrder[sq] = sortedPosition
			sortedPosition++
		}
		for _, sq := range annTouched {
			signOrder[sq] = sortedPosition
			sortedPosition++
		}

		switch kind {
		case space.Occupied:
			if len(creTouched) != 1 || len(annTouched) != 1 {
				return term.Term{}, wickederr.Invariantf("evaluate: occupied elementary contraction with non-pair leg counts")
			}
			creIdx := sqops[creTouched[0]].idx
			annIdx := sqops[annTouched[0]].idx
			reindex[annIdx] = creIdx
		case space.Unoccupied:
			if len(creTouched) != 1 || len(annTouched) != 1 {
				return term.Term{}, wickederr.Invariantf("evaluate: unoccupied elementary contraction with non-pair leg counts")
			}
			creIdx := sqops[creTouched[0]].idx
			annIdx := sqops[annTouched[0]].idx
			reindex[creIdx] = annIdx
			unoccupiedSign *= -1
		case space.General:
			k := len(creTouched)
			lower := make([]index.Index, len(annTouched))
			for i, sq := range annTouched {
				lower[len(annTouched)-1-i] = sqops[sq].idx
			}
			upper := make([]index.Index, len(creTouched))
			for i, sq := range creTouched {
				upper[i] = sqops[sq].idx
			}
			label := "lambda"
			if k == 1 {
				creBeforeAnn := creTouched[0] < annTouched[0]
				if creBeforeAnn {
					label = "gamma1"
				} else {
					label = "eta1"
					unoccupiedSign *= -1
				}
			} else {
				label = "lambda" + itoa(k)
			}
			cumulantTensors = append(cumulantTensors, term.Tensor{Label: label, Upper: upper, Lower: lower})
		}
	}

	// Step 3 — order uncontracted operators: creations first then
	// annihilations, each ascending by space then appearance order.
	var leftoverCre, leftoverAnn []int
	for i, s := range sqops {
		if signOrder[i] != -1 {
			continue
		}
		if s.cre {
			leftoverCre = append(leftoverCre, i)
		} else {
			leftoverAnn = append(leftoverAnn, i)
		}
	}
	sortBySpaceThenIndex := func(ids []int) {
		sort.SliceStable(ids, func(a, b int) bool {
			return sqops[ids[a]].sp < sqops[ids[b]].sp
		})
	}
	sortBySpaceThenIndex(leftoverCre)
	sortBySpaceThenIndex(leftoverAnn)
	for _, i := range leftoverCre {
		signOrder[i] = sortedPosition
		sortedPosition++
	}
	for _, i := range leftoverAnn {
		signOrder[i] = sortedPosition
		sortedPosition++
	}

	// Step 4 — sign and leftover operators.
	sign := unoccupiedSign * combin.PermutationParity(signOrder)

	totalContracted := len(sqops) - len(leftoverCre) - len(leftoverAnn)
	type withPos struct {
		i   int
		pos int
	}
	all := make([]withPos, len(sqops))
	for i := range sqops {
		all[i] = withPos{i: i, pos: signOrder[i]}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].pos < all[b].pos })

	var leftover []term.SQOperator
	for _, w := range all[totalContracted:] {
		s := sqops[w.i]
		leftover = append(leftover, term.SQOperator{Index: s.idx, Cre: s.cre})
	}

	// Step 5 — assemble.
	var tensors []term.Tensor
	tensors = append(tensors, operatorTensors...)
	tensors = append(tensors, cumulantTensors...)

	t := term.Term{
		Coeff:   scalar.One(),
		Tensors: tensors,
		SQOps:   leftover,
	}
	t = t.Reindex(reindex)

	// Step 6 — scalars.
	coeff := factor
	for _, op := range ops {
		coeff = coeff.Mul(op.Factor)
	}
	if sign < 0 {
		coeff = coeff.Neg()
	}
	coeff = coeff.Mul(combinatorialFactor(ops, c, numSpaces))
	t.Coeff = coeff

	canonical := t.Canonicalize()
	return canonical, nil
}

// materialize implements Step 1: it builds the flat sqop array, the
// position/space/cre/local lookup table, and each operator's own tensor of
// uncontracted legs (before any contraction has happened — every leg is
// "uncontracted" at this point, so every operator always gets a tensor;
// contraction later reindexes or removes the indices that get absorbed).
func materialize(reg *space.Registry, ops []operator.Operator, numSpaces int) ([]sqopRec, map[opMapKey]int, []term.Tensor) {
	counter := index.NewCounter()
	var sqops []sqopRec
	opMap := make(map[opMapKey]int)
	tensors := make([]term.Tensor, len(ops))

	for p, op := range ops {
		var creBySpace [8][]index.Index
		var annBySpace [8][]index.Index
		for _, l := range op.Legs {
			if l.Cre {
				creBySpace[l.Index.Space] = append(creBySpace[l.Index.Space], l.Index)
			} else {
				annBySpace[l.Index.Space] = append(annBySpace[l.Index.Space], l.Index)
			}
		}

		var lower []index.Index // cre indices in order
		for s := 0; s < numSpaces; s++ {
			for local := range creBySpace[s] {
				newIdx := counter.Next(index.Space(s))
				opMap[opMapKey{Pos: p, Space: index.Space(s), Cre: true, Local: local}] = len(sqops)
				sqops = append(sqops, sqopRec{idx: newIdx, cre: true, pos: p, sp: index.Space(s), sign: -1})
				lower = append(lower, newIdx)
			}
		}

		var annEmitted []index.Index // emission order, descending space & local slot
		for s := numSpaces - 1; s >= 0; s-- {
			legs := annBySpace[s]
			for local := len(legs) - 1; local >= 0; local-- {
				newIdx := counter.Next(index.Space(s))
				opMap[opMapKey{Pos: p, Space: index.Space(s), Cre: false, Local: local}] = len(sqops)
				sqops = append(sqops, sqopRec{idx: newIdx, cre: false, pos: p, sp: index.Space(s), sign: -1})
				annEmitted = append(annEmitted, newIdx)
			}
		}
		upper := make([]index.Index, len(annEmitted))
		for i, x := range annEmitted {
			upper[len(annEmitted)-1-i] = x
		}

		label := op.Label
		if label == "" {
			label = "op"
		}
		tensors[p] = term.Tensor{Label: label, Lower: lower, Upper: upper}
	}
	return sqops, opMap, tensors
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
