// Package contraction implements elementary Wick contraction enumeration
// and the backtracking search that assembles elementary contractions into
// composite contractions of an operator string.
package contraction

import (
	"fmt"
	"strings"

	"github.com/nsc-wicked/wicked/internal/combin"
	"github.com/nsc-wicked/wicked/internal/index"
	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/space"
	"github.com/nsc-wicked/wicked/internal/vertex"
)

// Leg identifies one abstract leg an elementary contraction consumes: a
// generic creation or annihilation leg belonging to operator position Pos.
// Which physical leg of that position is chosen is not tracked here — the
// combinatorial factor (package evaluate) accounts for the number of
// equivalent choices, and the evaluator's per-position offset counters
// consume legs in a fixed deterministic order.
type Leg struct {
	Pos int
	Cre bool
}

// Elementary is one elementary Wick contraction: a minimal, fully
// connected group of legs touching two or more operator positions within a
// single orbital space — a cre/ann pair for Occupied/Unoccupied spaces, or
// up to 2*MaxCumulant legs for a General-space cumulant.
type Elementary struct {
	Legs  []Leg
	Space index.Space
}

// Positions returns the distinct operator positions e touches.
func (e Elementary) Positions() []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range e.Legs {
		if !seen[l.Pos] {
			seen[l.Pos] = true
			out = append(out, l.Pos)
		}
	}
	return out
}

// Enumerator generates every elementary contraction available for a given
// operator string, grouped by orbital space.
type Enumerator struct {
	Reg *space.Registry
}

// NewEnumerator builds an Enumerator bound to reg.
func NewEnumerator(reg *space.Registry) *Enumerator {
	return &Enumerator{Reg: reg}
}

// Enumerate returns every elementary contraction available among the
// positions of ops, in the deterministic order spec'd: outer loop over
// spaces in registration order, inner loop by space kind.
func (en *Enumerator) Enumerate(ops []operator.Operator) []Elementary {
	numSpaces := en.Reg.NumSpaces()
	verts := make([]vertex.Vertex, len(ops))
	for i, op := range ops {
		verts[i] = op.Vertex(numSpaces)
	}

	var out []Elementary
	for s := 0; s < numSpaces; s++ {
		sp := index.Space(s)
		switch en.Reg.SpaceKind(sp) {
		case space.Occupied:
			out = append(out, pairContractions(sp, verts, false)...)
		case space.Unoccupied:
			out = append(out, pairContractions(sp, verts, true)...)
		case space.General:
			out = append(out, cumulantContractions(sp, verts, en.Reg.MaxCumulant())...)
		}
	}
	return out
}

// pairContractions implements the Occupied/Unoccupied algorithm: for every
// ordered pair of positions i<j, if position i offers the "leading" leg
// (creation for Occupied, annihilation for Unoccupied) and position j
// offers the other, emit one elementary contraction pairing them.
func pairContractions(sp index.Space, verts []vertex.Vertex, swapped bool) []Elementary {
	var out []Elementary
	n := len(verts)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			lead, trail := verts[i][sp], verts[j][sp]
			leadHas, trailHas := lead.Cre >= 1, trail.Ann >= 1
			leadCre, trailCre := true, false
			if swapped {
				leadHas, trailHas = lead.Ann >= 1, trail.Cre >= 1
				leadCre, trailCre = false, true
			}
			if leadHas && trailHas {
				out = append(out, Elementary{
					Space: sp,
					Legs: []Leg{
						{Pos: i, Cre: leadCre},
						{Pos: j, Cre: trailCre},
					},
				})
			}
		}
	}
	return out
}

// cumulantContractions implements the General-space algorithm: for each
// cumulant order k from 1 to maxCumulant, enumerate every composition of k
// creation legs and every composition of k annihilation legs across the N
// operator positions (zero-padded integer partitions, permuted), filter by
// each position's actual leg capacity, and keep only combinations touching
// at least two positions.
func cumulantContractions(sp index.Space, verts []vertex.Vertex, maxCumulant int) []Elementary {
	n := len(verts)
	maxCre, maxAnn := 0, 0
	for _, v := range verts {
		maxCre += v[sp].Cre
		maxAnn += v[sp].Ann
	}
	kMax := maxCumulant
	if maxCre < kMax {
		kMax = maxCre
	}
	if maxAnn < kMax {
		kMax = maxAnn
	}

	var out []Elementary
	for k := 1; k <= kMax; k++ {
		creCompositions := compositions(k, n, func(pos, legs int) bool { return verts[pos][sp].Cre >= legs })
		annCompositions := compositions(k, n, func(pos, legs int) bool { return verts[pos][sp].Ann >= legs })
		for _, cre := range creCompositions {
			for _, ann := range annCompositions {
				touched := 0
				for A := 0; A < n; A++ {
					if cre[A]+ann[A] > 0 {
						touched++
					}
				}
				if touched < 2 {
					continue
				}
				var legs []Leg
				for A := 0; A < n; A++ {
					for i := 0; i < cre[A]; i++ {
						legs = append(legs, Leg{Pos: A, Cre: true})
					}
				}
				for A := 0; A < n; A++ {
					for i := 0; i < ann[A]; i++ {
						legs = append(legs, Leg{Pos: A, Cre: false})
					}
				}
				out = append(out, Elementary{Space: sp, Legs: legs})
			}
		}
	}
	return out
}

// compositions returns every distinct composition of k into n
// non-negative parts (a zero-padded integer partition of k into at most n
// parts, permuted every distinct way) that also satisfies capacity(pos,
// parts[pos]) at every position.
func compositions(k, n int, capacity func(pos, legs int) bool) [][]int {
	seen := make(map[string]bool)
	var result [][]int
	for _, partition := range combin.IntegerPartitions(k, n) {
		perm := append([]int(nil), partition...)
		for {
			key := compositionKey(perm)
			if !seen[key] {
				seen[key] = true
				ok := true
				for pos, legs := range perm {
					if legs > 0 && !capacity(pos, legs) {
						ok = false
						break
					}
				}
				if ok {
					result = append(result, append([]int(nil), perm...))
				}
			}
			if !combin.NextPermutation(perm) {
				break
			}
		}
	}
	return result
}

func compositionKey(p []int) string {
	var b strings.Builder
	for _, x := range p {
		fmt.Fprintf(&b, "%d.", x)
	}
	return b.String()
}
