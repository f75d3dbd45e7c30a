package contraction_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsc-wicked/wicked/internal/contraction"
	"github.com/nsc-wicked/wicked/internal/index"
	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/space"
	"github.com/nsc-wicked/wicked/internal/vertex"
)

func propertyRegistry(t *testing.T) *space.Registry {
	t.Helper()
	reg, err := space.FromFile(space.File{
		Spaces: []space.Def{
			{Name: "occ", Kind: "occupied", Labels: []string{"i", "j", "k"}},
			{Name: "virt", Kind: "unoccupied", Labels: []string{"a", "b", "c"}},
			{Name: "gen", Kind: "general", Labels: []string{"p", "q", "r"}},
		},
		MaxCumulant: 2,
	})
	require.NoError(t, err)
	return reg
}

// randomOperatorString builds an operator string of n positions, each with
// a random number of legs (0..maxLegsPerOp) drawn from every available
// space, pulling every choice from rng so the whole string is reproducible
// from a fixed seed.
func randomOperatorString(rng *rand.Rand, reg *space.Registry, n, maxLegsPerOp int) []operator.Operator {
	spaces := reg.Spaces()
	ops := make([]operator.Operator, n)
	for i := range ops {
		legCount := rng.Intn(maxLegsPerOp + 1)
		legs := make([]operator.Leg, legCount)
		for j := range legs {
			sp := spaces[rng.Intn(len(spaces))]
			legs[j] = operator.Leg{Index: index.Index{Space: sp}, Cre: rng.Intn(2) == 0}
		}
		ops[i] = operator.MakeOperator(legs...)
	}
	return ops
}

// TestEnumerateSatisfiesUniversalInvariantsUnderRandomStrings generates
// bounded-rank random operator strings from a fixed seed and checks every
// elementary contraction the enumerator offers against the universal
// invariants: it touches at least two distinct positions, it is supported
// on exactly one space, a general-space contraction never exceeds the
// registry's cumulant rank bound, and every leg it names is backed by a
// leg the naming operator actually has.
func TestEnumerateSatisfiesUniversalInvariantsUnderRandomStrings(t *testing.T) {
	reg := propertyRegistry(t)
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(3) // 2..4 positions
		ops := randomOperatorString(rng, reg, n, 3)
		opVerts := make([]vertex.Vertex, n)
		for i, op := range ops {
			opVerts[i] = op.Vertex(reg.NumSpaces())
		}

		en := contraction.NewEnumerator(reg)
		pool := en.Enumerate(ops)

		for _, e := range pool {
			positions := e.Positions()
			require.GreaterOrEqual(t, len(positions), 2, "trial %d: elementary contraction %+v touches fewer than two positions", trial, e)

			if reg.SpaceKind(e.Space) == space.General {
				require.LessOrEqual(t, len(e.Legs), 2*reg.MaxCumulant(), "trial %d: cumulant contraction %+v exceeds the rank bound", trial, e)
			}

			perLeg := make(map[[2]int]int) // (pos, cre) -> count requested
			for _, l := range e.Legs {
				key := [2]int{l.Pos, boolToInt(l.Cre)}
				perLeg[key]++
			}
			for key, want := range perLeg {
				cnt := opVerts[key[0]][e.Space]
				have := cnt.Ann
				if key[1] == 1 {
					have = cnt.Cre
				}
				require.GreaterOrEqual(t, have, want, "trial %d: elementary contraction %+v requests more legs than position %d actually has in space %d", trial, e, key[0], e.Space)
			}
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// TestGenerateNeverExceedsOperatorCapacityUnderRandomStrings checks the
// generator's half of the universal invariants: for every composite it
// produces, no operator position is ever asked to supply more legs (in any
// space, in either direction) than it actually has — the leg-conservation
// invariant that free legs plus touched legs must never exceed an
// operator's own vertex.
func TestGenerateNeverExceedsOperatorCapacityUnderRandomStrings(t *testing.T) {
	reg := propertyRegistry(t)
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 100; trial++ {
		n := 2 + rng.Intn(3)
		ops := randomOperatorString(rng, reg, n, 3)
		opVerts := make([]vertex.Vertex, n)
		totalRank := 0
		for i, op := range ops {
			opVerts[i] = op.Vertex(reg.NumSpaces())
			totalRank += opVerts[i].Rank()
		}

		en := contraction.NewEnumerator(reg)
		pool := en.Enumerate(ops)
		gen := contraction.NewGenerator(pool, opVerts)
		composites := gen.Generate(0, totalRank)

		for _, c := range composites {
			touched := make([]vertex.Vertex, n)
			for _, e := range c.Elems {
				for _, l := range e.Legs {
					cnt := touched[l.Pos][e.Space]
					if l.Cre {
						cnt.Cre++
					} else {
						cnt.Ann++
					}
					touched[l.Pos][e.Space] = cnt
				}
			}
			for pos := 0; pos < n; pos++ {
				require.True(t, opVerts[pos].GE(touched[pos]), "trial %d: composite touches more legs at position %d than it has", trial, pos)
			}
		}
	}
}
