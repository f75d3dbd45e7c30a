package operator

import (
	"strings"

	"github.com/nsc-wicked/wicked/internal/index"
	"github.com/nsc-wicked/wicked/internal/scalar"
	"github.com/nsc-wicked/wicked/internal/space"
	"github.com/nsc-wicked/wicked/internal/wickederr"
)

func notArrowErr(desc string) error {
	return wickederr.Unsupportedf("operator: descriptor %q missing \"->\"", desc)
}

func notFoundErr(lbl string) error {
	return wickederr.Unsupportedf("operator: unknown space label %q", lbl)
}

// FromSpaceString builds a single Operator from one "ann1 ann2 -> cre1
// cre2"-style descriptor: tokens before "->" name annihilation-space
// labels in order, tokens after name creation-space labels in order. The
// legs it produces carry only a space identifier; the evaluator assigns
// their actual running index when it materializes the operator string, so
// the placeholder index N here is always zero.
//
// The operator's Factor is set to the standard antisymmetrized-tensor
// normalization 1/(∏ n_s!) over every (space, direction) that carries more
// than one leg — e.g. a two-body amplitude built from "oo->vv" carries
// 1/(2!·2!) = 1/4, matching how a cluster or two-electron-integral tensor
// like t^{ij}_{ab} or v^{ab}_{ij} is conventionally defined in second
// quantization. A descriptor with at most one leg per (space, direction),
// like T1's "o->v", is unaffected (factor stays 1).
func FromSpaceString(reg *space.Registry, label string, desc string) (Operator, error) {
	left, right, ok := strings.Cut(desc, "->")
	if !ok {
		return Operator{}, notArrowErr(desc)
	}
	var legs []Leg
	for _, lbl := range strings.Fields(left) {
		sp, err := resolveLabel(reg, lbl)
		if err != nil {
			return Operator{}, err
		}
		legs = append(legs, Leg{Index: index.Index{Space: sp}, Cre: false})
	}
	for _, lbl := range strings.Fields(right) {
		sp, err := resolveLabel(reg, lbl)
		if err != nil {
			return Operator{}, err
		}
		legs = append(legs, Leg{Index: index.Index{Space: sp}, Cre: true})
	}
	return Operator{Legs: legs, Label: label, Factor: antisymmetryFactor(legs)}, nil
}

// antisymmetryFactor returns 1/(∏ n_s!) over every (space, direction) pair
// among legs, n_s being how many legs share that pair.
func antisymmetryFactor(legs []Leg) scalar.Scalar {
	cre := map[index.Space]int{}
	ann := map[index.Space]int{}
	for _, l := range legs {
		if l.Cre {
			cre[l.Index.Space]++
		} else {
			ann[l.Index.Space]++
		}
	}
	f := scalar.One()
	for _, n := range cre {
		f = f.Quo(scalar.FromInt(factorial(n)))
	}
	for _, n := range ann {
		f = f.Quo(scalar.FromInt(factorial(n)))
	}
	return f
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}

// MakeFromSpaceStrings builds an Expression with one term per descriptor in
// descs, each built via FromSpaceString and given coefficient 1.
func MakeFromSpaceStrings(reg *space.Registry, label string, descs ...string) (Expression, error) {
	var terms []Term
	for _, d := range descs {
		op, err := FromSpaceString(reg, label, d)
		if err != nil {
			return Expression{}, err
		}
		terms = append(terms, Term{Coeff: scalar.One(), Ops: []Operator{op}})
	}
	return Expression{Terms: terms}, nil
}

func resolveLabel(reg *space.Registry, lbl string) (index.Space, error) {
	sp, ok := reg.FindByLabel(lbl)
	if ok {
		return sp, nil
	}
	sp, ok = reg.FindByName(lbl)
	if ok {
		return sp, nil
	}
	return 0, notFoundErr(lbl)
}
