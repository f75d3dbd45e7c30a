package evaluate

import (
	"fmt"
	"strings"

	"github.com/nsc-wicked/wicked/internal/combin"
	"github.com/nsc-wicked/wicked/internal/contraction"
	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/scalar"
	"github.com/nsc-wicked/wicked/internal/vertex"
)

// combinatorialFactor implements the contraction engine's combinatorial
// prefactor: each elementary contraction chooses its creation (and
// annihilation) legs out of the free legs still available at each operator
// position in that space, contributing a binomial coefficient per choice;
// free-leg counts are decremented as contractions are consumed in order.
// The running product is then divided by the factorial of the multiplicity
// of each distinct elementary contraction within the composite, since a
// composite that reuses one elementary contraction k times counts that
// choice only once up to reordering.
func combinatorialFactor(ops []operator.Operator, c contraction.Composite, numSpaces int) scalar.Scalar {
	free := make([]vertex.Vertex, len(ops))
	for i, op := range ops {
		free[i] = op.Vertex(numSpaces)
	}

	factor := scalar.One()
	for _, e := range c.Elems {
		creCount := make(map[int]int)
		annCount := make(map[int]int)
		for _, l := range e.Legs {
			if l.Cre {
				creCount[l.Pos]++
			} else {
				annCount[l.Pos]++
			}
		}
		for pos, k := range creCount {
			cnt := free[pos][e.Space]
			factor = factor.Mul(scalar.FromInt(combin.Binomial(cnt.Cre, k)))
			cnt.Cre -= k
			free[pos][e.Space] = cnt
		}
		for pos, k := range annCount {
			cnt := free[pos][e.Space]
			factor = factor.Mul(scalar.FromInt(combin.Binomial(cnt.Ann, k)))
			cnt.Ann -= k
			free[pos][e.Space] = cnt
		}
	}

	mult := make(map[string]int)
	for _, e := range c.Elems {
		mult[elemSignature(e)]++
	}
	seen := make(map[string]bool)
	for _, e := range c.Elems {
		sig := elemSignature(e)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		if m := mult[sig]; m > 1 {
			factor = factor.Quo(scalar.FromInt(factorial(m)))
		}
	}
	return factor
}

func elemSignature(e contraction.Elementary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "s%d:", e.Space)
	for _, l := range e.Legs {
		if l.Cre {
			fmt.Fprintf(&b, "c%d;", l.Pos)
		} else {
			fmt.Fprintf(&b, "a%d;", l.Pos)
		}
	}
	return b.String()
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
