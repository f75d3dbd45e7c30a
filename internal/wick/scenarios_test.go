package wick_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsc-wicked/wicked/internal/operator"
	"github.com/nsc-wicked/wicked/internal/scalar"
	"github.com/nsc-wicked/wicked/internal/wick"
)

// TestContractSingleExcitationProjectsToOneTerm reproduces the canonical
// T1/F contraction: F = f^{a}_{i} (one Cre occ, Ann virt per the "a->i"
// descriptor) and T1 = t^{i}_{a} ("i->a"); fully contracting F*T1 leaves a
// single scalar term with unit coefficient and no uncontracted operators,
// the two tensors sharing the pair of dummy indices the contraction
// identified.
func TestContractSingleExcitationProjectsToOneTerm(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	f, err := operator.FromSpaceString(reg, "f", "a -> i")
	require.NoError(t, err)
	t1, err := operator.FromSpaceString(reg, "t", "i -> a")
	require.NoError(t, err)

	result, err := th.Contract(scalar.One(), []operator.Operator{f, t1}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	tm := result.Terms()[0]
	assert.True(t, tm.Coeff.Equal(scalar.One()), "coefficient must be exactly 1, got %s", tm.Coeff.String())
	assert.Empty(t, tm.SQOps, "a fully contracted single excitation leaves no uncontracted operators")
	require.Len(t, tm.Tensors, 2)

	fT, tT := tm.Tensors[0], tm.Tensors[1]
	if fT.Label != "f" {
		fT, tT = tT, fT
	}
	require.Equal(t, "f", fT.Label)
	require.Equal(t, "t", tT.Label)
	require.Len(t, fT.Upper, 1)
	require.Len(t, fT.Lower, 1)
	require.Len(t, tT.Upper, 1)
	require.Len(t, tT.Lower, 1)
	assert.Equal(t, fT.Upper[0], tT.Lower[0], "f's virt index must be the same dummy as t's")
	assert.Equal(t, fT.Lower[0], tT.Upper[0], "f's occ index must be the same dummy as t's")
}

// TestContractDoubleExcitationCarriesOneQuarterFactor reproduces the
// canonical V*T2 double-excitation energy contraction: T2 = t^{ij}_{ab}
// ("i j -> a b") and V = v^{ab}_{ij} ("a b -> i j"), each an antisymmetrized
// two-body tensor and so each contributing its own 1/(2!·2!) = 1/4 factor.
// Fully contracting V*T2 leaves a single scalar term whose coefficient is
// exactly 1/4: the combinatorial factor from saturating two legs per space
// with repeated elementary contractions is 4, canceling against the two
// operators' combined 1/16.
func TestContractDoubleExcitationCarriesOneQuarterFactor(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	v, err := operator.FromSpaceString(reg, "v", "a b -> i j")
	require.NoError(t, err)
	t2, err := operator.FromSpaceString(reg, "t", "i j -> a b")
	require.NoError(t, err)

	result, err := th.Contract(scalar.One(), []operator.Operator{v, t2}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	tm := result.Terms()[0]
	assert.True(t, tm.Coeff.Equal(scalar.FromFrac(1, 4)), "coefficient must be exactly 1/4, got %s", tm.Coeff.String())
	assert.Empty(t, tm.SQOps, "a fully contracted double excitation leaves no uncontracted operators")
	require.Len(t, tm.Tensors, 2)

	vT, tT := tm.Tensors[0], tm.Tensors[1]
	if vT.Label != "v" {
		vT, tT = tT, vT
	}
	require.Equal(t, "v", vT.Label)
	require.Equal(t, "t", tT.Label)
	require.Len(t, vT.Upper, 2)
	require.Len(t, vT.Lower, 2)
	require.Len(t, tT.Upper, 2)
	require.Len(t, tT.Lower, 2)
	assert.ElementsMatch(t, vT.Upper, tT.Lower, "v's virt legs must be t's own dummy indices")
	assert.ElementsMatch(t, vT.Lower, tT.Upper, "v's occ legs must be t's own dummy indices")
}

// TestContractTwoSingleExcitationsAgainstVKeepsHalfFactor exercises
// contract(1/2, V*T1*T1, 0, 0): with both T1 operators single-leg per
// space, neither contributes an antisymmetrization factor beyond 1, so the
// caller's explicit 1/2 survives unchanged into the single resulting term.
func TestContractTwoSingleExcitationsAgainstVKeepsHalfFactor(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	v, err := operator.FromSpaceString(reg, "v", "a b -> i j")
	require.NoError(t, err)
	t1a, err := operator.FromSpaceString(reg, "t", "i -> a")
	require.NoError(t, err)
	t1b, err := operator.FromSpaceString(reg, "t", "j -> b")
	require.NoError(t, err)

	result, err := th.Contract(scalar.FromFrac(1, 2), []operator.Operator{v, t1a, t1b}, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	tm := result.Terms()[0]
	assert.True(t, tm.Coeff.Equal(scalar.FromFrac(1, 2)), "coefficient must be exactly 1/2, got %s", tm.Coeff.String())
	assert.Empty(t, tm.SQOps)
	require.Len(t, tm.Tensors, 3)
}

// TestContractSingleFockOccToVirtProjectsToItselfUnchanged exercises E4: a
// bare f^{i}_{a}-shaped operator contracted at [2,2] (no contraction at
// all, since it only has two legs) leaves its own tensor untouched on the
// right-hand side of the would-be residual equation.
func TestContractSingleFockOccToVirtProjectsToItselfUnchanged(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	f, err := operator.FromSpaceString(reg, "f", "i -> a")
	require.NoError(t, err)

	result, err := th.Contract(scalar.One(), []operator.Operator{f}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	tm := result.Terms()[0]
	assert.True(t, tm.Coeff.Equal(scalar.One()))
	require.Len(t, tm.Tensors, 1)
	assert.Equal(t, "f", tm.Tensors[0].Label)
	require.Len(t, tm.SQOps, 2)
}

// TestContractFvvT1YieldsFbaTib exercises E5: Fvv*T1 contracted down to the
// rank-2 band leaves f^{b}_{a} t^{i}_{b}, the dummy virt index b shared
// between Fvv's upper index and T1's lower index.
func TestContractFvvT1YieldsFbaTib(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	fvv, err := operator.FromSpaceString(reg, "f", "b -> a")
	require.NoError(t, err)
	t1, err := operator.FromSpaceString(reg, "t", "i -> b")
	require.NoError(t, err)

	result, err := th.Contract(scalar.One(), []operator.Operator{fvv, t1}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	tm := result.Terms()[0]
	assert.True(t, tm.Coeff.Equal(scalar.One()), "coefficient must be exactly 1, got %s", tm.Coeff.String())
	require.Len(t, tm.SQOps, 2)
	require.Len(t, tm.Tensors, 2)

	fT, tT := tm.Tensors[0], tm.Tensors[1]
	if fT.Label != "f" {
		fT, tT = tT, fT
	}
	require.Len(t, fT.Upper, 1)
	require.Len(t, fT.Lower, 1)
	require.Len(t, tT.Upper, 1)
	require.Len(t, tT.Lower, 1)
	assert.Equal(t, fT.Upper[0], tT.Lower[0], "the contracted virt dummy must be Fvv's ann leg and T1's cre leg")
}

// TestContractFooT1YieldsNegativeFijTja exercises E6: Foo*T1 contracted
// down to the rank-2 band leaves -f^{i}_{j} t^{j}_{a}. Both E5 and E6 get a
// minus from the Fermi permutation parity; in E5's virtual-space
// contraction the unoccupied_sign cancels it, while this occupied-space
// contraction has no unoccupied_sign, so the minus survives.
func TestContractFooT1YieldsNegativeFijTja(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	foo, err := operator.FromSpaceString(reg, "f", "j -> i")
	require.NoError(t, err)
	t1, err := operator.FromSpaceString(reg, "t", "j -> a")
	require.NoError(t, err)

	result, err := th.Contract(scalar.One(), []operator.Operator{foo, t1}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	tm := result.Terms()[0]
	assert.True(t, tm.Coeff.Equal(scalar.FromInt(-1)), "coefficient must be exactly -1, got %s", tm.Coeff.String())
	require.Len(t, tm.SQOps, 2)
	require.Len(t, tm.Tensors, 2)
}

// TestContractExpressionDistributesOverSumOfOperators exercises spec.md's
// linearity property (P2/§8.8): contracting α·A + β·B must equal
// α·contract(A) + β·contract(B), term for term.
func TestContractExpressionDistributesOverSumOfOperators(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	a, err := operator.FromSpaceString(reg, "g", "i -> a")
	require.NoError(t, err)
	b, err := operator.FromSpaceString(reg, "h", "j -> b")
	require.NoError(t, err)

	alpha, beta := scalar.FromFrac(2, 3), scalar.FromFrac(-1, 5)
	sum := operator.Single(a).Scale(alpha).Add(operator.Single(b).Scale(beta))

	combined, err := th.ContractExpression(scalar.One(), sum, 2, 2)
	require.NoError(t, err)

	viaA, err := th.Contract(alpha, []operator.Operator{a}, 2, 2)
	require.NoError(t, err)
	viaB, err := th.Contract(beta, []operator.Operator{b}, 2, 2)
	require.NoError(t, err)

	separate := wick.NewExpression()
	separate.Merge(viaA)
	separate.Merge(viaB)

	require.Equal(t, separate.Len(), combined.Len())
	combinedByKey := map[string]string{}
	for _, tm := range combined.Terms() {
		combinedByKey[tm.Key()] = tm.Coeff.String()
	}
	for _, tm := range separate.Terms() {
		got, ok := combinedByKey[tm.Key()]
		require.True(t, ok, "term %s missing from the distributed contraction", tm.Key())
		assert.Equal(t, tm.Coeff.String(), got)
	}
}

// TestContractExpressionCommutatorIsAntisymmetric exercises spec.md's
// commutator-antisymmetry property (P3/§8.9): commutator(A,B) and
// commutator(B,A) contract to expressions whose matching terms carry
// negated coefficients.
func TestContractExpressionCommutatorIsAntisymmetric(t *testing.T) {
	reg := testRegistry(t)
	th := wick.NewTheorem(reg)

	a, err := operator.FromSpaceString(reg, "g", "i -> a")
	require.NoError(t, err)
	b, err := operator.FromSpaceString(reg, "h", "j -> b")
	require.NoError(t, err)

	ea, eb := operator.Single(a), operator.Single(b)

	ab, err := th.ContractExpression(scalar.One(), ea.Commutator(eb), 0, 4)
	require.NoError(t, err)
	ba, err := th.ContractExpression(scalar.One(), eb.Commutator(ea), 0, 4)
	require.NoError(t, err)

	require.Equal(t, ab.Len(), ba.Len())
	abByKey := map[string]string{}
	for _, tm := range ab.Terms() {
		abByKey[tm.Key()] = tm.Coeff.String()
	}
	for _, tm := range ba.Terms() {
		negated := tm.Coeff.Neg()
		want, ok := abByKey[tm.Key()]
		require.True(t, ok, "term %s of commutator(B,A) has no match in commutator(A,B)", tm.Key())
		assert.Equal(t, want, negated.String())
	}
}
