// Package operator implements the second-quantized operator algebra that
// feeds the contraction engine: single second-quantized operators built
// from creation/annihilation strings over orbital indices, and linear
// expressions (sums of scaled operators) closed under addition,
// subtraction, scaling, and the commutator.
package operator

import (
	"strings"

	"github.com/nsc-wicked/wicked/internal/index"
	"github.com/nsc-wicked/wicked/internal/scalar"
	"github.com/nsc-wicked/wicked/internal/vertex"
)

// Leg is one creation or annihilation operator within an Operator string.
type Leg struct {
	Index index.Index
	Cre   bool
}

// Operator is a single product of second-quantized creation/annihilation
// operators, e.g. a^{p}_{q} written as two legs [Cre p, Ann q]. Label
// names the tensor the evaluator builds for its own (uncontracted) legs,
// e.g. "h" or "t2"; Factor is a scalar prefactor (such as a 1/4 spin-orbital
// antisymmetrization factor) folded into every term the operator
// contributes to.
type Operator struct {
	Legs   []Leg
	Label  string
	Factor scalar.Scalar
}

// MakeOperator builds an unlabeled, unit-factor Operator from a flat slice
// of legs, creation legs first by convention (not enforced here; the
// canonicalizer and evaluator don't require a particular leg order going
// in).
func MakeOperator(legs ...Leg) Operator {
	return Operator{Legs: append([]Leg(nil), legs...), Factor: scalar.One()}
}

// WithLabel returns a copy of o with its tensor label set.
func (o Operator) WithLabel(label string) Operator {
	o.Label = label
	return o
}

// WithFactor returns a copy of o with its scalar prefactor set.
func (o Operator) WithFactor(f scalar.Scalar) Operator {
	o.Factor = f
	return o
}

// Vertex computes the per-space leg-count profile of the operator.
func (o Operator) Vertex(numSpaces int) vertex.Vertex {
	var v vertex.Vertex
	for _, l := range o.Legs {
		c := v[l.Index.Space]
		if l.Cre {
			c.Cre++
		} else {
			c.Ann++
		}
		v[l.Index.Space] = c
	}
	return v
}

// Rank returns the number of legs in the operator.
func (o Operator) Rank() int { return len(o.Legs) }

// Term is one scaled product of Operators within an Expression. Each
// element of Ops is kept as its own operator-string position — multiplying
// two Expressions concatenates position lists rather than merging legs,
// since the contraction engine distinguishes contractions between distinct
// positions from the (forbidden) self-contraction of a single position.
type Term struct {
	Coeff scalar.Scalar
	Ops   []Operator
}

// Expression is a symbolic linear combination of operator-position
// products. Terms are kept in insertion order; Add/Sub/Scale never mutate
// the receiver's slice in place, matching the pure-value style the rest of
// the algebra types use.
type Expression struct {
	Terms []Term
}

// NewExpression builds an Expression from explicit terms.
func NewExpression(terms ...Term) Expression {
	return Expression{Terms: append([]Term(nil), terms...)}
}

// Single wraps one Operator, as the sole position of a one-term
// Expression with coefficient 1.
func Single(op Operator) Expression {
	return Expression{Terms: []Term{{Coeff: scalar.One(), Ops: []Operator{op}}}}
}

// Add returns e + o as a new Expression.
func (e Expression) Add(o Expression) Expression {
	out := append([]Term(nil), e.Terms...)
	out = append(out, o.Terms...)
	return Expression{Terms: out}
}

// Sub returns e - o as a new Expression.
func (e Expression) Sub(o Expression) Expression {
	out := append([]Term(nil), e.Terms...)
	for _, t := range o.Terms {
		out = append(out, Term{Coeff: t.Coeff.Neg(), Ops: t.Ops})
	}
	return Expression{Terms: out}
}

// Scale returns c*e as a new Expression.
func (e Expression) Scale(c scalar.Scalar) Expression {
	out := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		out[i] = Term{Coeff: t.Coeff.Mul(c), Ops: t.Ops}
	}
	return Expression{Terms: out}
}

// Mul returns the formal product e*o, term by term: every pair of terms
// concatenates its two position lists (e's positions first, then o's) and
// multiplies coefficients. The contraction engine normal-orders the
// result; Mul itself performs no reordering and never merges two
// positions' legs into one.
func (e Expression) Mul(o Expression) Expression {
	out := make([]Term, 0, len(e.Terms)*len(o.Terms))
	for _, a := range e.Terms {
		for _, b := range o.Terms {
			ops := append(append([]Operator(nil), a.Ops...), b.Ops...)
			out = append(out, Term{Coeff: a.Coeff.Mul(b.Coeff), Ops: ops})
		}
	}
	return Expression{Terms: out}
}

// Commutator returns [e, o] = e*o - o*e.
func (e Expression) Commutator(o Expression) Expression {
	return e.Mul(o).Sub(o.Mul(e))
}

// String renders the operator as a bracketed leg list, e.g. "[p+ q-]".
func (o Operator) String(label func(index.Index) string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, l := range o.Legs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(label(l.Index))
		if l.Cre {
			b.WriteByte('+')
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteByte(']')
	return b.String()
}
