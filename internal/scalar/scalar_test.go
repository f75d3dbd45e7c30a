package scalar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsc-wicked/wicked/internal/scalar"
)

func TestArithmeticIsExact(t *testing.T) {
	a := scalar.FromFrac(1, 4)
	b := scalar.FromFrac(1, 4)
	c := scalar.FromFrac(1, 4)
	d := scalar.FromFrac(1, 4)

	sum := a.Add(b).Add(c).Add(d)
	assert.True(t, sum.Equal(scalar.One()), "1/4 four times should equal 1 exactly, got %s", sum)
}

func TestZeroValueIsZero(t *testing.T) {
	var s scalar.Scalar
	assert.True(t, s.IsZero())
	assert.True(t, s.Equal(scalar.Zero()))
}

func TestNegAndSub(t *testing.T) {
	a := scalar.FromInt(3)
	b := scalar.FromInt(5)
	assert.True(t, a.Sub(b).Equal(scalar.FromInt(-2)))
	assert.True(t, a.Sub(b).Equal(b.Sub(a).Neg()))
}

func TestParseRoundTrips(t *testing.T) {
	cases := []string{"1/4", "-3", "3/1", "0"}
	for _, c := range cases {
		s, err := scalar.Parse(c)
		require.NoError(t, err)
		back, err := scalar.Parse(s.String())
		require.NoError(t, err)
		assert.True(t, back.Equal(s), "%q rendered as %q", c, s.String())
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := scalar.Parse("not-a-number")
	assert.Error(t, err)
}

func TestMulQuoInverse(t *testing.T) {
	a := scalar.FromFrac(2, 3)
	b := scalar.FromFrac(5, 7)
	assert.True(t, a.Mul(b).Quo(b).Equal(a))
}
