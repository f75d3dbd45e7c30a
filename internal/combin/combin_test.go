package combin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nsc-wicked/wicked/internal/combin"
)

func TestBinomial(t *testing.T) {
	assert.Equal(t, 1, combin.Binomial(5, 0))
	assert.Equal(t, 10, combin.Binomial(5, 2))
	assert.Equal(t, 0, combin.Binomial(5, 6))
}

func TestIntegerPartitionsShapeAndSum(t *testing.T) {
	parts := combin.IntegerPartitions(4, 3)
	assert.NotEmpty(t, parts)
	for _, p := range parts {
		assert.Len(t, p, 3)
		sum := 0
		for i := 0; i < len(p)-1; i++ {
			assert.LessOrEqual(t, p[i], p[i+1], "partitions must be returned ascending")
		}
		for _, x := range p {
			sum += x
		}
		assert.Equal(t, 4, sum)
	}
}

func TestIntegerPartitionsRespectsMaxParts(t *testing.T) {
	// 4 cannot be split into 5 positive parts within a length-1 slot; with
	// maxParts=1 only the trivial partition [4] qualifies.
	parts := combin.IntegerPartitions(4, 1)
	assert.Equal(t, [][]int{{4}}, parts)
}

func TestNextPermutationVisitsEveryDistinctOrderingOnce(t *testing.T) {
	a := []int{1, 1, 2}
	seen := map[string]bool{}
	count := 0
	for {
		key := ""
		for _, x := range a {
			key += string(rune('0' + x))
		}
		seen[key] = true
		count++
		if !combin.NextPermutation(a) {
			break
		}
	}
	// distinct permutations of {1,1,2}: 112, 121, 211
	assert.Equal(t, 3, len(seen))
	assert.Equal(t, 3, count)
}

func TestPermutationParityIdentityIsEven(t *testing.T) {
	assert.Equal(t, 1, combin.PermutationParity([]int{0, 1, 2, 3}))
}

func TestPermutationParitySingleSwapIsOdd(t *testing.T) {
	assert.Equal(t, -1, combin.PermutationParity([]int{1, 0, 2, 3}))
}

func TestPermutationParityDoubleSwapIsEven(t *testing.T) {
	assert.Equal(t, 1, combin.PermutationParity([]int{1, 0, 3, 2}))
}
