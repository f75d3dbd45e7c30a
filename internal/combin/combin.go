// Package combin collects the small combinatorial primitives the
// enumerator, canonicalizer, and evaluator all need: integer partitions,
// permutation enumeration, and permutation parity. gonum's stat/combin
// supplies Binomial, the one piece of this surface with a stable documented
// API; the rest (partitions into a bounded number of parts, next-lexical
// permutation over a slice with repeated elements, and parity by inversion
// count) have no gonum equivalent the engine's shapes can bind to, so they
// are implemented directly here (see DESIGN.md).
package combin

import "gonum.org/v1/gonum/stat/combin"

// Binomial returns n choose k.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	return combin.Binomial(n, k)
}

// IntegerPartitions returns every partition of k into at most maxParts
// positive parts, each partition given as a slice of length maxParts sorted
// ascending and zero-padded on the left. This padding-and-cap shape is what
// the enumerator's cumulant leg assignment consumes directly.
func IntegerPartitions(k, maxParts int) [][]int {
	var out [][]int
	var rec func(remaining, maxPart int, cur []int)
	rec = func(remaining, maxPart int, cur []int) {
		if remaining == 0 {
			if len(cur) <= maxParts {
				out = append(out, padAscending(cur, maxParts))
			}
			return
		}
		if len(cur) >= maxParts {
			return
		}
		top := remaining
		if top > maxPart {
			top = maxPart
		}
		for p := top; p >= 1; p-- {
			rec(remaining-p, p, append(cur, p))
		}
	}
	rec(k, k, nil)
	return out
}

func padAscending(parts []int, n int) []int {
	out := make([]int, n)
	// parts was built largest-first; reverse into ascending order, then
	// left-pad with zeros.
	k := len(parts)
	for i := 0; i < k; i++ {
		out[n-k+i] = parts[k-1-i]
	}
	return out
}

// NextPermutation advances a to its next permutation in lexicographic order
// in place, returning false once a is already the last (fully descending)
// permutation. It is the classical in-place algorithm and, unlike a
// generate-all-then-sort approach, handles slices with repeated elements
// correctly: each distinct multiset permutation is visited exactly once.
func NextPermutation(a []int) bool {
	n := len(a)
	if n < 2 {
		return false
	}
	i := n - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := n - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	for l, r := i+1, n-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}
	return true
}

// PermutationParity returns +1 if perm is an even permutation of 0..n-1 and
// -1 if it is odd, computed by counting inversions with a merge sort so the
// cost is O(n log n) rather than the O(n^2) of a naive double loop.
func PermutationParity(perm []int) int {
	buf := make([]int, len(perm))
	copy(buf, perm)
	inversions := mergeSortCount(buf)
	if inversions%2 == 0 {
		return 1
	}
	return -1
}

func mergeSortCount(a []int) int {
	n := len(a)
	if n < 2 {
		return 0
	}
	mid := n / 2
	left := append([]int(nil), a[:mid]...)
	right := append([]int(nil), a[mid:]...)
	count := mergeSortCount(left) + mergeSortCount(right)

	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			a[k] = left[i]
			i++
		} else {
			a[k] = right[j]
			j++
			count += len(left) - i
		}
		k++
	}
	for i < len(left) {
		a[k] = left[i]
		i++
		k++
	}
	for j < len(right) {
		a[k] = right[j]
		j++
		k++
	}
	return count
}
