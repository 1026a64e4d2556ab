// Package partition splits record indices into seeded, near-equal folds.
//
// A partition of n indices into k parts is produced by drawing one uniform
// permutation of 0..n-1 and slicing it contiguously: the first n mod k parts
// receive floor(n/k)+1 indices and the rest floor(n/k). All randomness comes
// from the permutation, so the parts are disjoint and exhaustive by
// construction, and the same (n, k, seed) always yields the same parts.
package partition

import (
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/cvgrid/pkg/errors"
)

// Partition splits {0, ..., n-1} into k disjoint parts whose sizes differ by
// at most one. k == 1 returns a single part holding the whole permutation.
func Partition(n, k int, seed uint64) ([][]int, error) {
	if err := validate(n, k); err != nil {
		return nil, err
	}

	r := rand.New(rand.NewPCG(seed, seed))
	perm := r.Perm(n)

	m := n / k
	rmdr := n - m*k

	parts := make([][]int, k)
	idx := 0
	for i := 0; i < k; i++ {
		size := m
		if i < rmdr {
			size++
		}
		part := make([]int, size)
		copy(part, perm[idx:idx+size])
		parts[i] = part
		idx += size
	}
	return parts, nil
}

// Replicates returns r independent partitions of n indices into k parts.
// Replicate i is seeded with DeriveSeed(seed, i).
func Replicates(n, k, r int, seed uint64) ([][][]int, error) {
	if r <= 0 {
		return nil, errors.NewValidationError("replicates", "must be positive", r)
	}
	out := make([][][]int, r)
	for i := 0; i < r; i++ {
		parts, err := Partition(n, k, DeriveSeed(seed, i))
		if err != nil {
			return nil, err
		}
		out[i] = parts
	}
	return out, nil
}

// DeriveSeed mixes a base seed with a replicate index (splitmix64). The
// result depends only on its arguments, never on scheduling.
func DeriveSeed(base uint64, replicate int) uint64 {
	z := base + uint64(replicate+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Complement returns, in ascending order, the indices of 0..n-1 not in part.
func Complement(n int, part []int) []int {
	held := make([]bool, n)
	for _, idx := range part {
		if idx >= 0 && idx < n {
			held[idx] = true
		}
	}
	out := make([]int, 0, n-len(part))
	for i := 0; i < n; i++ {
		if !held[i] {
			out = append(out, i)
		}
	}
	return out
}

// Sorted returns a sorted copy of part.
func Sorted(part []int) []int {
	out := make([]int, len(part))
	copy(out, part)
	sort.Ints(out)
	return out
}

func validate(n, k int) error {
	if n <= 0 {
		return errors.NewValidationError("n", "must be positive", n)
	}
	if k <= 0 {
		return errors.NewValidationError("k", "must be positive", k)
	}
	if k > n {
		return errors.NewValidationError("k", "must not exceed the number of records", k)
	}
	return nil
}
