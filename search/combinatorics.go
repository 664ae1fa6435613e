package search

// combinations streams every size-k index combination of 0..n−1 in
// lexicographic order; emit returning false stops the enumeration.
func combinations(n, k int, emit func(indexes []int) bool) {
	if k < 0 || k > n {
		return
	}
	if k == 0 {
		emit(nil)

		return
	}

	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = i
	}

	for {
		if !emit(indexes) {
			return
		}

		// Advance the rightmost index that still has room.
		pos := k - 1
		for pos >= 0 && indexes[pos] == n-k+pos {
			pos--
		}
		if pos < 0 {
			return
		}
		indexes[pos]++
		for i := pos + 1; i < k; i++ {
			indexes[i] = indexes[i-1] + 1
		}
	}
}

// permutations streams every size-k index permutation of 0..n−1 in
// lexicographic order; emit returning false stops the enumeration.
func permutations(n, k int, emit func(indexes []int) bool) {
	if k < 0 || k > n {
		return
	}
	if k == 0 {
		emit(nil)

		return
	}

	indexes := make([]int, 0, k)
	used := make([]bool, n)

	var descend func() bool
	descend = func() bool {
		if len(indexes) == k {
			return emit(indexes)
		}
		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			used[i] = true
			indexes = append(indexes, i)
			ok := descend()
			indexes = indexes[:len(indexes)-1]
			used[i] = false
			if !ok {
				return false
			}
		}

		return true
	}
	descend()
}

// countCombinations returns C(n, k) as a float; progress reporting only.
func countCombinations(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}

	result := 1.0
	for i := 0; i < k; i++ {
		result = result * float64(n-i) / float64(i+1)
	}

	return result
}

// countPermutations returns P(n, k) as a float; progress reporting only.
func countPermutations(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}

	result := 1.0
	for i := 0; i < k; i++ {
		result *= float64(n - i)
	}

	return result
}
