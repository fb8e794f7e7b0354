package resolver

// Distance returns the Levenshtein distance between a and b: the minimum
// number of single-character insertions, deletions and substitutions.
// Characters are runes, so "café" and "cafe" are one edit apart.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			if ra[i-1] == rb[j-1] {
				curr[i] = prev[i-1]
				continue
			}
			curr[i] = 1 + min(prev[i-1], prev[i], curr[i-1])
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}
