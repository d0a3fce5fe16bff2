package dedup

// SequenceMatcherRatio implements the Ratcliff/Obershelp "sequence
// matcher" ratio used by Python's difflib.SequenceMatcher.ratio(), per
// the documented fuzzy title test: ratio = 2*M / T, where M is the total
// length of matching blocks found by recursively locating the longest
// common contiguous substring, and T is the combined length of both
// strings. Matches Python's reference implementation's behavior for the
// empty/empty case: two empty strings are considered identical (ratio 1).
func SequenceMatcherRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	t := len(ra) + len(rb)
	if t == 0 {
		return 1.0
	}
	m := matchingBlocksLength(ra, rb)
	return 2.0 * float64(m) / float64(t)
}

// matchingBlocksLength recursively finds the longest common contiguous
// substring between a and b, then recurses on the prefix and suffix
// split by that match, summing the lengths of all matched blocks.
func matchingBlocksLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	left := matchingBlocksLength(a[:ai], b[:bi])
	right := matchingBlocksLength(a[ai+size:], b[bi+size:])
	return size + left + right
}

// longestMatch finds the longest contiguous run shared by a and b using
// the classic dynamic-programming longest-common-substring recurrence,
// returning its start index in each and its length. Ties prefer the
// earliest-starting match in a, then in b, matching difflib's
// leftmost-match convention.
func longestMatch(a, b []rune) (int, int, int) {
	// prev/curr hold the running common-suffix length ending at a[i-1],
	// b[j-1]; classic O(len(a)*len(b)) LCS-substring DP in O(len(b)) space.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	bestA, bestB, bestLen := 0, 0, 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > bestLen {
					bestLen = curr[j]
					bestA = i - curr[j]
					bestB = j - curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return bestA, bestB, bestLen
}
