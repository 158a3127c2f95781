package recommend

import "math"

// Ratio scores how alike two strings are on a 0-100 scale.
// It is 100 * (1 - d / (len(a) + len(b))) where d is the insert/delete edit
// distance, computed over runes.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	d := indelDistance(ra, rb)
	return int(math.Round(100 * float64(total-d) / float64(total)))
}

// indelDistance is the edit distance when only insertions and deletions are
// allowed, which equals len(a) + len(b) - 2*LCS(a, b).
func indelDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Single-row DP over the longest common subsequence
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(b)]
	return len(a) + len(b) - 2*lcs
}
