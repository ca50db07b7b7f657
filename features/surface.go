package features

import "unicode/utf8"

// LengthRatio returns the character length of target divided by that of
// source. With absolute set it returns the target length alone.
func LengthRatio(source, target string, absolute bool) (float64, error) {
	tgt := utf8.RuneCountInString(target)
	if absolute {
		return float64(tgt), nil
	}
	src := utf8.RuneCountInString(source)
	if src == 0 {
		return 0, ErrEmptySentence
	}
	return float64(tgt) / float64(src), nil
}

// LevenshteinRatio returns the normalized edit similarity of a and b in [0, 1]:
// (len(a)+len(b)-d)/(len(a)+len(b)), where d is the edit distance with
// substitutions weighted 2. The ratio is symmetric; two empty strings give 1.
func LevenshteinRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	sum := len(ra) + len(rb)
	if sum == 0 {
		return 1
	}
	d := weightedDistance(ra, rb)
	return float64(sum-d) / float64(sum)
}

// weightedDistance is the Levenshtein distance with insertion and deletion
// cost 1 and substitution cost 2, using two rolling rows.
func weightedDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub += 2
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
