package match

// Ratio returns a similarity measure for two strings in [0,1], computed as
// 2*M/T where T is the total number of characters in both strings and M is
// the number of characters covered by recursively taken longest matching
// blocks (Ratcliff/Obershelp). 1.0 means identical, 0.0 means nothing in
// common. Comparison is rune-based so multi-byte titles compare correctly.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingSize(ra, rb)
	return 2.0 * float64(matched) / float64(total)
}

// UpperBound returns a cheap upper bound on Ratio(a, b) based only on
// lengths. Used to skip full block matching for candidates that cannot clear
// a cutoff.
func UpperBound(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la+lb == 0 {
		return 1.0
	}
	shorter := la
	if lb < shorter {
		shorter = lb
	}
	return 2.0 * float64(shorter) / float64(la+lb)
}

// matchingSize sums the lengths of all matching blocks between a and b.
// Blocks are found by locating the longest match, then recursing on the
// pieces to its left and right, which is the classic sequence-matcher
// strategy.
func matchingSize(a, b []rune) int {
	// Index positions of each rune in b once, then reuse per segment.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type segment struct{ alo, ahi, blo, bhi int }
	queue := []segment{{0, len(a), 0, len(b)}}
	matched := 0
	for len(queue) > 0 {
		seg := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		i, j, size := longestMatch(a, b2j, seg.alo, seg.ahi, seg.blo, seg.bhi)
		if size == 0 {
			continue
		}
		matched += size
		queue = append(queue,
			segment{seg.alo, i, seg.blo, j},
			segment{i + size, seg.ahi, j + size, seg.bhi},
		)
	}
	return matched
}

// longestMatch finds the longest block a[i:i+size] == b[j:j+size] with
// alo <= i < i+size <= ahi and blo <= j < j+size <= bhi. Of all maximal
// blocks it prefers the one starting earliest in a, then earliest in b.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo
	// j2len[j] holds the length of the longest match ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
