package sqlite

import (
	"sort"

	"github.com/custodia-labs/docfinder-cli/internal/core/domain"
)

// selectTopK returns the k highest-scoring matches in descending score
// order. It partitions the slice around the k-th largest score with
// quickselect, then sorts only the selected prefix, so the cost is
// O(n + k log k) instead of a full O(n log n) sort. Ties inside the final
// window are broken by original scan position to keep output deterministic.
func selectTopK(matches []domain.ChunkMatch, k int) []domain.ChunkMatch {
	if len(matches) == 0 {
		return []domain.ChunkMatch{}
	}

	idx := make([]int, len(matches))
	for i := range idx {
		idx[i] = i
	}

	if k < len(idx) {
		quickselect(idx, matches, 0, len(idx)-1, k)
		idx = idx[:k]
	}

	sort.Slice(idx, func(a, b int) bool {
		if matches[idx[a]].Score != matches[idx[b]].Score {
			return matches[idx[a]].Score > matches[idx[b]].Score
		}
		return idx[a] < idx[b]
	})

	out := make([]domain.ChunkMatch, len(idx))
	for i, j := range idx {
		out[i] = matches[j]
	}
	return out
}

// quickselect rearranges idx so that the k highest-scoring positions occupy
// idx[:k], in no particular order.
func quickselect(idx []int, matches []domain.ChunkMatch, lo, hi, k int) {
	for lo < hi {
		p := partition(idx, matches, lo, hi)
		switch {
		case p == k || p == k-1:
			return
		case p < k:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition moves entries scoring higher than the pivot to the left and
// returns the pivot's final position.
func partition(idx []int, matches []domain.ChunkMatch, lo, hi int) int {
	mid := lo + (hi-lo)/2
	idx[mid], idx[hi] = idx[hi], idx[mid]
	pivot := matches[idx[hi]].Score

	i := lo
	for j := lo; j < hi; j++ {
		if matches[idx[j]].Score > pivot {
			idx[i], idx[j] = idx[j], idx[i]
			i++
		}
	}
	idx[i], idx[hi] = idx[hi], idx[i]
	return i
}
