package overlap

import (
	"golang.org/x/sync/errgroup"
)

// chunkBounds splits [0, n) into at most k contiguous i1 ranges holding a
// similar number of candidate pairs. Row i1 owns n-1-i1 pairs.
func chunkBounds(n, k int) []int {
	if n <= 1 || k <= 1 {
		return []int{0, n}
	}
	total := n * (n - 1) / 2
	target := (total + k - 1) / k

	bounds := []int{0}
	acc := 0
	for i1 := 0; i1 < n; i1++ {
		acc += n - 1 - i1
		if acc >= target && len(bounds) < k {
			bounds = append(bounds, i1+1)
			acc = 0
		}
	}
	if bounds[len(bounds)-1] != n {
		bounds = append(bounds, n)
	}
	return bounds
}

// scanParallel runs the pair scan over contiguous chunks and returns each
// chunk's contributions in scan order. Folding the chunks in index order
// reproduces the sequential fold exactly.
func scanParallel(spans []span, workers int) [][]contribution {
	bounds := chunkBounds(len(spans), workers)
	chunks := make([][]contribution, len(bounds)-1)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := range chunks {
		lo, hi := bounds[c], bounds[c+1]
		g.Go(func() error {
			var out []contribution
			scan(spans, lo, hi, func(ct contribution) {
				out = append(out, ct)
			})
			chunks[c] = out
			return nil
		})
	}
	// Chunk workers never fail; Wait only joins them.
	_ = g.Wait()

	return chunks
}
