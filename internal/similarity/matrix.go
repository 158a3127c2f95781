package similarity

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/recommender/internal/features"
)

// Matrix is a dense, symmetric N×N cosine similarity matrix stored row-major.
// It is read-only once Build returns.
type Matrix struct {
	n      int
	values []float64
}

// Neighbor is an index paired with its similarity to some row
type Neighbor struct {
	Index int
	Score float64
}

// Build computes cosine similarity between every pair of feature rows.
// Rows are expected to be L2-normalized, so each entry is a dot product.
// The upper triangle is computed in parallel and mirrored.
func Build(ctx context.Context, fm *features.Matrix) (*Matrix, error) {
	n := fm.Len()
	m := &Matrix{n: n, values: make([]float64, n*n)}
	if n == 0 {
		return m, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// row i owns cells (i, j) and (j, i) for j > i, so writes never overlap
			m.values[i*n+i] = 1.0
			vi := fm.Rows[i]
			for j := i + 1; j < n; j++ {
				s := clamp(vi.Dot(fm.Rows[j]))
				m.values[i*n+j] = s
				m.values[j*n+i] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("Similarity matrix built", "rows", n, "cells", n*n)

	return m, nil
}

// Len returns N
func (m *Matrix) Len() int {
	return m.n
}

// At returns sim(i, j)
func (m *Matrix) At(i, j int) float64 {
	return m.values[i*m.n+j]
}

// Row returns a copy of row i
func (m *Matrix) Row(i int) []float64 {
	row := make([]float64, m.n)
	copy(row, m.values[i*m.n:(i+1)*m.n])
	return row
}

// Neighbors returns up to limit other indices ordered by similarity to i,
// highest first. Ties keep index order. limit <= 0 returns all of them.
func (m *Matrix) Neighbors(i, limit int) []Neighbor {
	out := make([]Neighbor, 0, m.n)
	for j := 0; j < m.n; j++ {
		if j == i {
			continue
		}
		out = append(out, Neighbor{Index: j, Score: m.At(i, j)})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// clamp keeps floating point noise from leaving [0, 1]
func clamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
