package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/recommender/internal/features"
)

func buildMatrix(t *testing.T, docs []string) *Matrix {
	t.Helper()
	m, err := Build(context.Background(), features.Fit(docs, features.DefaultConfig()))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func TestBuild(t *testing.T) {
	docs := []string{
		"python programming basics",
		"python programming advanced",
		"go concurrency",
		"rust systems programming",
		"",
	}
	m := buildMatrix(t, docs)

	if m.Len() != len(docs) {
		t.Fatalf("Expected %d rows, got %d", len(docs), m.Len())
	}

	for i := 0; i < m.Len(); i++ {
		if m.At(i, i) != 1.0 {
			t.Errorf("Expected diagonal 1 at %d, got %f", i, m.At(i, i))
		}
		for j := 0; j < m.Len(); j++ {
			s := m.At(i, j)
			if s < 0 || s > 1 {
				t.Errorf("sim(%d,%d) = %f out of range", i, j, s)
			}
			if s != m.At(j, i) {
				t.Errorf("sim(%d,%d) = %f but sim(%d,%d) = %f", i, j, s, j, i, m.At(j, i))
			}
		}
	}

	if m.At(0, 1) <= m.At(0, 2) {
		t.Errorf("Expected the two python documents to be closer than python and go: %f <= %f", m.At(0, 1), m.At(0, 2))
	}
	if m.At(2, 4) != 0 {
		t.Errorf("Expected empty document to have similarity 0, got %f", m.At(2, 4))
	}
}

func TestBuildEmpty(t *testing.T) {
	m := buildMatrix(t, nil)
	if m.Len() != 0 {
		t.Errorf("Expected empty matrix, got %d rows", m.Len())
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, features.Fit([]string{"a b", "c d"}, features.DefaultConfig()))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRowIsCopy(t *testing.T) {
	m := buildMatrix(t, []string{"python", "python go"})
	row := m.Row(0)
	row[1] = 42
	if m.At(0, 1) == 42 {
		t.Error("Row must not alias the matrix")
	}
}

func TestNeighbors(t *testing.T) {
	m := &Matrix{n: 4, values: []float64{
		1, 0.2, 0.9, 0.2,
		0.2, 1, 0.1, 0.5,
		0.9, 0.1, 1, 0.3,
		0.2, 0.5, 0.3, 1,
	}}

	tests := []struct {
		name    string
		index   int
		limit   int
		indices []int
	}{
		{name: "all neighbors, ties in index order", index: 0, limit: 0, indices: []int{2, 1, 3}},
		{name: "limited", index: 0, limit: 1, indices: []int{2}},
		{name: "limit beyond size", index: 1, limit: 10, indices: []int{3, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Neighbors(tt.index, tt.limit)
			if len(got) != len(tt.indices) {
				t.Fatalf("Expected %d neighbors, got %d", len(tt.indices), len(got))
			}
			for k, nb := range got {
				if nb.Index != tt.indices[k] {
					t.Errorf("Position %d: expected index %d, got %d", k, tt.indices[k], nb.Index)
				}
				if nb.Index == tt.index {
					t.Errorf("Neighbors must exclude the row itself")
				}
				if nb.Score != m.At(tt.index, nb.Index) {
					t.Errorf("Score mismatch for %d", nb.Index)
				}
			}
		})
	}
}

func TestClamp(t *testing.T) {
	for _, tt := range []struct{ in, out float64 }{{-1e-17, 0}, {1.0000000000000002, 1}, {0.5, 0.5}} {
		if got := clamp(tt.in); got != tt.out {
			t.Errorf("clamp(%v) = %v, expected %v", tt.in, got, tt.out)
		}
	}
}
