package embedding

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float64
		expect float64
	}{
		{
			name:   "identical vectors",
			a:      []float64{1, 2, 3},
			b:      []float64{1, 2, 3},
			expect: 1,
		},
		{
			name:   "opposite vectors",
			a:      []float64{1, 0},
			b:      []float64{-1, 0},
			expect: -1,
		},
		{
			name:   "orthogonal vectors",
			a:      []float64{1, 0},
			b:      []float64{0, 1},
			expect: 0,
		},
		{
			name:   "zero vector",
			a:      []float64{0, 0},
			b:      []float64{1, 1},
			expect: 0,
		},
		{
			name:   "empty vectors",
			a:      nil,
			b:      nil,
			expect: 0,
		},
		{
			name:   "mismatched lengths",
			a:      []float64{1, 2},
			b:      []float64{1, 2, 3},
			expect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
