package embedding

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "scaled vectors keep similarity",
			a:        []float32{1, 1},
			b:        []float32{5, 5},
			expected: 1.0,
		},
		{
			name:     "empty vectors",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
		{
			name:     "dimension mismatch",
			a:        []float32{1, 2},
			b:        []float32{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "zero magnitude",
			a:        []float32{0, 0},
			b:        []float32{1, 1},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Cosine(%v, %v) = %.9f, want %.9f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCosineKnownAngle(t *testing.T) {
	// 45 degrees between (1,0) and (1,1)
	got := Cosine([]float32{1, 0}, []float32{1, 1})
	want := 1 / math.Sqrt2
	if math.Abs(got-want) > 1e-7 {
		t.Errorf("Expected %.7f, got %.7f", want, got)
	}
}
