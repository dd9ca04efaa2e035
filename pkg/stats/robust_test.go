package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
		ok       bool
	}{
		{name: "even length averages the middle pair", values: []float64{1, 2, 3, 4}, expected: 2.5, ok: true},
		{name: "odd length returns the middle", values: []float64{1, 3, 5}, expected: 3, ok: true},
		{name: "unsorted input", values: []float64{9, 1, 5}, expected: 5, ok: true},
		{name: "single value", values: []float64{7}, expected: 7, ok: true},
		{name: "empty", values: nil, expected: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.values)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestTrimmedMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		fraction float64
		expected float64
		ok       bool
	}{
		{
			name:     "outliers on both ends are dropped",
			values:   []float64{1, 2, 3, 4, 5, 6, 100},
			fraction: 0.1,
			expected: 4,
			ok:       true,
		},
		{
			name:     "small sample is a plain mean",
			values:   []float64{1, 2, 3, 4, 100},
			fraction: 0.1,
			expected: 22,
			ok:       true,
		},
		{
			name:     "fraction larger than one element per end",
			values:   []float64{100, 1, 2, 3, 4, 5, 6, 7, 8, -50},
			fraction: 0.2,
			expected: 4.5,
			ok:       true,
		},
		{
			name:     "excessive fraction keeps the middle",
			values:   []float64{1, 2, 3, 4, 5, 6, 7},
			fraction: 0.9,
			expected: 4,
			ok:       true,
		},
		{
			name:     "empty",
			values:   nil,
			fraction: 0.1,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TrimmedMean(tt.values, tt.fraction)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestMean(t *testing.T) {
	got, ok := Mean([]float64{2, 4})
	assert.True(t, ok)
	assert.Equal(t, 3.0, got)

	_, ok = Mean(nil)
	assert.False(t, ok)
}

func TestNewRatio(t *testing.T) {
	r := NewRatio(3, 4)
	pct, ok := r.Percent()
	assert.True(t, ok)
	assert.Equal(t, 75.0, pct)
	assert.Equal(t, "75.00%", r.String())

	empty := NewRatio(0, 0)
	_, ok = empty.Percent()
	assert.False(t, ok)
	assert.Equal(t, "N/A", empty.String())
}
