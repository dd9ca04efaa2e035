package stats

import (
	"math"
	"slices"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/samber/lo"
)

// minTrimSample is the largest sample that is averaged without trimming.
const minTrimSample = 5

func Sum(values []float64) float64 {
	return lo.Sum(values)
}

// Mean returns the arithmetic mean. ok is false for an empty sample.
func Mean(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// Median returns the middle value of the sorted sample, or the average of the
// two middle values for an even-sized sample.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

// TrimmedMean averages the sample after dropping max(1, round(trimFraction*n))
// values from each end. Samples of five or fewer values are averaged as is.
// At least one value always survives trimming.
func TrimmedMean(values []float64, trimFraction float64) (mean float64, ok bool) {
	if len(values) <= minTrimSample {
		return Mean(values)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := len(sorted)
	k := max(1, int(math.Round(trimFraction*float64(n))))
	if 2*k >= n {
		k = (n - 1) / 2
	}
	return Mean(sorted[k : n-k])
}

// NewRatio builds a ratio of two counts.
func NewRatio[N int | int64 | float64](num, den N) domain.Ratio {
	return domain.Ratio{Num: float64(num), Den: float64(den)}
}
