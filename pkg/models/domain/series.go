package domain

import (
	"encoding/json"
	"fmt"
)

// SecondsPerDay is the width of one timeline bucket for daily series.
const SecondsPerDay = 86400

// Point is one (day, value) tuple of a series. Day is a UTC epoch timestamp,
// usually truncated to midnight.
type Point struct {
	Day   int64
	Value float64
}

// MarshalJSON encodes the point as a [day, value] pair, the shape chart
// widgets consume.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Day, p.Value})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("point must have 2 elements, got %d", len(pair))
	}
	p.Day = int64(pair[0])
	p.Value = pair[1]
	return nil
}

// Timeline is a strictly increasing sequence of days shared by all series of
// a chart.
type Timeline []int64

// Bucket is one ranked entry of a pie or donut chart.
type Bucket struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// NamedSeries is an aligned series with its legend label.
type NamedSeries struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Total sums the values of the series.
func (s NamedSeries) Total() float64 {
	var total float64
	for _, p := range s.Points {
		total += p.Value
	}
	return total
}
