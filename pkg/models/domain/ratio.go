package domain

import (
	"encoding/json"
	"fmt"
)

// Ratio is a fraction whose percentage is not applicable when the
// denominator is zero.
type Ratio struct {
	Num float64
	Den float64
}

// Percent returns the ratio as a percentage. ok is false when the ratio has
// no denominator.
func (r Ratio) Percent() (pct float64, ok bool) {
	if r.Den == 0 {
		return 0, false
	}
	return r.Num / r.Den * 100, true
}

func (r Ratio) String() string {
	pct, ok := r.Percent()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	out := struct {
		Num     float64  `json:"num"`
		Den     float64  `json:"den"`
		Percent *float64 `json:"percent"`
	}{Num: r.Num, Den: r.Den}
	if pct, ok := r.Percent(); ok {
		out.Percent = &pct
	}
	return json.Marshal(out)
}
