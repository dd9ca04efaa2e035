package domain

// View is a complete, render-ready description of one report. The rendering
// layer draws it; nothing in a View needs further aggregation.
type View struct {
	Report      string            `json:"report"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Notes       []string          `json:"notes,omitempty"`
	Navigation  []string          `json:"navigation,omitempty"`
	TimeSeries  []TimeSeriesChart `json:"time_series,omitempty"`
	Rankings    []RankingChart    `json:"rankings,omitempty"`
	Progress    []ProgressChart   `json:"progress,omitempty"`
	Summaries   []SummaryTable    `json:"summaries,omitempty"`
	Lists       []ListTable       `json:"lists,omitempty"`

	// Dropped counts malformed upstream records left out of the view.
	Dropped int `json:"dropped_records"`
}

type ChartKind string

const (
	ChartKindLine ChartKind = "line"
	ChartKindBar  ChartKind = "bar"
)

// TimeSeriesChart holds equal-length parallel series over one timeline.
type TimeSeriesChart struct {
	Title    string        `json:"title"`
	Kind     ChartKind     `json:"kind"`
	Timeline Timeline      `json:"timeline"`
	Series   []NamedSeries `json:"series"`
}

// RankingChart is a pie (or donut) of ranked buckets.
type RankingChart struct {
	Title   string   `json:"title"`
	Donut   bool     `json:"donut"`
	Buckets []Bucket `json:"buckets"`
}

type ProgressChart struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ratio       Ratio  `json:"ratio"`
}

// SummaryTable is an ordered list of name/value rows.
type SummaryTable struct {
	Title string       `json:"title"`
	Rows  []SummaryRow `json:"rows"`
}

type SummaryRow struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ListTable struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

