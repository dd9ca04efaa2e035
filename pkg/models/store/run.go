package store

// Run is one row of the runs table. Jobs is the raw JSON column.
type Run struct {
	Project     string
	RunStart    int64
	RunFinish   int64
	SecondsUsed float64
	Jobs        string
}
