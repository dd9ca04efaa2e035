package domain

// Job is one job of a CI run.
type Job struct {
	Name     string
	Duration float64
	Labels   []string
}

// Build is one CI workflow run. SecondsUsed is the billable runner time.
type Build struct {
	Project     string
	RunStart    int64
	RunFinish   int64
	SecondsUsed float64
	Jobs        []Job
}

type BuildsPayload struct {
	AllProjects     []string
	SelectedProject string
	Builds          []Build
}
