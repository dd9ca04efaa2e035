package upstream

import "encoding/json"

type BuildsResponse struct {
	AllProjects     []string          `json:"all_projects"`
	SelectedProject string            `json:"selected_project"`
	Builds          []json.RawMessage `json:"builds"`
}

// Build is one workflow run. Jobs is either a JSON array of Job or a string
// holding that array.
type Build struct {
	Project     string          `json:"project"`
	RunStart    float64         `json:"run_start"`
	RunFinish   float64         `json:"run_finish"`
	SecondsUsed float64         `json:"seconds_used"`
	Jobs        json.RawMessage `json:"jobs,omitempty"`
}

type Job struct {
	Name        string   `json:"name"`
	JobDuration float64  `json:"job_duration"`
	Labels      []string `json:"labels"`
}
