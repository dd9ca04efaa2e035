package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/models/upstream"
)

// ParseBuilds maps a /api/ghactions response. Builds without a project are
// dropped.
func ParseBuilds(payload []byte) (domain.BuildsPayload, int, error) {
	var resp upstream.BuildsResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.BuildsPayload{}, 0, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	out := domain.BuildsPayload{
		AllProjects:     resp.AllProjects,
		SelectedProject: resp.SelectedProject,
	}
	var dropped int
	for _, rawBuild := range resp.Builds {
		var raw upstream.Build
		if err := json.Unmarshal(rawBuild, &raw); err != nil || raw.Project == "" {
			dropped++
			continue
		}
		build, err := MapBuildToDomain(raw)
		if err != nil {
			dropped++
			continue
		}
		out.Builds = append(out.Builds, build)
	}
	return out, dropped, nil
}

func MapBuildToDomain(raw upstream.Build) (domain.Build, error) {
	jobs, err := DecodeJobs(raw.Jobs)
	if err != nil {
		return domain.Build{}, err
	}
	build := domain.Build{
		Project:     raw.Project,
		RunStart:    int64(raw.RunStart),
		RunFinish:   int64(raw.RunFinish),
		SecondsUsed: raw.SecondsUsed,
	}
	for _, job := range jobs {
		build.Jobs = append(build.Jobs, domain.Job{
			Name:     job.Name,
			Duration: job.JobDuration,
			Labels:   job.Labels,
		})
	}
	return build, nil
}

// DecodeJobs accepts a JSON array of jobs or a string containing one. A
// missing or null value yields no jobs.
func DecodeJobs(raw json.RawMessage) ([]upstream.Job, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("failed to decode jobs string: %w", err)
		}
		if encoded == "" {
			return nil, nil
		}
		raw = []byte(encoded)
	}
	var jobs []upstream.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}
	return jobs, nil
}

// ParseRuns maps a /api/ghactions response into rows for the runs table,
// keeping each build's jobs as normalized JSON.
func ParseRuns(payload []byte) (Parsed[store.Run], error) {
	var resp upstream.BuildsResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Parsed[store.Run]{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var out Parsed[store.Run]
	for _, rawBuild := range resp.Builds {
		var raw upstream.Build
		if err := json.Unmarshal(rawBuild, &raw); err != nil || raw.Project == "" {
			out.Dropped++
			continue
		}
		run, err := MapBuildToRun(raw)
		if err != nil {
			out.Dropped++
			continue
		}
		out.Records = append(out.Records, run)
	}
	return out, nil
}

func MapBuildToRun(raw upstream.Build) (store.Run, error) {
	jobs, err := DecodeJobs(raw.Jobs)
	if err != nil {
		return store.Run{}, err
	}
	if jobs == nil {
		jobs = []upstream.Job{}
	}
	encoded, err := json.Marshal(jobs)
	if err != nil {
		return store.Run{}, fmt.Errorf("failed to encode jobs: %w", err)
	}
	return store.Run{
		Project:     raw.Project,
		RunStart:    int64(raw.RunStart),
		RunFinish:   int64(raw.RunFinish),
		SecondsUsed: raw.SecondsUsed,
		Jobs:        string(encoded),
	}, nil
}
