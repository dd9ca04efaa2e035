package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/store"
	upstreammodels "github.com/de-tools/report-atlas/pkg/models/upstream"
	"github.com/rs/zerolog"
)

const (
	BuildsEndpoint    = "/api/ghactions"
	DefaultBuildHours = 168
	MaxBuildHours     = 720
)

// RunReader is the read side of the runs store.
type RunReader interface {
	ListRuns(ctx context.Context, since time.Time) ([]store.Run, error)
	Projects(ctx context.Context) ([]string, error)
}

// BuildsSource answers the builds endpoint from a local runs table instead
// of the reporting backend. The response has the same shape.
type BuildsSource struct {
	runs RunReader
	now  func() time.Time
}

func NewBuildsSource(runs RunReader) *BuildsSource {
	return &BuildsSource{runs: runs, now: time.Now}
}

// Fetch understands hours (capped at 720), project and selfhosted. Time
// spent on self-hosted runners is subtracted unless selfhosted=true. Job
// details are only included when a single project is selected.
func (b *BuildsSource) Fetch(ctx context.Context, _ string, query url.Values) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	hours, err := BuildHours(query.Get("hours"))
	if err != nil {
		return nil, err
	}
	project := query.Get("project")
	countSelfHosted := query.Get("selfhosted") == "true"

	since := b.now().Add(-time.Duration(hours) * time.Hour)
	runs, err := b.runs.ListRuns(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	projects, err := b.runs.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp := upstreammodels.BuildsResponse{
		AllProjects:     projects,
		SelectedProject: project,
		Builds:          []json.RawMessage{},
	}
	cutoff := since.Unix()
	var skipped int
	for _, run := range runs {
		if run.RunStart < cutoff || run.RunFinish < cutoff {
			continue
		}
		if project != "" && run.Project != project {
			continue
		}
		build, err := runToBuild(run, project != "", countSelfHosted)
		if err != nil {
			skipped++
			continue
		}
		raw, err := json.Marshal(build)
		if err != nil {
			return nil, fmt.Errorf("encode build: %w", err)
		}
		resp.Builds = append(resp.Builds, raw)
	}
	if skipped > 0 {
		logger.Debug().Int("skipped", skipped).Msg("runs with unreadable jobs skipped")
	}

	return json.Marshal(resp)
}

// BuildHours parses the hours parameter, applying the default and the cap.
func BuildHours(raw string) (int, error) {
	if raw == "" {
		return DefaultBuildHours, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("%w: hours must be a positive integer, got %q", ErrBadQuery, raw)
	}
	return min(hours, MaxBuildHours), nil
}

func runToBuild(run store.Run, withJobs, countSelfHosted bool) (upstreammodels.Build, error) {
	jobs, err := adapters.DecodeJobs(json.RawMessage(run.Jobs))
	if err != nil {
		return upstreammodels.Build{}, err
	}

	build := upstreammodels.Build{
		Project:     run.Project,
		RunStart:    float64(run.RunStart),
		RunFinish:   float64(run.RunFinish),
		SecondsUsed: run.SecondsUsed,
	}
	if !countSelfHosted {
		for _, job := range jobs {
			if isSelfHosted(job) {
				build.SecondsUsed -= job.JobDuration
			}
		}
	}
	if withJobs {
		if jobs == nil {
			jobs = []upstreammodels.Job{}
		}
		encoded, err := json.Marshal(jobs)
		if err != nil {
			return upstreammodels.Build{}, err
		}
		build.Jobs = encoded
	}
	return build, nil
}

func isSelfHosted(job upstreammodels.Job) bool {
	return slices.ContainsFunc(job.Labels, func(label string) bool {
		return strings.Contains(label, "self-hosted")
	})
}
