// Package reports turns raw upstream payloads into render-ready views. Each
// report is a Driver; the Service fetches, caches and renders them.
package reports

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
)

var (
	ErrUnknownReport    = errors.New("unknown report")
	ErrInvalidParams    = errors.New("invalid report parameters")
	ErrMalformedPayload = adapters.ErrMalformedPayload
	ErrUpstream         = errors.New("upstream failure")
)

// Driver renders one report.
type Driver interface {
	Name() string
	Title() string
	// Endpoint is the upstream path the payload is fetched from.
	Endpoint() string
	// FetchParams validates q and returns the subset of it that selects the
	// upstream payload. Parameters outside that subset only affect
	// rendering and never cause a re-fetch.
	FetchParams(q url.Values) (url.Values, error)
	Render(ctx context.Context, payload []byte, q url.Values, now time.Time) (*domain.View, error)
}

var projectPattern = regexp.MustCompile(`^[-/a-z0-9]+$`)

func validProject(project string) bool {
	return len(project) >= 2 && projectPattern.MatchString(project)
}

func invalidParam(name, value, reason string) error {
	return fmt.Errorf("%w: %s=%q: %s", ErrInvalidParams, name, value, reason)
}

// intParam parses a positive integer parameter with a default and an upper
// bound.
func intParam(q url.Values, name string, def, upper int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, invalidParam(name, raw, "must be a positive integer")
	}
	if upper > 0 {
		n = min(n, upper)
	}
	return n, nil
}
