package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/de-tools/report-atlas/pkg/app"
)

// AppFactory builds the report application from the config file at
// configPath. An empty path uses defaults and the environment.
type AppFactory func(ctx context.Context, configPath string) (*app.App, error)

// parseParams turns repeated key=value flags into report query parameters.
func parseParams(pairs []string) (url.Values, error) {
	q := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		q.Add(key, value)
	}
	return q, nil
}
