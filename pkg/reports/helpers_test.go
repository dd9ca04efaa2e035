package reports

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/require"
)

const (
	day1 = int64(1718323200) // 2024-06-14
	day2 = int64(1718409600) // 2024-06-15
)

var testNow = time.Unix(day2, 0).UTC()

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func render(t *testing.T, d Driver, payload []byte, q map[string]string) (*domain.View, error) {
	t.Helper()
	query := make(map[string][]string, len(q))
	for k, v := range q {
		query[k] = []string{v}
	}
	return d.Render(context.Background(), payload, query, testNow)
}

func seriesNames(series []domain.NamedSeries) []string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}
	return names
}

func values(points []domain.Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

func summaryValue(t *testing.T, table domain.SummaryTable, name string) string {
	t.Helper()
	for _, row := range table.Rows {
		if row.Name == name {
			return row.Value
		}
	}
	t.Fatalf("summary %q has no row %q", table.Title, name)
	return ""
}
