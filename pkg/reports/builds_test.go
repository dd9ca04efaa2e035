package reports

import (
	"testing"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildsDriver_FetchParams(t *testing.T) {
	d := NewBuildsDriver()

	params, err := d.FetchParams(map[string][]string{})
	require.NoError(t, err)
	assert.Equal(t, "hours=168", params.Encode())

	params, err = d.FetchParams(map[string][]string{
		"hours": {"10000"}, "project": {"httpd"}, "selfhosted": {"true"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hours=720&project=httpd&selfhosted=true", params.Encode())

	_, err = d.FetchParams(map[string][]string{"hours": {"soon"}})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = d.FetchParams(map[string][]string{"project": {"../etc"}})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestBuildsDriver_RenderAllProjects(t *testing.T) {
	view, err := render(t, NewBuildsDriver(), fixture(t, "builds.json"), map[string]string{"hours": "24"})
	require.NoError(t, err)

	assert.Equal(t, "GitHub Actions Statistics, All projects", view.Title)
	assert.Equal(t, 1, view.Dropped)
	assert.Empty(t, view.Notes)
	assert.Equal(t, []string{"All projects", "httpd", "kafka", "tomcat"}, view.Navigation)

	usage := view.Summaries[0]
	assert.Equal(t, "100 minutes", summaryValue(t, usage, "Total usage"))
	assert.Equal(t, "0", summaryValue(t, usage, "Full-time runners"))
	assert.Equal(t, "$0.63", summaryValue(t, usage, "Estimated credit use"))
	assert.Equal(t, "3", summaryValue(t, usage, "Builds"))
	assert.Equal(t, "0h30m", summaryValue(t, usage, "Median build duration"))
	assert.Equal(t, "0h33m", summaryValue(t, usage, "Typical build duration"))

	assert.Equal(t, []domain.Bucket{{Name: "httpd", Value: 4200}, {Name: "kafka", Value: 1800}}, view.Rankings[0].Buckets)
	assert.Equal(t, []string{"httpd", "1h10m", "0", "70.00%"}, view.Lists[0].Rows[0])

	daily := view.TimeSeries[0]
	assert.Equal(t, domain.Timeline{day1, day2}, daily.Timeline)
	assert.Equal(t, []string{"httpd", "kafka"}, seriesNames(daily.Series))
	assert.Equal(t, []float64{60, 10}, values(daily.Series[0].Points))
	assert.Equal(t, []float64{0, 30}, values(daily.Series[1].Points))
}

func TestBuildsDriver_RenderProjectByJob(t *testing.T) {
	view, err := render(t, NewBuildsDriver(), fixture(t, "builds.json"),
		map[string]string{"hours": "24", "project": "httpd"})
	require.NoError(t, err)

	assert.Equal(t, "GitHub Actions Statistics, httpd", view.Title)
	assert.Equal(t, []domain.Bucket{{Name: "build", Value: 3000}, {Name: "test", Value: 1200}}, view.Rankings[0].Buckets)
	assert.Equal(t, "2", summaryValue(t, view.Summaries[0], "Builds"))
	assert.Equal(t, "70 minutes", summaryValue(t, view.Summaries[0], "Total usage"))
}

func TestBuildsDriver_RenderEdgeCases(t *testing.T) {
	_, err := render(t, NewBuildsDriver(), fixture(t, "builds.json"), map[string]string{"project": "hive"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	view, err := render(t, NewBuildsDriver(), fixture(t, "builds.json"), map[string]string{"project": "tomcat"})
	require.NoError(t, err)
	assert.Equal(t, []string{"No builds were recorded in this period."}, view.Notes)
	assert.Equal(t, notApplicable, summaryValue(t, view.Summaries[0], "Median build duration"))

	_, err = render(t, NewBuildsDriver(), []byte(`{"builds": 3}`), nil)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestSpanText(t *testing.T) {
	assert.Equal(t, "24 hours", spanText(24))
	assert.Equal(t, "7 days", spanText(168))
}
