package reports

import (
	"testing"

	"github.com/de-tools/report-atlas/pkg/adapters"
	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailDriver_RenderCollated(t *testing.T) {
	view, err := render(t, NewMailDriver(), fixture(t, "mailstats.json"), nil)
	require.NoError(t, err)

	assert.Equal(t, "Mail Transfer Statistics, collated", view.Title)
	assert.Equal(t, []string{"collated", "mx1", "mx2"}, view.Navigation)

	require.Len(t, view.TimeSeries, 3)
	queue := view.TimeSeries[0]
	assert.Equal(t, domain.Timeline{1718400000, 1718403600}, queue.Timeline)
	assert.Equal(t, []float64{4, 5}, values(queue.Series[0].Points))

	assert.Equal(t, []domain.Bucket{{Name: "a.org", Value: 5}}, view.Rankings[0].Buckets)
	assert.Equal(t, []domain.Bucket{{Name: "apache.org", Value: 5}}, view.Rankings[1].Buckets)

	recipients := view.TimeSeries[1]
	assert.Equal(t, []string{"a.org", "b.org"}, seriesNames(recipients.Series))
	assert.Equal(t, []float64{2, 5}, values(recipients.Series[0].Points))
	assert.Equal(t, []float64{2, 0}, values(recipients.Series[1].Points))

	assert.Equal(t, "5", summaryValue(t, view.Summaries[0], "Pending messages"))
	assert.Equal(t, "2024-06-14T22:20:00Z", summaryValue(t, view.Summaries[0], "Taken at"))
}

func TestMailDriver_RenderHost(t *testing.T) {
	view, err := render(t, NewMailDriver(), fixture(t, "mailstats.json"), map[string]string{"host": "mx1"})
	require.NoError(t, err)
	assert.Len(t, view.TimeSeries[0].Series[0].Points, 3)

	_, err = render(t, NewMailDriver(), fixture(t, "mailstats.json"), map[string]string{"host": "mx3"})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestMailDriver_EmptyHost(t *testing.T) {
	view, err := render(t, NewMailDriver(), []byte(`{"collated": [], "mx1": []}`), nil)
	require.NoError(t, err)
	assert.Len(t, view.Notes, 1)
	assert.Empty(t, view.TimeSeries)
}

func TestMailDriver_OtherDomains(t *testing.T) {
	snapshot := domain.QueueSnapshot{TS: day2, ByRecipient: map[string]float64{}, BySender: map[string]float64{}}
	for i := range 12 {
		snapshot.ByRecipient[string(rune('a'+i))+".org"] = float64(i + 1)
	}
	chart := domainTimeline("recipients", []domain.QueueSnapshot{snapshot},
		func(s domain.QueueSnapshot) map[string]float64 { return s.ByRecipient })
	assert.Len(t, chart.Series, 12)

	buckets := rankTally(snapshot.ByRecipient, topDomainsDonut, otherDomains)
	require.Len(t, buckets, topDomainsDonut+1)
	assert.Equal(t, domain.Bucket{Name: otherDomains, Value: 1 + 2 + 3}, buckets[topDomainsDonut])
}

func TestCollateQueues(t *testing.T) {
	hosts := adapters.MailStats{
		"mx1": {
			{TS: 10, Pending: 1, ByRecipient: map[string]float64{"a": 1}, BySender: map[string]float64{}},
			{TS: 20, Pending: 2, ByRecipient: map[string]float64{"a": 2}, BySender: map[string]float64{}},
		},
		"mx2": {
			{TS: 20, Pending: 3, ByRecipient: map[string]float64{"b": 3}, BySender: map[string]float64{"s": 3}},
		},
		domain.CollatedHost: {{TS: 20, Pending: 99}},
	}

	got := CollateQueues(hosts, 15)
	require.Len(t, got, 1)
	assert.Equal(t, int64(20), got[0].TS)
	assert.Equal(t, 5.0, got[0].Pending)
	assert.Equal(t, map[string]float64{"a": 2, "b": 3}, got[0].ByRecipient)
	assert.Equal(t, map[string]float64{"s": 3}, got[0].BySender)
}
