package upstream

import "encoding/json"

type UptimeResponse struct {
	UptimeTotal      *UptimeTotal               `json:"uptime_total"`
	UptimeCollated   map[string]json.RawMessage `json:"uptime_collated"`
	UptimeIndividual map[string]json.RawMessage `json:"uptime_individual"`
}

type UptimeTotal struct {
	Year  float64 `json:"year"`
	Month float64 `json:"month"`
	Week  float64 `json:"week"`
}

type CollatedUptime struct {
	Average   float64            `json:"average"`
	PastMonth float64            `json:"past_month"`
	PastWeek  float64            `json:"past_week"`
	Monthly   map[string]float64 `json:"monthly"`
}

type HostUptime struct {
	UUID           string             `json:"uuid"`
	Label          string             `json:"label"`
	UptimeMonthly  map[string]float64 `json:"uptime_monthly"`
	UptimeAverage  float64            `json:"uptime_average"`
	UptimePastWeek float64            `json:"uptime_past_week"`
}
