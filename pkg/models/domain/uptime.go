package domain

// ServiceUptime holds uptime percentages of one service category.
type ServiceUptime struct {
	Category  string
	Average   float64
	PastMonth float64
	PastWeek  float64
	Monthly   map[string]float64 // YYYY-MM -> percent
}

// HostUptime holds the uptime of one monitored host.
type HostUptime struct {
	ID       string
	Label    string
	Average  float64
	PastWeek float64
	Monthly  map[string]float64
}

type UptimeTotals struct {
	Year  float64
	Month float64
	Week  float64
}

type UptimeReport struct {
	Totals     UptimeTotals
	Categories []ServiceUptime
	Hosts      map[string]HostUptime
}
