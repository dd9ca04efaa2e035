package upstream

type SLA struct {
	Respond float64 `json:"respond"`
	Resolve float64 `json:"resolve"`
}

type Ticket struct {
	Key            string  `json:"key"`
	Summary        string  `json:"summary"`
	URL            string  `json:"url"`
	Assignee       string  `json:"assignee"`
	Status         string  `json:"status"`
	Closed         bool    `json:"closed"`
	CreatedAt      float64 `json:"created_at"`
	ClosedAt       float64 `json:"closed_at"`
	Priority       string  `json:"priority"`
	IssueType      string  `json:"issuetype"`
	SLA            *SLA    `json:"sla"`
	FirstResponse  float64 `json:"first_response"`
	ResponseTime   float64 `json:"response_time"`
	ResolveTime    float64 `json:"resolve_time"`
	SLATimeCounted float64 `json:"sla_time_counted"`
	SLAMetRespond  *bool   `json:"sla_met_respond"`
	SLAMetResolve  *bool   `json:"sla_met_resolve"`
	Paused         bool    `json:"paused"`
}
