package api

import "github.com/de-tools/report-atlas/pkg/models/domain"

// SessionHeader carries the report session ID. Clients echo the value they
// received to reuse cached upstream payloads between renders.
const SessionHeader = "X-Report-Session"

type Report struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Endpoint string `json:"endpoint"`
}

type ReportView struct {
	Session string       `json:"session"`
	View    *domain.View `json:"view"`
}

type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
