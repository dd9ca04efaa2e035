package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/domain"
	"github.com/de-tools/report-atlas/pkg/reports"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, expected text or json", s)
	}
}

type TableConfig struct {
	NameWidth  int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  32,
		ValueWidth: 44,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const viewTemplate = `
{{.Title}}
{{if .Description}}{{.Description}}
{{end}}{{range .Notes}}Note: {{.}}
{{end}}{{range .Summaries}}
=== {{.Title}} ===
{{separator}}
{{range .Rows}}{{formatRow .Name .Value}}
{{end}}{{separator}}
{{end}}{{range .Progress}}
=== {{.Title}}: {{.Ratio}} ===
{{.Description}}
{{end}}{{range .Rankings}}
=== {{.Title}} ===
{{range .Buckets}}- {{.Name}}: {{number .Value}}
{{end}}{{end}}{{range .TimeSeries}}
=== {{.Title}} ({{len .Timeline}} points{{if .Timeline}}, {{day (first .Timeline)}} to {{day (last .Timeline)}}{{end}}) ===
{{range .Series}}- {{.Name}}: {{number .Total}}
{{end}}{{end}}{{range .Lists}}
=== {{.Title}} ===
{{join .Columns}}
{{range .Rows}}{{join .}}
{{end}}{{end}}{{if .Dropped}}
{{.Dropped}} malformed records were left out.
{{end}}`

// Handle writes a rendered report as text tables or as JSON.
func (c *Reporter) Handle(view *domain.View, format Format) error {
	if format == FormatJSON {
		return c.writeJSON(view)
	}

	funcMap := template.FuncMap{
		"formatRow": func(name, value string) string {
			return fmt.Sprintf("| %-*s | %-*s |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"number": func(v float64) string { return fmt.Sprintf("%.6g", v) },
		"day":    func(ts int64) string { return time.Unix(ts, 0).UTC().Format(time.DateOnly) },
		"first":  func(t domain.Timeline) int64 { return t[0] },
		"last":   func(t domain.Timeline) int64 { return t[len(t)-1] },
		"join":   func(cells []string) string { return strings.Join(cells, " | ") },
	}

	t, err := template.New("report").Funcs(funcMap).Parse(viewTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, view)
}

// HandleReports lists the registered reports.
func (c *Reporter) HandleReports(infos []reports.Info, format Format) error {
	if format == FormatJSON {
		return c.writeJSON(infos)
	}
	for _, info := range infos {
		if _, err := fmt.Fprintf(c.writer, "%-12s %-32s %s\n", info.Name, info.Title, info.Endpoint); err != nil {
			return err
		}
	}
	return nil
}

func (c *Reporter) writeJSON(v any) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
