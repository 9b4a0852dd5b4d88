package formatting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"convoy/internal/report"
)

// Format selects the output representation for a report.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected table, json or yaml)", s)
	}
}

// Render writes the report to w in the requested format. The JSON and YAML
// forms are the report structure as-is; callers relying on the determinism
// guarantee should use those.
func Render(w io.Writer, rep report.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rep)
	default:
		renderTable(w, rep)
		return nil
	}
}

func renderTable(w io.Writer, rep report.Report) {
	if len(rep.Fatal) > 0 || len(rep.Warnings) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Severity", "Code", "Service", "Message"})
		for _, issue := range rep.Fatal {
			t.AppendRow(table.Row{severityCell(issue.Severity), issue.Code, issue.Service, issue.Message})
		}
		for _, issue := range rep.Warnings {
			t.AppendRow(table.Row{severityCell(issue.Severity), issue.Code, issue.Service, issue.Message})
		}
		t.Render()
	}

	switch {
	case !rep.Ok():
		fmt.Fprintf(w, "\n%s %d fatal issue(s), configuration must not be activated\n",
			text.FgRed.Sprint("FAIL:"), len(rep.Fatal))
	case len(rep.StartupOrder) == 0:
		fmt.Fprintf(w, "%s no services enabled\n", text.FgGreen.Sprint("OK:"))
	default:
		fmt.Fprintf(w, "%s startup order: %s\n",
			text.FgGreen.Sprint("OK:"), strings.Join(rep.StartupOrder, " -> "))
	}
}

func severityCell(sev report.Severity) string {
	if sev == report.SeverityFatal {
		return text.FgRed.Sprint(string(sev))
	}
	return text.FgYellow.Sprint(string(sev))
}
