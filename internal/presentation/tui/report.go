package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/electionlab/groundwork/pkg/domain"
)

var statusGlyphs = map[domain.StepStatus]string{
	domain.StepApplied: "✓",
	domain.StepSkipped: "−",
	domain.StepFailed:  "✗",
	domain.StepNotRun:  "·",
}

// Markdown renders a run report as a markdown document.
func Markdown(report *domain.RunReport) string {
	var b strings.Builder

	outcome := "succeeded"
	if report.Failed() {
		outcome = "**failed**"
	}

	fmt.Fprintf(&b, "# Provisioning run %s\n\n", report.ID)
	fmt.Fprintf(&b, "Stage `%s` %s in %s.\n\n", report.Stage, outcome,
		report.FinishedAt.Sub(report.StartedAt).Round(10e6))

	fmt.Fprintf(&b, "| | Step | Outcome | Duration |\n")
	fmt.Fprintf(&b, "|---|------|---------|----------|\n")
	for _, s := range report.Steps {
		detail := string(s.Status)
		switch {
		case s.Status == domain.StepSkipped && s.Reason != "":
			detail = s.Reason
		case s.Status == domain.StepFailed && s.Error != "":
			detail = s.Error
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			statusGlyphs[s.Status], s.Name, detail, s.Duration.Round(10e6))
	}

	if failure, ok := report.FirstFailure(); ok && failure.Output != "" {
		fmt.Fprintf(&b, "\n## Output of failed step\n\n```\n%s\n```\n", failure.Output)
	}

	return b.String()
}

// Render writes the report to w: through glamour when rich output is
// wanted, as raw markdown otherwise (pipes, CI logs).
func Render(w io.Writer, report *domain.RunReport, rich bool) {
	md := Markdown(report)
	if rich {
		render := NewRenderer()
		if out, err := render(md); err == nil {
			fmt.Fprint(w, out)
			return
		}
	}
	fmt.Fprint(w, md)
}
