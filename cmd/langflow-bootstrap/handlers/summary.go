package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/langflow-bootstrap/internal/bootstrap"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderSummary produces a lipgloss-styled run summary.
func renderSummary(r *bootstrap.Report) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  langflow-bootstrap %s", r.Variant)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	status := okStyle.Render(r.Stage)
	if r.Error != "" {
		status = failStyle.Render(r.Stage)
	}
	fmt.Fprintf(&b, "    Server:   %s\n", r.URL)
	fmt.Fprintf(&b, "    Result:   %s in %s\n", status, r.Duration)
	fmt.Fprintf(&b, "    Stages:   %s\n", strings.Join(r.Stages, " → "))
	if r.Account != "" {
		fmt.Fprintf(&b, "    Account:  %s\n", r.Account)
	}
	if r.APIKey != "" {
		fmt.Fprintf(&b, "    API key:  %s\n", r.APIKey)
	}
	if r.FlowName != "" {
		fmt.Fprintf(&b, "    Flow:     %s (%s)\n", r.FlowName, r.FlowID)
	}

	if u := r.Uploads; u != nil {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Uploads"))
		b.WriteString("\n")
		if u.Missing {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(u.Root+" not found"))
		} else {
			fmt.Fprintf(&b, "    %s  %d uploaded, %d failed, %d skipped\n", u.Root, u.Uploaded, u.Failed, u.Skipped)
		}
		for _, p := range u.Problems {
			fmt.Fprintf(&b, "    %s %s\n", failStyle.Render("✗"), p.Path)
		}
	}

	if len(r.FlowIDs) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Tracked Flows"))
		b.WriteString("\n")
		for _, f := range r.FlowIDs {
			mark := okStyle.Render("✓")
			id := f.ID
			if id == "" {
				mark = failStyle.Render("✗")
				id = dimStyle.Render("(not found)")
			}
			fmt.Fprintf(&b, "    %s %-34s %s\n", mark, f.EnvKey, id)
		}
	}

	if len(r.EnvKeys) > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Env keys written: " + strings.Join(r.EnvKeys, ", ")))
		b.WriteString("\n")
	}

	if r.Error != "" {
		b.WriteString("\n")
		b.WriteString(failStyle.Render("  " + r.Error))
		b.WriteString("\n")
	}

	return b.String()
}
