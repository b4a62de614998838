package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/sudslabs/suds/internal/engine"
)

// Theme holds the color scheme for CLI output.
type Theme struct {
	Title   lipgloss.Color
	Status  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Title:   lipgloss.Color("#AF87FF"), // violet
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Warning: lipgloss.Color("#FFAF00"), // amber
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

// Style functions for dynamic theming
func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Warning)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// renderWorkflow formats a planned workflow for the terminal.
func renderWorkflow(wf *engine.Workflow) string {
	t := defaultTheme
	var b strings.Builder

	title := fmt.Sprintf("%s for %s on %s",
		upperFirst(humanize(wf.Scenario.Method)), humanize(wf.Scenario.Dirt), humanize(wf.Scenario.Surface))
	b.WriteString(t.titleStyle().Render(title) + "\n")

	switch wf.Outcome {
	case engine.OutcomeAccept:
		b.WriteString(t.successStyle().Render("✓ "+wf.Outcome) + "\n")
	default:
		b.WriteString(t.warningStyle().Render("⚠ "+wf.Outcome) + "\n")
	}
	b.WriteString(t.hintStyle().Render(fmt.Sprintf("confidence %.2f · %s · ~%d min · %s",
		wf.Metadata.Confidence, wf.Procedure.Difficulty,
		wf.Procedure.EstimatedDurationMinutes, wf.WorkflowID)) + "\n\n")

	if fb := wf.Metadata.Fallback; fb != nil {
		b.WriteString(t.warningStyle().Render(fmt.Sprintf(
			"Planned from similar scenario %s × %s (similarity %.1f)",
			humanize(fb.UsedSurface), humanize(fb.UsedDirt), fb.Similarity)) + "\n\n")
	}

	b.WriteString(t.statusStyle().Render("Steps") + "\n")
	for _, st := range wf.Procedure.Steps {
		b.WriteString(fmt.Sprintf("  %d. %s\n", st.StepNumber, st.Description))
		if verbose && len(st.Tools) > 0 {
			b.WriteString(t.hintStyle().Render("     tools: "+strings.Join(st.Tools, ", ")) + "\n")
		}
	}

	if len(wf.Procedure.RequiredTools) > 0 {
		b.WriteString("\n" + t.statusStyle().Render("Tools") + "\n")
		for _, tool := range wf.Procedure.RequiredTools {
			marker := "optional"
			if tool.IsRequired {
				marker = "required"
			}
			b.WriteString(fmt.Sprintf("  • %s (%s)\n", humanize(tool.Name), marker))
		}
	}

	if len(wf.Procedure.SafetyNotes) > 0 {
		b.WriteString("\n" + t.warningStyle().Render("Safety") + "\n")
		for _, note := range wf.Procedure.SafetyNotes {
			b.WriteString(fmt.Sprintf("  ! %s\n", note))
		}
	}

	if len(wf.Procedure.Tips) > 0 {
		b.WriteString("\n" + t.statusStyle().Render("Tips") + "\n")
		for _, tip := range wf.Procedure.Tips {
			b.WriteString(fmt.Sprintf("  · %s\n", tip))
		}
	}

	if len(wf.Metadata.Warnings) > 0 {
		b.WriteString("\n" + t.warningStyle().Render("Warnings") + "\n")
		for _, warning := range wf.Metadata.Warnings {
			b.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
	}

	if len(wf.SourceDocuments) > 0 {
		b.WriteString("\n" + t.hintStyle().Render("Sources") + "\n")
		for _, doc := range wf.SourceDocuments {
			b.WriteString(t.hintStyle().Render(fmt.Sprintf("  %s — %s", doc.Title, doc.URL)) + "\n")
		}
	}

	return b.String()
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
