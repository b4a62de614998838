package cli

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/sudslabs/suds/internal/client"
	"github.com/sudslabs/suds/internal/engine"
)

// phaseLabels maps planner phase names to display text, in pipeline order.
var phaseOrder = []string{
	string(engine.PhaseNormalize),
	string(engine.PhaseSelectMethod),
	string(engine.PhaseFetchSteps),
	string(engine.PhaseFetchTools),
	string(engine.PhaseValidate),
	string(engine.PhaseFallback),
	string(engine.PhaseNarrate),
	string(engine.PhaseAssemble),
}

var phaseLabels = map[string]string{
	string(engine.PhaseNormalize):    "Normalizing scenario",
	string(engine.PhaseSelectMethod): "Ranking cleaning methods",
	string(engine.PhaseFetchSteps):   "Retrieving steps",
	string(engine.PhaseFetchTools):   "Retrieving tools",
	string(engine.PhaseValidate):     "Checking constraints",
	string(engine.PhaseFallback):     "Searching similar scenarios",
	string(engine.PhaseNarrate):      "Rephrasing steps",
	string(engine.PhaseAssemble):     "Assembling workflow",
}

// planEventMsg carries one stream event into the model.
type planEventMsg client.StreamEvent

// planDoneMsg carries the final result of the streamed plan.
type planDoneMsg struct {
	wf  *engine.Workflow
	err error
}

// planModel is the bubbletea model for a streamed remote plan.
type planModel struct {
	events   chan tea.Msg
	progress progress.Model
	theme    Theme
	phase    string
	detail   string
	reached  map[string]bool
	done     bool
	quitting bool
	wf       *engine.Workflow
	err      error
	cancel   context.CancelFunc
}

func newPlanModel(events chan tea.Msg, cancel context.CancelFunc) planModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)
	return planModel{
		events:   events,
		progress: prog,
		theme:    defaultTheme,
		reached:  make(map[string]bool),
		cancel:   cancel,
	}
}

// Init returns the initial command (start reading events).
func (m planModel) Init() tea.Cmd {
	return tea.Batch(
		m.waitForEvent(),
		m.progress.Init(),
	)
}

// waitForEvent blocks on the event channel in a command goroutine.
func (m planModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Update handles messages and returns the updated model.
func (m planModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}

	case planEventMsg:
		if msg.Phase != "" {
			m.phase = msg.Phase
			m.detail = msg.Detail
			m.reached[msg.Phase] = true
		}
		return m, m.waitForEvent()

	case planDoneMsg:
		m.done = true
		m.wf = msg.wf
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m planModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m planModel) renderContent() string {
	if m.done || m.quitting {
		return ""
	}
	if m.phase == "" {
		return "Connecting to server...\n"
	}

	pct := float64(len(m.reached)) / float64(len(phaseOrder))
	label := phaseLabels[m.phase]
	if label == "" {
		label = m.phase
	}
	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", label))

	line := fmt.Sprintf("%s %s", status, m.progress.ViewAs(pct))
	if m.detail != "" {
		line += " " + m.theme.hintStyle().Render(m.detail)
	}
	hint := m.theme.hintStyle().Render("Press Ctrl+C to cancel")
	return fmt.Sprintf("%s\n%s\n", line, hint)
}

// RunPlanProgress plans through the server's stream endpoint with a live
// progress UI. Returns the workflow, or the planner/stream error.
func RunPlanProgress(ctx context.Context, c *client.Client, req engine.Request) (*engine.Workflow, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 16)
	go func() {
		wf, err := c.PlanStream(ctx, req, func(ev client.StreamEvent) {
			if ev.Type == client.EventPhase {
				events <- planEventMsg(ev)
			}
		})
		events <- planDoneMsg{wf: wf, err: err}
	}()

	p := tea.NewProgram(newPlanModel(events, cancel))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	m, ok := finalModel.(planModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final model type")
	}
	if m.quitting {
		return nil, context.Canceled
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.wf, nil
}
