package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ecodyn/bioweb/internal/sim"
)

const (
	historyCapacity = 600
	stepsPerFrame   = 25
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	extantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	goneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Live is the bubbletea model driving a running simulation in the
// terminal: community biomass sparkline, per-species status, extinctions.
type Live struct {
	dyn       sim.System
	stepper   sim.Integrator
	state     sim.State
	species   int
	t, dt     float64
	frameRate int
	running   bool
	history   []float64
	extinct   []bool
}

func NewLive(dyn sim.System, stepper sim.Integrator, x0 sim.State, species int, dt float64, frameRate int) Live {
	return Live{
		dyn:       dyn,
		stepper:   stepper,
		state:     x0.Clone(),
		species:   species,
		dt:        dt,
		frameRate: frameRate,
		running:   true,
		history:   make([]float64, 0, historyCapacity),
		extinct:   make([]bool, species),
	}
}

func (m Live) Init() tea.Cmd {
	return m.tick()
}

func (m Live) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}

	case tickMsg:
		if m.running {
			for i := 0; i < stepsPerFrame; i++ {
				m.state = m.stepper.Step(m.dyn, m.state, m.t, m.dt)
				for j := 0; j < m.species; j++ {
					if m.state[j] <= 0 {
						m.state[j] = 0
						m.extinct[j] = true
					}
				}
				m.t += m.dt
			}

			total := 0.0
			for j := 0; j < m.species; j++ {
				total += m.state[j]
			}
			m.history = append(m.history, total)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m Live) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("bioweb live"))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("time"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f", m.t)))
	b.WriteString("\n")

	extant := 0
	for _, gone := range m.extinct {
		if !gone {
			extant++
		}
	}
	b.WriteString(labelStyle.Render("extant"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d / %d", extant, m.species)))
	b.WriteString("\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("community biomass"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	var row strings.Builder
	for j := 0; j < m.species; j++ {
		if m.extinct[j] {
			row.WriteString(goneStyle.Render("x"))
		} else {
			row.WriteString(extantStyle.Render("o"))
		}
		row.WriteString(" ")
	}
	b.WriteString(labelStyle.Render("species"))
	b.WriteString(row.String())
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("space pause | q quit"))
	b.WriteString("\n")

	return b.String()
}

// RunLive starts the live terminal view and blocks until quit.
func RunLive(dyn sim.System, stepper sim.Integrator, x0 sim.State, species int, dt float64, frameRate int) error {
	p := tea.NewProgram(NewLive(dyn, stepper, x0, species, dt, frameRate))
	_, err := p.Run()
	return err
}
