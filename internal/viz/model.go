package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/morsesim/internal/experiment"
	"github.com/san-kum/morsesim/internal/metrics"
	"github.com/san-kum/morsesim/internal/sim"
)

const (
	width           = 70
	height          = 32
	historyCapacity = 600
	frameRate       = 60
)

type TickMsg time.Time

// Model drives one experiment interactively.
type Model struct {
	exp           *experiment.Experiment
	sim           *sim.Simulator
	camera        *Camera
	canvas        *Canvas
	theme         Theme
	styles        styles
	stepsPerFrame int
	energy        []float64
	momentum      []float64
	lastSample    int
	showHelp      bool
}

// NewModel wraps exp. The simulator stays idle until Enter is pressed.
func NewModel(exp *experiment.Experiment, stepsPerFrame int, theme Theme) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	m := Model{
		exp:           exp,
		sim:           exp.Simulator(),
		camera:        NewCamera(),
		canvas:        NewCanvas(width, height),
		theme:         theme,
		styles:        newStyles(theme),
		stepsPerFrame: stepsPerFrame,
		energy:        make([]float64, 0, historyCapacity),
		momentum:      make([]float64, 0, historyCapacity),
	}
	m.draw()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sim.RequestExit()
			return m, tea.Quit
		case "enter":
			m.sim.Start()
		case "p":
			m.sim.Pause()
		case "t":
			m.sim.ToggleTrace()
		case "up":
			m.camera.OrbitUp()
		case "down":
			m.camera.OrbitDown()
		case "left":
			m.camera.OrbitLeft()
		case "right":
			m.camera.OrbitRight()
		case "f1":
			m.camera.Preset(1)
		case "f2":
			m.camera.Preset(2)
		case "f3":
			m.camera.Preset(3)
		case "f4":
			m.camera.Preset(4)
		case "c":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
	case TickMsg:
		if m.sim.ExitRequested() {
			return m, tea.Quit
		}
		m.advance()
		m.draw()
		return m, tick()
	}
	return m, nil
}

// advance runs one frame worth of steps and records any new sample.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame && m.sim.Running(); i++ {
		if err := m.sim.Step(); err != nil {
			break
		}
	}

	r, ok := m.exp.Sampler().Last()
	if !ok || r.Iteration == m.lastSample {
		return
	}
	m.lastSample = r.Iteration
	m.energy = appendCapped(m.energy, r.KineticEnergy)
	m.momentum = appendCapped(m.momentum, r.NetMomentum.Norm())
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) draw() { DrawScene(m.canvas, m.camera, FrameOf(m.sim), m.theme) }

func (m Model) status() string {
	switch m.sim.Phase() {
	case sim.Running:
		return m.styles.running.Render("RUNNING")
	case sim.Halted:
		return m.styles.halted.Render("HALTED: " + m.sim.Err().Error())
	}
	if m.sim.State().Iteration == 0 {
		return m.styles.idle.Render("IDLE (Enter to start)")
	}
	return m.styles.idle.Render("PAUSED")
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.sim.State()
	cfg := m.exp.Config()

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(cfg.Material.Name)+" MORSE LATTICE") + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(m.row("Iteration", fmt.Sprintf("%d", st.Iteration)))
	s.WriteString(m.row("Time", fmt.Sprintf("%.4e s", st.Time)))
	s.WriteString(m.row("Particles", fmt.Sprintf("%d", st.Len())))
	s.WriteString(m.row("Tau", fmt.Sprintf("%.4e s", m.sim.Dt())))

	if r, ok := m.exp.Sampler().Last(); ok {
		s.WriteString(m.row("Kinetic", fmt.Sprintf("%.4e", r.KineticEnergy)))
		s.WriteString(m.row("Temp proxy", fmt.Sprintf("%.4e", r.Temperature)))
		s.WriteString(m.row("Mean stress", metrics.FormatVec(r.MeanStress)))
		s.WriteString(m.row("Momentum", metrics.FormatVec(r.NetMomentum)))
		s.WriteString(m.row(fmt.Sprintf("R #%d", r.Tracked), metrics.FormatVec(r.Position)))
		s.WriteString(m.row(fmt.Sprintf("V #%d", r.Tracked), metrics.FormatVec(r.Velocity)))
	} else {
		s.WriteString(m.row("Diagnostics", fmt.Sprintf("every %d iterations", m.exp.Sampler().Interval())))
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("Kinetic energy"))
		s.WriteString(m.styles.graph.Render(chart) + "\n")
		s.WriteString(m.row("|Σv|", SparklineChart(m.momentum, 36)))
	}

	trace := "on"
	if !m.sim.ShowTrace() {
		trace = "off"
	}
	s.WriteString(m.row("Trace", trace))
	s.WriteString(m.row("Theme", m.theme.Name))
	s.WriteString(m.styles.help.Render("Enter:Start P:Pause Q:Quit T:Trace\n←↑↓→:Orbit F1-F4:Views C:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.canvas.Render(m.canvas.String()),
		m.styles.panel.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Enter    - Start simulation         ║
║  P        - Pause                    ║
║  Q        - Quit                     ║
║  T        - Toggle trace             ║
║  Up/Down  - Orbit polar angle        ║
║  Lft/Rgt  - Orbit azimuth            ║
║  F1..F4   - Stock camera views       ║
║  C        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

// Run starts the interactive program on the alternate screen.
func Run(exp *experiment.Experiment, stepsPerFrame int, theme Theme) error {
	_, err := tea.NewProgram(NewModel(exp, stepsPerFrame, theme), tea.WithAltScreen()).Run()
	return err
}
