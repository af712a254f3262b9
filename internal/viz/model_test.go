package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/morsesim/internal/config"
	"github.com/san-kum/morsesim/internal/dynamo"
	"github.com/san-kum/morsesim/internal/experiment"
	"github.com/san-kum/morsesim/internal/sim"
)

func testModel(t *testing.T, stepsPerFrame int) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Lattice.GridEdge = 2
	cfg.TrackedParticle = 5
	cfg.SampleInterval = 10
	exp, err := experiment.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(exp, stepsPerFrame, ThemeClassic)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModelStartPause(t *testing.T) {
	m := testModel(t, 5)

	m, _ = update(m, TickMsg(time.Now()))
	if m.sim.State().Iteration != 0 {
		t.Fatal("idle model should not step")
	}

	m, _ = update(m, key("enter"))
	if m.sim.Phase() != sim.Running {
		t.Fatalf("expected running, got %s", m.sim.Phase())
	}

	m, cmd := update(m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	if m.sim.State().Iteration != 5 {
		t.Errorf("expected 5 iterations, got %d", m.sim.State().Iteration)
	}

	m, _ = update(m, key("p"))
	m, _ = update(m, TickMsg(time.Now()))
	if m.sim.State().Iteration != 5 {
		t.Errorf("paused model advanced to %d", m.sim.State().Iteration)
	}
}

func TestModelCollectsSamples(t *testing.T) {
	m := testModel(t, 10)
	m, _ = update(m, key("enter"))
	for i := 0; i < 3; i++ {
		m, _ = update(m, TickMsg(time.Now()))
	}
	if len(m.energy) != 3 {
		t.Errorf("expected 3 energy samples, got %d", len(m.energy))
	}
	if !strings.Contains(m.View(), "Kinetic") {
		t.Error("view should show kinetic energy once sampled")
	}
}

func TestModelKeys(t *testing.T) {
	m := testModel(t, 1)

	m, _ = update(m, key("t"))
	if m.sim.ShowTrace() {
		t.Error("t should hide the trace")
	}

	theta := m.camera.Theta
	m, _ = update(m, key("up"))
	if m.camera.Theta >= theta {
		t.Error("up should decrease theta")
	}

	m, _ = update(m, key("f3"))
	if m.camera.Phi != 0 {
		t.Errorf("F3 should reset phi, got %f", m.camera.Phi)
	}

	m, _ = update(m, key("c"))
	if m.theme.Name != ThemePhosphor.Name {
		t.Errorf("expected phosphor theme, got %s", m.theme.Name)
	}

	m, cmd := update(m, key("q"))
	if !m.sim.ExitRequested() {
		t.Error("q should request exit")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestModelViewIdle(t *testing.T) {
	v := testModel(t, 1).View()
	for _, want := range []string{"BARIUM", "IDLE", "Particles"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDrawSceneCentreParticle(t *testing.T) {
	c := NewCanvas(20, 10)
	f := Frame{
		Positions: []dynamo.Vec3{{0, 0, 0}},
		Colors:    []dynamo.Vec3{{1, 0, 0}},
	}
	DrawScene(c, NewCamera(), f, ThemeClassic)

	w, h := c.PixelSize()
	x, y, _, _ := Project(NewCamera().Transform(dynamo.Vec3{}), w, h)
	if !c.IsSet(x, y) {
		t.Error("particle at the box centre should be drawn")
	}
	if c.Colors[y/4][x/2] != RGB(dynamo.Vec3{1, 0, 0}) {
		t.Errorf("particle cell color %q", c.Colors[y/4][x/2])
	}
}

func TestRGB(t *testing.T) {
	tests := map[dynamo.Vec3]string{
		{0, 0, 0}:    "#000000",
		{1, 1, 1}:    "#ffffff",
		{1, 0.5, 0}:  "#ff8000",
		{2, -1, 0.2}: "#ff0033",
	}
	for in, want := range tests {
		if got := string(RGB(in)); got != want {
			t.Errorf("RGB(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "classic" {
		t.Error("unknown theme should fall back to classic")
	}
	if NextTheme(ThemeMinimal).Name != "classic" {
		t.Error("theme cycle should wrap")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}

func TestSparkline(t *testing.T) {
	s := SparklineChart([]float64{0, 1, 2, 3}, 10)
	if []rune(s)[0] != '▁' || []rune(s)[3] != '█' {
		t.Errorf("unexpected sparkline %q", s)
	}
	if got := len([]rune(SparklineChart(make([]float64, 50), 10))); got != 10 {
		t.Errorf("sparkline should keep the last 10 values, got %d", got)
	}
}
