package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bounce/internal/session"
)

const (
	canvasCols   = 40
	canvasRows   = 36
	graphSamples = 240
)

type TickMsg time.Time

// Model renders a session as braille dots next to a stats panel.
type Model struct {
	session *session.Session
	canvas  *Canvas
	dt      float64
	running bool
	theme   int
}

// NewModel starts on the named theme; unknown names fall back to mono.
func NewModel(s *session.Session, theme string) Model {
	m := Model{
		session: s,
		canvas:  NewCanvas(canvasCols, canvasRows),
		dt:      s.Config().Simulation.TickDt(),
		running: true,
	}
	want := GetTheme(theme).Name
	for i, t := range Themes {
		if t.Name == want {
			m.theme = i
		}
	}
	return m
}

// Run starts the live view in the alternate screen.
func Run(s *session.Session, theme string) error {
	_, err := tea.NewProgram(NewModel(s, theme), tea.WithAltScreen()).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.session.Reset()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
	case TickMsg:
		if m.running {
			m.session.Tick(m.dt)
		}
		return m, m.tick()
	}
	return m, nil
}

// draw projects every ball onto the canvas.
func (m Model) draw() {
	m.canvas.Clear()
	b := m.session.Simulator().Bounds()
	cw, ch := m.canvas.Dots()
	sx, sy := float64(cw)/b.Width, float64(ch)/b.Height
	for _, ball := range m.session.World().Balls {
		m.canvas.Disc(ball.Position.X*sx, ball.Position.Y*sy, b.Radius*sx)
	}
}

// population returns the most recent ball counts for the graph.
func (m Model) population() []float64 {
	hist := m.session.History()
	if len(hist) > graphSamples {
		hist = hist[len(hist)-graphSamples:]
	}
	out := make([]float64, len(hist))
	for i, s := range hist {
		out[i] = float64(s.Balls)
	}
	return out
}

func (m Model) View() string {
	st := Themes[m.theme].styles()
	m.draw()

	w := m.session.World()
	var s strings.Builder
	s.WriteString(st.header.Render("MULTIPLYING BALLS") + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString(st.alert.Render("PAUSED") + "\n\n")
	}

	if pop := m.population(); len(pop) > 1 {
		chart := asciigraph.Plot(pop, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("Population"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Balls", fmt.Sprintf("%d / %d", len(w.Balls), m.session.Simulator().MaxBalls()))
	row("Frame", fmt.Sprintf("%d", w.Frame))
	row("Clock", fmt.Sprintf("%.2fs", w.Clock))
	row("Theme", Themes[m.theme].Name)

	s.WriteString(st.help.Render("SP:Pause R:Reset T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.stats.Render(s.String()))
}
