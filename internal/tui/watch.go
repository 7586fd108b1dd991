package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/viz"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 300
	frameRate       = 30
	minSpeed        = 1
	maxSpeed        = 1 << 16
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// history is a bounded window of the horizontally drawn component.
type history struct {
	axis int
	vals []float64
}

func (h *history) OnStep(_ int, _ float64, y dynamo.State) {
	h.vals = append(h.vals, y[h.axis])
	if len(h.vals) > 4*historyCapacity {
		h.vals = append(h.vals[:0], h.vals[len(h.vals)-historyCapacity:]...)
	}
}

func (h *history) Reset() { h.vals = h.vals[:0] }

func (h *history) recent() []float64 {
	if len(h.vals) <= historyCapacity {
		return h.vals
	}
	return h.vals[len(h.vals)-historyCapacity:]
}

// Model traces an attractor into a braille canvas a batch of iterations
// per frame.
type Model struct {
	tracer  *sim.Tracer
	cfg     sim.Config
	session *sim.Session
	canvas  *viz.Canvas
	hist    *history

	theme     int
	running   bool
	speed     int
	params    map[string]float64
	paramKeys []string
	selected  int
	showHelp  bool
	err       error
}

// NewModel prepares a live trace. cfg's canvas size is replaced by the
// terminal canvas resolution; its viewport is kept.
func NewModel(tr *sim.Tracer, cfg sim.Config, theme string) (Model, error) {
	canvas := viz.NewCanvas(canvasWidth, canvasHeight)
	cfg.Width, cfg.Height = canvas.PixelSize()

	h := &history{axis: cfg.Axes[0], vals: make([]float64, 0, historyCapacity)}
	tr.AddObserver(h)

	params := make(map[string]float64)
	if c, ok := tr.System().(dynamo.Configurable); ok {
		for k, v := range c.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := Model{
		tracer:    tr,
		cfg:       cfg,
		canvas:    canvas,
		hist:      h,
		running:   true,
		speed:     defaultSpeed(tr.System()),
		params:    params,
		paramKeys: keys,
	}
	for i, name := range viz.ThemeNames() {
		if name == theme {
			m.theme = i
		}
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func defaultSpeed(sys dynamo.System) int {
	if sys.Mode() == dynamo.Iterate {
		return 2000
	}
	return 50
}

func (m *Model) reset() error {
	s, err := m.tracer.Start(m.canvas, m.cfg)
	if err != nil {
		return err
	}
	m.session = s
	for _, o := range m.tracer.Observers() {
		if r, ok := o.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
	m.err = nil
	return nil
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
		case "+", "=":
			if m.speed < maxSpeed {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > minSpeed {
				m.speed /= 2
			}
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.tune(1.05)
		case "down", "j":
			m.tune(0.95)
		case "t":
			m.theme = (m.theme + 1) % len(viz.Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil && !m.session.Done() {
			if _, err := m.session.Advance(m.speed); err != nil {
				m.err = err
			}
		}
		return m, tick()
	}
	return m, nil
}

// tune scales the selected parameter and restarts the trace.
func (m *Model) tune(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	c, ok := m.tracer.System().(dynamo.Configurable)
	if !ok {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if err := c.SetParam(key, val); err != nil {
		m.err = err
		return
	}
	m.params[key] = val
	m.err = m.reset()
}

func (m Model) Session() *sim.Session { return m.session }
func (m Model) Speed() int            { return m.speed }
func (m Model) Running() bool         { return m.running }
func (m Model) Err() error            { return m.err }

func (m Model) View() string {
	th := viz.Themes[m.theme]
	s := m.session

	status := "TRACING"
	switch {
	case m.err != nil:
		status = th.Err().Render("ERROR")
	case s.Done():
		status = "DONE"
	case !m.running:
		status = "PAUSED"
	}

	var b strings.Builder
	b.WriteString(th.Header().Render(strings.ToUpper(m.tracer.System().Name())) + "  " + status + "\n\n")
	b.WriteString(viz.ProgressBar(float64(s.Steps())/float64(s.Total()), 30) + "\n\n")

	if vals := m.hist.recent(); len(vals) > 1 {
		chart := asciigraph.Plot(vals, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("x"))
		b.WriteString(th.Ink().Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		b.WriteString(th.Label().Render(label) + th.Value().Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d / %d", s.Steps(), s.Total()))
	row("Time", fmt.Sprintf("%.2f", s.Time()))
	row("Speed", fmt.Sprintf("%d/frame", m.speed))
	row("Bounds", s.Bounds().String())
	if m.err != nil {
		b.WriteString(th.Err().Render(m.err.Error()) + "\n")
	}

	b.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		b.WriteString(th.Label().Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-6s %.4g", k, m.params[k])
		if i == m.selected {
			b.WriteString(th.Ink().Bold(true).Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + th.Label().Render(line) + "\n")
		}
	}

	b.WriteString(helpStyle.Render(viz.Separator(30) + "\nSP:Pause R:Reset Q:Quit\n+/-:Speed Tab ↑↓:Tune T:Theme"))

	canvasView := canvasStyle.Render(th.Ink().Render(m.canvas.String()))
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
	if m.showHelp {
		return helpPanel + "\n\n" + main
	}
	return main
}

const helpPanel = `Space  pause / resume
R      restart the trace
+ -    double / halve iterations per frame
Tab    select parameter
Up/K   raise parameter 5% and restart
Down/J lower parameter 5% and restart
T      cycle theme
Q      quit`

// Run opens the live view on the terminal's alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
