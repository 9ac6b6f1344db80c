package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/stela-engine/scripthost"
	"github.com/stela-engine/scripthost/application/config"
	"github.com/stela-engine/scripthost/domain/entities"
	"github.com/stela-engine/scripthost/hostfuncs"
)

const maxLogLines = 500

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	scriptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	hookStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444"))
)

type keyMap struct {
	Reload key.Binding
	Stop   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reload, k.Stop, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Stop:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "shutdown scripts")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

type frameMsg time.Time

type reloadMsg struct{}

type interactiveModel struct {
	last     time.Time
	env      *hostEnv
	output   *hostfuncs.BoundedBuffer
	path     string
	lines    []string
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	interval time.Duration
	frames   uint64
	status   int
	loaded   bool
}

func runInteractive(ctx context.Context, cfg config.HostConfig) error {
	output := hostfuncs.NewBoundedBuffer(hostfuncs.DefaultMaxOutputSize)
	env, err := newHostEnv(context.WithoutCancel(ctx), cfg, output, output)
	if err != nil {
		return err
	}
	defer env.close()

	m := newInteractiveModel(env, output, cfg.Module.Path, cfg.TickInterval())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(gctx))

	if env.watcher != nil {
		g.Go(func() error {
			err := env.watcher.Watch(gctx, func(string) { p.Send(reloadMsg{}) })
			if err != nil {
				return fmt.Errorf("watch %s: %w", cfg.Module.Path, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	return g.Wait()
}

func newInteractiveModel(env *hostEnv, output *hostfuncs.BoundedBuffer, path string, interval time.Duration) *interactiveModel {
	vp := viewport.New(80, 12)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}
	return &interactiveModel{
		env:      env,
		output:   output,
		path:     path,
		interval: interval,
		viewport: vp,
		help:     help.New(),
		keys:     defaultKeys,
	}
}

func (m *interactiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return reloadMsg{} }, m.tick())
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = max(msg.Height-lipgloss.Height(m.header())-4, 3)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.env.runtime.Shutdown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Stop):
			m.env.runtime.Shutdown()
			return m, nil
		}
		if k, ok := keyFromMsg(msg); ok {
			m.env.keys.Press(k)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case reloadMsg:
		m.reload()
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.env.runtime.Tick(float32(now.Sub(m.last).Seconds()))
			m.frames++
		}
		m.last = now
		m.env.keys.EndFrame()
		m.collectOutput()
		return m, m.tick()
	}
	return m, nil
}

func (m *interactiveModel) reload() {
	m.status = m.env.reload(m.path)
	m.loaded = true
	m.last = time.Time{}
	m.collectOutput()
}

// collectOutput moves captured log and guest output into the log view.
func (m *interactiveModel) collectOutput() {
	out := strings.TrimRight(m.output.Drain(), "\n")
	if out == "" {
		return
	}
	m.lines = append(m.lines, strings.Split(out, "\n")...)
	if n := len(m.lines) - maxLogLines; n > 0 {
		m.lines = m.lines[n:]
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m *interactiveModel) header() string {
	var b strings.Builder
	coord := m.env.runtime.Coordinator()

	b.WriteString(titleStyle.Render("scripthost"))
	b.WriteString(" ")
	b.WriteString(dimStyle.Render(m.path))
	b.WriteString("\n\n")

	status := okStyle.Render("ok")
	if !m.loaded {
		status = dimStyle.Render("loading")
	} else if m.status != scripthost.StatusOK {
		status = errorStyle.Render(fmt.Sprintf("status %d", m.status))
	}
	fmt.Fprintf(&b, "state: %s  load: %s  frames: %d\n", coord.State(), status, m.frames)

	info := coord.Session()
	if info == nil {
		b.WriteString(dimStyle.Render("no module loaded"))
		b.WriteString("\n")
		return b.String()
	}
	if info.Stopped {
		b.WriteString(errorStyle.Render("scripts shut down"))
		b.WriteString("\n")
	}
	for _, s := range info.Scripts {
		var hooks []string
		if s.HasStart {
			hooks = append(hooks, "start")
		}
		if s.HasUpdate {
			hooks = append(hooks, "update")
		}
		if s.HasShutdown {
			hooks = append(hooks, "shutdown")
		}
		fmt.Fprintf(&b, "  %s %s\n", scriptStyle.Render(s.Type), hookStyle.Render(strings.Join(hooks, " ")))
	}
	if keys := m.env.keys.Pressed(); len(keys) > 0 {
		fmt.Fprintf(&b, "keys: %v\n", keys)
	}
	return b.String()
}

func (m *interactiveModel) View() string {
	return m.header() + "\n" + logStyle.Render(m.viewport.View()) + "\n" + m.help.View(m.keys)
}

// keyFromMsg maps a terminal key event onto a script key.
func keyFromMsg(msg tea.KeyMsg) (entities.Key, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return entities.KeyUp, true
	case tea.KeyDown:
		return entities.KeyDown, true
	case tea.KeyLeft:
		return entities.KeyLeft, true
	case tea.KeyRight:
		return entities.KeyRight, true
	case tea.KeySpace:
		return entities.KeySpace, true
	case tea.KeyEnter:
		return entities.KeyEnter, true
	case tea.KeyEsc:
		return entities.KeyEscape, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || !unicode.IsLetter(msg.Runes[0]) {
			return 0, false
		}
		k, err := entities.ParseKey(string(msg.Runes[0]))
		return k, err == nil
	}
	return 0, false
}
