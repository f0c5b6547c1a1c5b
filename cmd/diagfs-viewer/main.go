// Copyright 2026 The Diagfs Authors
// SPDX-License-Identifier: Apache-2.0

// diagfs-viewer is a terminal UI for watching a device's diagnostics
// reports live. Point it at one device directory of a mounted
// diagnostics filesystem (for example /mnt/diagfs/0): each report
// becomes a tab, and the active report is re-read on an interval so
// counters update in place.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/gfxcore/diagfs/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var interval time.Duration
	var showVersion bool

	flagSet := pflag.NewFlagSet("diagfs-viewer", pflag.ContinueOnError)
	flagSet.DurationVar(&interval, "interval", time.Second, "refresh interval for the active report")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	if showVersion {
		version.Print("diagfs-viewer")
		return nil
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: diagfs-viewer [flags] <device directory>")
	}

	deviceDir := flagSet.Arg(0)
	reports, err := listReports(deviceDir)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("%s contains no reports; is the diagnostics filesystem mounted?", deviceDir)
	}

	model := newModel(deviceDir, reports, interval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// listReports returns the report names in the device directory,
// sorted for a stable tab order.
func listReports(deviceDir string) ([]string, error) {
	entries, err := os.ReadDir(deviceDir)
	if err != nil {
		return nil, fmt.Errorf("listing device directory: %w", err)
	}
	var reports []string
	for _, entry := range entries {
		if !entry.IsDir() {
			reports = append(reports, entry.Name())
		}
	}
	sort.Strings(reports)
	return reports, nil
}

// readReport accumulates a report body through the chunked read
// protocol. Report files advertise zero size, so the content is only
// visible to a read loop that runs until EOF.
func readReport(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var body strings.Builder
	buffer := make([]byte, 4096)
	for {
		n, err := file.Read(buffer)
		body.Write(buffer[:n])
		if err == io.EOF {
			return body.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// keyMap defines the viewer's key bindings.
type keyMap struct {
	NextTab     key.Binding
	PreviousTab key.Binding
	Refresh     key.Binding
	Pause       key.Binding
	Quit        key.Binding
}

var defaultKeyMap = keyMap{
	NextTab: key.NewBinding(
		key.WithKeys("tab", "l", "right"),
		key.WithHelp("Tab/l", "next report"),
	),
	PreviousTab: key.NewBinding(
		key.WithKeys("shift+tab", "h", "left"),
		key.WithHelp("S-Tab/h", "previous report"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause/resume"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type theme struct {
	titleStyle     lipgloss.Style
	activeTab      lipgloss.Style
	inactiveTab    lipgloss.Style
	statusBarStyle lipgloss.Style
	errorStyle     lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		titleStyle:     lipgloss.NewStyle().Bold(true).Padding(0, 1),
		activeTab:      lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1),
		inactiveTab:    lipgloss.NewStyle().Faint(true).Padding(0, 1),
		statusBarStyle: lipgloss.NewStyle().Faint(true).Padding(0, 1),
		errorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Padding(0, 1),
	}
}

// tickMsg triggers the periodic refresh of the active report.
type tickMsg time.Time

// reportMsg carries a freshly read report body.
type reportMsg struct {
	name string
	body string
	err  error
}

type model struct {
	deviceDir string
	reports   []string
	interval  time.Duration

	active      int
	viewport    viewport.Model
	ready       bool
	paused      bool
	lastRefresh time.Time
	lastError   error

	keys  keyMap
	theme theme
}

func newModel(deviceDir string, reports []string, interval time.Duration) model {
	return model{
		deviceDir: deviceDir,
		reports:   reports,
		interval:  interval,
		keys:      defaultKeyMap,
		theme:     defaultTheme(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.readActiveCmd(), m.tickCmd())
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) readActiveCmd() tea.Cmd {
	name := m.reports[m.active]
	path := filepath.Join(m.deviceDir, name)
	return func() tea.Msg {
		body, err := readReport(path)
		return reportMsg{name: name, body: body, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		chromeHeight := 3 // title, tab row, status bar
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		return m, nil

	case tickMsg:
		if m.paused {
			return m, m.tickCmd()
		}
		return m, tea.Batch(m.readActiveCmd(), m.tickCmd())

	case reportMsg:
		// Discard stale reads that raced a tab switch.
		if msg.name != m.reports[m.active] {
			return m, nil
		}
		m.lastError = msg.err
		if msg.err == nil {
			offset := m.viewport.YOffset
			m.viewport.SetContent(msg.body)
			m.viewport.SetYOffset(offset)
			m.lastRefresh = time.Now()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.active = (m.active + 1) % len(m.reports)
			m.viewport.GotoTop()
			return m, m.readActiveCmd()
		case key.Matches(msg, m.keys.PreviousTab):
			m.active = (m.active + len(m.reports) - 1) % len(m.reports)
			m.viewport.GotoTop()
			return m, m.readActiveCmd()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.readActiveCmd()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}

	title := m.theme.titleStyle.Render("diagfs " + m.deviceDir)

	var tabs []string
	for i, name := range m.reports {
		if i == m.active {
			tabs = append(tabs, m.theme.activeTab.Render(name))
		} else {
			tabs = append(tabs, m.theme.inactiveTab.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	status := fmt.Sprintf("refreshed %s", m.lastRefresh.Format("15:04:05"))
	if m.lastRefresh.IsZero() {
		status = "waiting for first read"
	}
	if m.paused {
		status += "  [paused]"
	}
	statusBar := m.theme.statusBarStyle.Render(status)
	if m.lastError != nil {
		statusBar = m.theme.errorStyle.Render(m.lastError.Error())
	}

	return strings.Join([]string{title, tabRow, m.viewport.View(), statusBar}, "\n")
}
