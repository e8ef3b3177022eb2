package tui

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/dataset"
	"github.com/charmbracelet/vlist/internal/tui/exp/list"
	"github.com/charmbracelet/vlist/internal/tui/styles"
	"github.com/charmbracelet/vlist/internal/tui/util"
)

// ConfigChangedMsg carries a reloaded configuration into the program.
type ConfigChangedMsg struct {
	Config *config.Config
}

type appModel struct {
	cfg    *config.Config
	keyMap KeyMap
	help   help.Model

	width, height int

	rows     []dataset.Row
	matches  []dataset.Row
	filtered bool

	list list.List[dataset.Row]
}

// New creates the top-level model for cfg.
func New(cfg *config.Config) util.Model {
	t := styles.CurrentTheme()
	keyMap := DefaultKeyMap()
	h := help.New()
	h.Styles.ShortKey = t.S().Muted
	h.Styles.ShortDesc = t.S().Subtle
	h.Styles.FullKey = t.S().Muted
	h.Styles.FullDesc = t.S().Subtle

	m := &appModel{
		cfg:    cfg,
		keyMap: keyMap,
		help:   h,
	}
	m.loadRows()
	m.filtered = cfg.List.Filter != ""

	opts := []list.ListOption{
		list.WithKeyMap(keyMap.List),
		list.WithOverscan(cfg.Overscan()),
		list.WithScrollbar(!cfg.Options.TUI.DisableScrollbar),
		list.WithPlaceholder("Nothing to show"),
	}
	if !cfg.Options.TUI.DisableMouse {
		opts = append(opts, list.WithEnableMouse())
	}
	if cfg.List.PrefixSums {
		opts = append(opts, list.WithPrefixSums())
	}
	m.list = list.New(m.visibleRows(), dataset.Height(cfg.List), renderRow, opts...)
	return m
}

func renderRow(_ int, r dataset.Row, _, height int) string {
	return dataset.Render(r, height)
}

func (m *appModel) loadRows() {
	m.rows = dataset.Generate(m.cfg.List.Items)
	m.matches = dataset.Filter(m.rows, m.cfg.List.Filter)
	m.keyMap.Filter.SetEnabled(m.cfg.List.Filter != "")
}

func (m *appModel) visibleRows() []dataset.Row {
	if m.filtered {
		return m.matches
	}
	return m.rows
}

// Init implements tea.Model.
func (m *appModel) Init() tea.Cmd {
	return m.list.Init()
}

// Update implements tea.Model.
func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.list.SetSize(m.width, m.listHeight())
	case ConfigChangedMsg:
		return m, m.applyConfig(msg.Config)
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.list.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, m.list.SetSize(m.width, m.listHeight())
		case key.Matches(msg, m.keyMap.Filter):
			m.filtered = !m.filtered
			return m, m.list.SetItems(m.visibleRows())
		}
	}
	u, cmd := m.list.Update(msg)
	m.list = u.(list.List[dataset.Row])
	return m, cmd
}

// applyConfig swaps the parts of the configuration that can change while the
// list is on screen.
func (m *appModel) applyConfig(cfg *config.Config) tea.Cmd {
	old := m.cfg
	m.cfg = cfg
	var cmds []tea.Cmd

	if cfg.List.Items != old.List.Items || cfg.List.Filter != old.List.Filter {
		m.loadRows()
		if cfg.List.Filter == "" {
			m.filtered = false
		}
		cmds = append(cmds, m.list.SetItems(m.visibleRows()))
	}
	if cfg.Overscan() != old.Overscan() {
		cmds = append(cmds, m.list.SetOverscan(cfg.Overscan()))
	}
	if cfg.List.ItemHeight != old.List.ItemHeight || !slices.Equal(cfg.List.Heights, old.List.Heights) {
		cmds = append(cmds, m.list.SetHeight(dataset.Height(cfg.List)))
	}

	slog.Info("Configuration applied",
		"items", cfg.List.Items,
		"overscan", cfg.Overscan(),
		"heights", cfg.List.Heights,
	)
	return tea.Batch(cmds...)
}

// View implements tea.ViewModel.
func (m *appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.statusView(),
		m.helpView(),
	)
}

func (m *appModel) statusView() string {
	t := styles.CurrentTheme()
	status := fmt.Sprintf("%d rows", len(m.list.Items()))
	if m.filtered {
		status += fmt.Sprintf(" matching %q", m.cfg.List.Filter)
	}
	if w, ok := m.list.Window(); ok {
		status += fmt.Sprintf("  window %d-%d  margin %.0f  extent %.0f",
			w.Start, w.End, w.LeadingMargin(), w.TotalExtent)
	}
	status += fmt.Sprintf("  offset %d  overscan %d  recomputes %d",
		m.list.Offset(), m.cfg.Overscan(), m.list.Recomputes())
	return t.S().Status.Width(m.width).MaxHeight(1).Render(status)
}

func (m *appModel) helpView() string {
	return styles.CurrentTheme().S().Base.MaxWidth(m.width).Render(m.help.View(m.keyMap))
}

func (m *appModel) listHeight() int {
	return max(0, m.height-lipgloss.Height(m.statusView())-lipgloss.Height(m.helpView()))
}
