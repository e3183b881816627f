package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/breakfast/internal/menu"
	"github.com/desertthunder/breakfast/internal/progress"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ComboView ViewState = iota
	HistoryView
	ImportView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *progress.Session
	menu    *menu.Manager
	width   int
	height  int
	history list.Model
	input   textinput.Model
	bar     bar.Model
	status  string
	seq     int
	failed  bool
	saving  bool
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a TUI model over a loaded session. menu may be nil, which disables importing.
func NewModel(ctx context.Context, session *progress.Session, m *menu.Manager) *Model {
	input := textinput.New()
	input.Placeholder = "path/to/menu.json"
	input.Prompt = "File: "
	input.CharLimit = 512

	history := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	history.SetShowStatusBar(false)
	history.SetFilteringEnabled(false)

	return &Model{
		ctx:     ctx,
		view:    ComboView,
		session: session,
		menu:    m,
		history: history,
		input:   input,
		bar:     bar.New(bar.WithDefaultGradient(), bar.WithWidth(40)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Err returns the error from the final save, if any.
func (m *Model) Err() error { return m.err }

// Init initializes the TUI. The session is already loaded, so there is nothing to fetch.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.SetSize(msg.Width-4, msg.Height-6)
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch m.view {
		case ComboView:
			return m.handleComboKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case ImportView:
			return m.handleImportKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgClearStatus:
			if seq, _ := msg.data.(int); seq == m.seq {
				m.status = ""
			}
			return m, nil
		case MsgSaved:
			m.err, _ = msg.data.(error)
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.saving {
		return styles.help.Render("Saving progress...")
	}

	switch m.view {
	case HistoryView:
		return m.renderHistory()
	case ImportView:
		return m.renderImport()
	default:
		return m.renderCombo()
	}
}

func (m *Model) handleComboKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.next):
		if !m.session.Advance(m.ctx) {
			return m, m.setStatus("All combos viewed. Press r to reset or s to reshuffle.", false)
		}
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.session.Reset(m.ctx)
		return m, m.setStatus("Progress reset", false)
	case key.Matches(msg, m.keys.reshuffle):
		m.session.Reshuffle(m.ctx)
		return m, m.setStatus("Combos reshuffled", false)
	case key.Matches(msg, m.keys.history):
		m.history.SetItems(historyItems(m.session.View().History))
		m.history.Title = fmt.Sprintf("History (%d)", len(m.session.View().History))
		m.view = HistoryView
		return m, nil
	case key.Matches(msg, m.keys.importKey):
		if m.menu == nil {
			return m, m.setStatus("Menu import is not available", true)
		}
		m.input.Reset()
		m.view = ImportView
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.history):
		m.view = ComboView
		return m, nil
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, m.quit()
	case "esc":
		m.input.Blur()
		m.view = ComboView
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			return m, nil
		}
		m.input.Blur()
		m.view = ComboView

		if err := m.menu.ImportFile(m.ctx, path); err != nil {
			return m, m.setStatus(fmt.Sprintf("Import failed: %v", err), true)
		}
		m.session.Reshuffle(m.ctx)
		return m, m.setStatus(fmt.Sprintf("Imported %d combos from %s", len(m.menu.CurrentMenu()), m.menu.Name()), false)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// quit persists one last time and waits for queued writes before exiting.
func (m *Model) quit() tea.Cmd {
	m.saving = true
	return func() tea.Msg {
		return savedMsg(m.session.Close(m.ctx))
	}
}

func (m *Model) setStatus(s string, failed bool) tea.Cmd {
	m.seq++
	m.status = s
	m.failed = failed
	return clearStatusAfter(m.seq)
}

func (m *Model) renderCombo() string {
	v := m.session.View()

	var b strings.Builder
	title := "Breakfast"
	if m.menu != nil {
		title = fmt.Sprintf("Breakfast • %s", m.menu.Name())
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	card := styles.combo.Render(v.CurrentText)
	if v.CurrentPrice != "" {
		card = fmt.Sprintf("%s\n%s", card, styles.help.Render(v.CurrentPrice))
	}
	if v.Completed {
		card = styles.ok.Render(v.CurrentText) + "\n" + styles.help.Render(v.CurrentPrice)
	}
	b.WriteString(styles.card.Render(card))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s  %s (%d%%)\n", m.bar.ViewAs(v.Fraction()), v.Progress, v.Percent))

	if m.status != "" {
		style := styles.warn
		if m.failed {
			style = styles.err
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.FullHelpView(m.keys.FullHelp()))
	return b.String()
}

func (m *Model) renderHistory() string {
	if len(m.history.Items()) == 0 {
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render("History"), styles.help.Render("Nothing viewed yet."), helpView)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.history.View(), helpView)
}

func (m *Model) renderImport() string {
	title := styles.title.Render("Import menu")
	info := styles.help.Render(".json and .yaml files hold a list of combos; any other file is read one combo per line.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, info, m.input.View(), helpView)
}
