package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/todo"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	doneMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB863"))
	doneTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Strikethrough(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)
)

// RunTUI shows the task list for store until the user quits or ctx is done.
func RunTUI(ctx context.Context, cfg *config.Config, store *todo.Store, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(cfg, store, logger)
	return runProgram(ctx, cfg, model)
}

func runProgram(ctx context.Context, cfg *config.Config, model *tuiModel) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, opts...)
	_, err := program.Run()
	model.view.Close()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

type inputMode int

const (
	modeList inputMode = iota
	modeAdd
	modeEdit
)

type tuiModel struct {
	cfg  *config.Config
	view *ListView
	keys keyMap
	help help.Model

	newTask  textinput.Model
	editTask textinput.Model

	mode     inputMode
	cursor   int
	prompt   *Prompt
	notice   *Notice
	showHelp bool
	width    int
}

// focusMsg delivers a deferred focus request for the edit field.
type focusMsg struct {
	tok FocusToken
}

func newTUIModel(cfg *config.Config, store *todo.Store, logger *log.Logger) *tuiModel {
	newTask := textinput.New()
	newTask.Prompt = "+ "
	newTask.Placeholder = "What needs to be done?"

	editTask := textinput.New()
	editTask.Prompt = ""

	m := &tuiModel{
		cfg:      cfg,
		keys:     defaultKeyMap(),
		help:     help.New(),
		newTask:  newTask,
		editTask: editTask,
	}
	m.view = NewListView(store, m, WithLogger(logger))
	return m
}

// Confirm implements Dialog.
func (m *tuiModel) Confirm(p Prompt) {
	m.notice = nil
	m.prompt = &p
}

// Notify implements Dialog.
func (m *tuiModel) Notify(n Notice) {
	m.prompt = nil
	m.notice = &n
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case focusMsg:
		if m.mode == modeEdit && m.view.FocusReady(msg.tok) {
			return m, m.editTask.Focus()
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Force) {
			return m, tea.Quit
		}
		switch {
		case m.notice != nil:
			return m.updateNotice(msg)
		case m.prompt != nil:
			return m.updatePrompt(msg)
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateNotice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit, m.keys.Cancel) {
		m.notice = nil
	}
	return m, nil
}

func (m *tuiModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		p := m.prompt
		m.prompt = nil
		if p.OnConfirm != nil {
			p.OnConfirm()
		}
		m.clampCursor()
	case key.Matches(msg, m.keys.No):
		m.prompt = nil
	}
	return m, nil
}

func (m *tuiModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		title := m.newTask.Value()
		if strings.TrimSpace(title) == "" {
			return m, nil
		}
		if m.view.AddTask(title) {
			m.newTask.Reset()
			m.cursor = m.view.Len() - 1
		}
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.newTask.Blur()
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.newTask, cmd = m.newTask.Update(msg)
	return m, cmd
}

func (m *tuiModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.view.SetDraft(m.editTask.Value())
		m.view.SubmitEdit()
		m.leaveEdit()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		if id, ok := m.view.SelectedID(); ok {
			m.view.CancelEdit(id)
		}
		m.leaveEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.editTask, cmd = m.editTask.Update(msg)
	m.view.SetDraft(m.editTask.Value())
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.view.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		return m, m.newTask.Focus()
	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.currentID(); ok {
			m.view.ToggleDone(id)
		}
	case key.Matches(msg, m.keys.Edit):
		id, ok := m.currentID()
		if !ok {
			return m, nil
		}
		tok := m.view.StartEdit(id)
		if tok.IsZero() {
			return m, nil
		}
		m.mode = modeEdit
		m.editTask.SetValue(m.view.Draft())
		m.editTask.CursorEnd()
		return m, focusCmd(m.cfg.FocusDelay(), tok)
	case key.Matches(msg, m.keys.Remove):
		if id, ok := m.currentID(); ok {
			m.view.RequestRemove(id)
		}
	}
	return m, nil
}

func (m *tuiModel) leaveEdit() {
	m.editTask.Blur()
	m.editTask.Reset()
	m.mode = modeList
}

func (m *tuiModel) currentID() (int64, bool) {
	rows := m.view.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return 0, false
	}
	return rows[m.cursor].Task.ID, true
}

func (m *tuiModel) clampCursor() {
	n := m.view.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeHeader(&b, m.cfg.Title, m.view.Len())

	switch {
	case m.notice != nil:
		b.WriteString(renderNotice(m.notice))
		b.WriteString("\n")
		return b.String()
	case m.prompt != nil:
		b.WriteString(renderPrompt(m.prompt))
		b.WriteString("\n")
		return b.String()
	}

	if m.mode == modeAdd {
		b.WriteString(m.newTask.View())
		b.WriteString("\n\n")
	}
	m.writeRows(&b)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) writeRows(b *strings.Builder) {
	rows := m.view.Rows()
	if len(rows) == 0 {
		b.WriteString(emptyStyle.Render("  No tasks yet. Press a to add one."))
		b.WriteString("\n")
		return
	}
	for i, row := range rows {
		pointer := "  "
		if i == m.cursor && m.mode != modeAdd {
			pointer = cursorStyle.Render("> ")
		}
		b.WriteString(pointer)
		b.WriteString(formatMarker(row.Task.Done))
		b.WriteString(" ")
		if row.Selected && row.Task.Edit {
			b.WriteString(m.editTask.View())
		} else {
			b.WriteString(formatTitle(row.Task))
		}
		b.WriteString("\n")
	}
}

func writeHeader(b *strings.Builder, title string, n int) {
	b.WriteString(titleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(countStyle.Render(taskCount(n)))
	b.WriteString("\n\n")
}

func taskCount(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

func formatMarker(done bool) string {
	if done {
		return "[" + doneMarkStyle.Render("✓") + "]"
	}
	return "[ ]"
}

func formatTitle(t todo.Task) string {
	if t.Done {
		return doneTextStyle.Render(t.Title)
	}
	return t.Title
}

func renderPrompt(p *Prompt) string {
	body := fmt.Sprintf("%s\n\n%s\n\n[y] %s   [n] %s",
		titleStyle.Render(p.Title), p.Message, p.ConfirmLabel, p.CancelLabel)
	return modalStyle.Render(body)
}

func renderNotice(n *Notice) string {
	body := fmt.Sprintf("%s\n\n%s\n\n[enter] %s",
		titleStyle.Render(n.Title), n.Message, n.AckLabel)
	return modalStyle.Render(body)
}

func focusCmd(d time.Duration, tok FocusToken) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return focusMsg{tok: tok}
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
