package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/todo"
)

func testConfig() *config.Config {
	return &config.Config{
		Title:        "Tasks",
		FocusDelayMS: 1,
	}
}

func newTestModel(t *testing.T, titles ...string) (*tuiModel, *todo.Store) {
	t.Helper()
	store := todo.NewStore(todo.WithClock(testClock()))
	for _, title := range titles {
		if _, err := store.Add(title); err != nil {
			t.Fatalf("Add(%q): %v", title, err)
		}
	}
	return newTUIModel(testConfig(), store, nil), store
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	ctrlC    = tea.KeyMsg{Type: tea.KeyCtrlC}
)

// press feeds msgs to the model and returns the last command.
func press(t *testing.T, m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		if next != m {
			t.Fatalf("Update returned a different model")
		}
	}
	return cmd
}

func typeText(t *testing.T, m *tuiModel, s string) {
	t.Helper()
	for _, r := range s {
		press(t, m, runeKey(string(r)))
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestTUIAddTask(t *testing.T) {
	m, store := newTestModel(t)

	press(t, m, runeKey("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode: got %v, want add", m.mode)
	}
	typeText(t, m, "Buy milk")
	press(t, m, enterKey)

	tasks := store.Snapshot()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("tasks: %+v", tasks)
	}
	if m.newTask.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.newTask.Value())
	}

	press(t, m, runeKey(" "), runeKey(" "), enterKey)
	if store.Len() != 1 {
		t.Error("blank input must be ignored")
	}

	press(t, m, escKey)
	if m.mode != modeList {
		t.Errorf("esc should leave the input, mode %v", m.mode)
	}
}

func TestTUIDuplicateNotice(t *testing.T) {
	m, store := newTestModel(t, "Buy milk")

	press(t, m, runeKey("a"))
	typeText(t, m, "Buy milk")
	press(t, m, enterKey)

	if store.Len() != 1 {
		t.Errorf("Len: got %d, want 1", store.Len())
	}
	if m.notice == nil {
		t.Fatal("expected duplicate notice")
	}
	if !strings.Contains(m.View(), "Task already exists") {
		t.Error("notice should be rendered")
	}

	press(t, m, runeKey("x"))
	if m.notice == nil {
		t.Error("other keys must not dismiss the notice")
	}
	press(t, m, enterKey)
	if m.notice != nil {
		t.Error("enter should dismiss the notice")
	}
	if m.newTask.Value() != "Buy milk" {
		t.Errorf("rejected input should be kept, got %q", m.newTask.Value())
	}
}

func TestTUIToggleAndCursor(t *testing.T) {
	m, store := newTestModel(t, "A", "B")

	press(t, m, downKey, spaceKey)
	tasks := store.Snapshot()
	if tasks[0].Done || !tasks[1].Done {
		t.Errorf("expected only B done: %+v", tasks)
	}

	press(t, m, downKey)
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last row, got %d", m.cursor)
	}
	press(t, m, runeKey("k"), runeKey("k"))
	if m.cursor != 0 {
		t.Errorf("cursor should stop at the first row, got %d", m.cursor)
	}
	press(t, m, enterKey)
	if !store.Snapshot()[0].Done {
		t.Error("enter should toggle A")
	}
}

func TestTUIEditFlow(t *testing.T) {
	m, store := newTestModel(t, "Buy milk")

	cmd := press(t, m, runeKey("e"))
	if m.mode != modeEdit {
		t.Fatalf("mode: got %v, want edit", m.mode)
	}
	if cmd == nil {
		t.Fatal("expected a deferred focus command")
	}
	if m.editTask.Focused() {
		t.Error("edit field should not be focused before the delay")
	}

	msg := cmd()
	if _, ok := msg.(focusMsg); !ok {
		t.Fatalf("expected focusMsg, got %T", msg)
	}
	press(t, m, msg)
	if !m.editTask.Focused() {
		t.Fatal("edit field should be focused")
	}

	typeText(t, m, "!")
	if m.view.Draft() != "Buy milk!" {
		t.Errorf("Draft: got %q", m.view.Draft())
	}
	press(t, m, enterKey)

	got := store.Snapshot()[0]
	if got.Title != "Buy milk!" || got.Edit {
		t.Errorf("after submit: %+v", got)
	}
	if m.mode != modeList {
		t.Errorf("mode: got %v, want list", m.mode)
	}
}

func TestTUIStaleFocusIgnored(t *testing.T) {
	m, store := newTestModel(t, "A")

	cmd := press(t, m, runeKey("e"))
	msg := cmd()
	press(t, m, escKey)
	press(t, m, msg)

	if m.editTask.Focused() {
		t.Error("stale focus request must be ignored")
	}
	if store.Snapshot()[0].Edit {
		t.Error("task should have left edit mode")
	}
}

func TestTUIRemove(t *testing.T) {
	m, store := newTestModel(t, "A", "B")

	press(t, m, downKey, runeKey("d"))
	if m.prompt == nil {
		t.Fatal("expected confirmation prompt")
	}
	if !strings.Contains(m.View(), "Do you really want to remove this task?") {
		t.Error("prompt should be rendered")
	}
	press(t, m, runeKey("n"))
	if m.prompt != nil || store.Len() != 2 {
		t.Fatal("cancel should keep the task")
	}

	press(t, m, runeKey("x"), runeKey("y"))
	tasks := store.Snapshot()
	if len(tasks) != 1 || tasks[0].Title != "A" {
		t.Fatalf("after remove: %+v", tasks)
	}
	if m.cursor != 0 {
		t.Errorf("cursor should be clamped, got %d", m.cursor)
	}
}

func TestTUIQuit(t *testing.T) {
	m, _ := newTestModel(t)
	if !isQuit(press(t, m, runeKey("q"))) {
		t.Error("q should quit")
	}

	m, _ = newTestModel(t)
	press(t, m, runeKey("a"))
	if isQuit(press(t, m, runeKey("q"))) {
		t.Error("q while typing must not quit")
	}
	if m.newTask.Value() != "q" {
		t.Errorf("q should be typed, got %q", m.newTask.Value())
	}
	if !isQuit(press(t, m, ctrlC)) {
		t.Error("ctrl+c should quit while typing a new task")
	}

	m, _ = newTestModel(t, "A")
	press(t, m, runeKey("e"))
	if isQuit(press(t, m, runeKey("q"))) {
		t.Error("q while editing must not quit")
	}
	if !isQuit(press(t, m, ctrlC)) {
		t.Error("ctrl+c should quit while editing")
	}
}

func TestTUIView(t *testing.T) {
	m, _ := newTestModel(t)
	if !strings.Contains(m.View(), "0 tasks") {
		t.Error("expected empty counter")
	}
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("expected empty list hint")
	}

	m, _ = newTestModel(t, "Only")
	view := m.View()
	if !strings.Contains(view, "1 task") || strings.Contains(view, "1 tasks") {
		t.Errorf("expected singular counter, got %q", view)
	}
	if !strings.Contains(view, "Only") {
		t.Error("expected task title")
	}

	press(t, m, runeKey("?"))
	if !m.help.ShowAll {
		t.Error("? should expand help")
	}
}

func TestTaskCount(t *testing.T) {
	tests := map[int]string{
		0:  "0 tasks",
		1:  "1 task",
		2:  "2 tasks",
		10: "10 tasks",
	}
	for n, want := range tests {
		if got := taskCount(n); got != want {
			t.Errorf("taskCount(%d): got %q, want %q", n, got, want)
		}
	}
}

func TestIsTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("buffer is not a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("regular file is not a terminal")
	}
}
