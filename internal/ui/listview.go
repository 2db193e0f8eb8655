// Package ui provides the task list screen: a view state machine over
// todo.Store and the Bubble Tea program that renders it.
package ui

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
)

// Dialog text.
const (
	duplicateTitle   = "Task already exists"
	duplicateMessage = "You cannot add a task with the same name"
	duplicateAck     = "OK"

	removeTitle   = "Remove task"
	removeMessage = "Do you really want to remove this task?"
	removeConfirm = "Confirm"
	removeCancel  = "Cancel"
)

// Prompt is a yes/no question. OnConfirm runs only when the user confirms.
type Prompt struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    func()
}

// Notice is an informational message with a single acknowledge action.
type Notice struct {
	Title    string
	Message  string
	AckLabel string
}

// Dialog shows modal prompts on behalf of the list view.
type Dialog interface {
	Confirm(p Prompt)
	Notify(n Notice)
}

// Row is one rendered task.
type Row struct {
	Task     todo.Task
	Selected bool
}

// FocusToken identifies a deferred focus request for an edit field.
// A token is stale once any later edit starts, submits or cancels.
type FocusToken struct {
	ID  int64
	Gen uint64
}

// IsZero reports whether the token carries no request.
func (t FocusToken) IsZero() bool {
	return t.Gen == 0
}

// ListViewOption configures a ListView.
type ListViewOption func(*ListView)

// WithLogger sets the logger used for state changes.
func WithLogger(logger *log.Logger) ListViewOption {
	return func(v *ListView) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// ListView holds the transient state of the task list and turns user
// gestures into store calls. At most one task is in edit mode at a time.
type ListView struct {
	store  *todo.Store
	dialog Dialog
	logger *log.Logger

	selectedID *int64
	draft      string
	focusGen   uint64
	closed     bool
}

// NewListView returns a view over store that asks dialog for confirmations.
func NewListView(store *todo.Store, dialog Dialog, opts ...ListViewOption) *ListView {
	v := &ListView{
		store:  store,
		dialog: dialog,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Rows returns one row per task in store order.
func (v *ListView) Rows() []Row {
	tasks := v.store.Snapshot()
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{
			Task:     t,
			Selected: v.selectedID != nil && *v.selectedID == t.ID,
		}
	}
	return rows
}

// Len returns the number of tasks.
func (v *ListView) Len() int {
	return v.store.Len()
}

// Draft returns the pending title of the task being edited.
func (v *ListView) Draft() string {
	return v.draft
}

// SelectedID returns the id of the task being edited.
func (v *ListView) SelectedID() (int64, bool) {
	if v.selectedID == nil {
		return 0, false
	}
	return *v.selectedID, true
}

// ToggleDone flips the done flag of a task.
func (v *ListView) ToggleDone(id int64) bool {
	if !v.store.ToggleDone(id) {
		return false
	}
	if t, ok := v.store.Get(id); ok {
		v.logger.Debug("task toggled", "task_id", id, "done", t.Done)
	}
	return true
}

// AddTask adds a new task. A duplicate title is reported through the
// dialog and leaves the list unchanged.
func (v *ListView) AddTask(title string) bool {
	task, err := v.store.Add(title)
	if err != nil {
		if errors.Is(err, todo.ErrDuplicateTitle) {
			v.logger.Info("duplicate task rejected", "title", title)
			v.notify(Notice{
				Title:    duplicateTitle,
				Message:  duplicateMessage,
				AckLabel: duplicateAck,
			})
			return false
		}
		v.logger.Error("add task", "err", err)
		return false
	}
	v.logger.Debug("task added", "task_id", task.ID, "title", task.Title)
	return true
}

// StartEdit puts a task into edit mode and seeds the draft with its title.
// Any other task being edited is cancelled first. The returned token is
// zero when nothing changed.
func (v *ListView) StartEdit(id int64) FocusToken {
	task, ok := v.store.Get(id)
	if !ok {
		return FocusToken{}
	}
	if v.selectedID != nil {
		if *v.selectedID == id {
			return FocusToken{}
		}
		v.CancelEdit(*v.selectedID)
	}
	for _, other := range v.store.Snapshot() {
		if other.ID != id && other.Edit {
			v.store.SetEditing(other.ID)
		}
	}
	if !task.Edit {
		v.store.SetEditing(id)
	}

	v.selectedID = &id
	v.draft = task.Title
	v.focusGen++
	v.logger.Debug("edit started", "task_id", id)
	return FocusToken{ID: id, Gen: v.focusGen}
}

// SetDraft replaces the pending title.
func (v *ListView) SetDraft(s string) {
	v.draft = s
}

// SubmitEdit writes the draft to the task being edited.
func (v *ListView) SubmitEdit() bool {
	if v.selectedID == nil {
		return false
	}
	id := *v.selectedID
	title := v.draft
	v.clearEdit()
	if !v.store.CommitEdit(id, title) {
		return false
	}
	v.logger.Debug("edit committed", "task_id", id, "title", title)
	return true
}

// CancelEdit leaves edit mode without changing the title. Cancelling a task
// other than the selected one keeps the current selection and draft.
func (v *ListView) CancelEdit(id int64) bool {
	if v.selectedID == nil || *v.selectedID == id {
		v.clearEdit()
	}
	task, ok := v.store.Get(id)
	if !ok || !task.Edit {
		return false
	}
	v.store.SetEditing(id)
	v.logger.Debug("edit cancelled", "task_id", id)
	return true
}

// RequestRemove asks for confirmation and removes the task if granted.
func (v *ListView) RequestRemove(id int64) {
	if _, ok := v.store.Get(id); !ok {
		return
	}
	v.confirm(Prompt{
		Title:        removeTitle,
		Message:      removeMessage,
		ConfirmLabel: removeConfirm,
		CancelLabel:  removeCancel,
		OnConfirm: func() {
			v.remove(id)
		},
	})
}

// FocusReady reports whether a deferred focus request should still be
// honoured.
func (v *ListView) FocusReady(tok FocusToken) bool {
	if v.closed || tok.IsZero() || tok.Gen != v.focusGen {
		return false
	}
	if v.selectedID == nil || *v.selectedID != tok.ID {
		return false
	}
	task, ok := v.store.Get(tok.ID)
	return ok && task.Edit
}

// Close marks the view as torn down. Pending focus requests become no-ops.
func (v *ListView) Close() {
	v.closed = true
}

func (v *ListView) remove(id int64) {
	if !v.store.Remove(id) {
		return
	}
	if v.selectedID != nil && *v.selectedID == id {
		v.clearEdit()
	}
	v.logger.Debug("task removed", "task_id", id)
}

func (v *ListView) clearEdit() {
	v.selectedID = nil
	v.draft = ""
	v.focusGen++
}

func (v *ListView) confirm(p Prompt) {
	if v.dialog == nil {
		return
	}
	v.dialog.Confirm(p)
}

func (v *ListView) notify(n Notice) {
	if v.dialog == nil {
		return
	}
	v.dialog.Notify(n)
}
