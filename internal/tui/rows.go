package tui

import (
	"fmt"
	"time"

	"github.com/hylla/checkoff/internal/app"
	"github.com/hylla/checkoff/internal/domain"
)

// listID identifies one of the two rendered lists.
type listID int

const (
	listActive listID = iota
	listHistory
)

// String returns the list heading.
func (l listID) String() string {
	if l == listHistory {
		return "History"
	}
	return "Tasks"
}

// op identifies the store operation a row binding triggers.
type op int

// opNone and related constants name the operations a row can dispatch.
const (
	opNone op = iota
	opComplete
	opReopen
	opEdit
	opDeleteActive
	opDeleteCompleted
)

// rowBindings maps the three row actions to store operations. opNone means the action is unavailable.
type rowBindings struct {
	Toggle op
	Edit   op
	Delete op
}

// row is one rendered list entry bound to its task id.
type row struct {
	Task     domain.Task
	List     listID
	Index    int
	Bindings rowBindings
}

// buildRows derives both lists from a snapshot. It is pure and safe to call on every render.
func buildRows(snap app.Snapshot) ([]row, []row) {
	active := make([]row, 0, len(snap.Tasks))
	for idx, task := range snap.Tasks {
		active = append(active, row{
			Task:  task,
			List:  listActive,
			Index: idx,
			Bindings: rowBindings{
				Toggle: opComplete,
				Edit:   opEdit,
				Delete: opDeleteActive,
			},
		})
	}
	history := make([]row, 0, len(snap.History))
	for idx, task := range snap.History {
		history = append(history, row{
			Task:  task,
			List:  listHistory,
			Index: idx,
			Bindings: rowBindings{
				Toggle: opReopen,
				Delete: opDeleteCompleted,
			},
		})
	}
	return active, history
}

// label renders the checkbox line for a row.
func (r row) label() string {
	box := "[ ]"
	if r.Task.Completed {
		box = "[x]"
	}
	return box + " " + r.Task.Text
}

// stamp renders the relative completion or creation time for a row.
func (r row) stamp(now time.Time) string {
	at := r.Task.CreatedAt
	verb := "added"
	if r.Task.CompletedAt != nil {
		at = *r.Task.CompletedAt
		verb = "done"
	}
	if at.IsZero() {
		return ""
	}
	return verb + " " + relativeTime(now, at)
}

// relativeTime renders a coarse age such as "3m ago".
func relativeTime(now, at time.Time) string {
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
