package domain

import (
	"strings"
	"time"
)

// Task is one user-entered item. Completed mirrors which list currently holds the task.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask validates input and returns an active task.
func NewTask(id, text string, now time.Time) (Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Task{}, ErrInvalidID
	}
	text, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}
	ts := normalizeTime(now)
	return Task{
		ID:        id,
		Text:      text,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

// NormalizeText trims text and rejects blank values.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// Rename replaces the task text in place.
func (t *Task) Rename(text string, now time.Time) error {
	text, err := NormalizeText(text)
	if err != nil {
		return err
	}
	t.Text = text
	t.UpdatedAt = normalizeTime(now)
	return nil
}

// MarkComplete flags the task as moved into history.
func (t *Task) MarkComplete(now time.Time) {
	ts := normalizeTime(now)
	t.Completed = true
	t.CompletedAt = &ts
	t.UpdatedAt = ts
}

// Reopen flags the task as moved back to the active list.
func (t *Task) Reopen(now time.Time) {
	t.Completed = false
	t.CompletedAt = nil
	t.UpdatedAt = normalizeTime(now)
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		t.CompletedAt = &ts
	}
	return t
}

func normalizeTime(now time.Time) time.Time {
	return now.UTC().Truncate(time.Second)
}
