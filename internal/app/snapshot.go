package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hylla/checkoff/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "checkoff.snapshot.v1"

// Snapshot holds both task lists in display order. Its JSON shape matches the two stored keys.
type Snapshot struct {
	Version string        `json:"version,omitempty"`
	Tasks   []domain.Task `json:"tasks"`
	History []domain.Task `json:"history"`
}

// ExportSnapshot returns the current lists tagged with the snapshot version.
func (s *Service) ExportSnapshot() Snapshot {
	snap := s.Snapshot()
	snap.Version = SnapshotVersion
	return snap
}

// ImportSnapshot replaces both lists with the snapshot contents.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	active := normalizeImported(snap.Tasks, false, now)
	completed := normalizeImported(snap.History, true, now)
	seen := map[string]struct{}{}
	s.ensureIDs(active, seen)
	s.ensureIDs(completed, seen)
	return s.commit(ctx, active, completed)
}

// Validate checks the snapshot version, task text and id uniqueness.
func (snap Snapshot) Validate() error {
	if snap.Version != "" && snap.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version: %q", snap.Version)
	}
	ids := map[string]struct{}{}
	check := func(list string, tasks []domain.Task) error {
		for i, task := range tasks {
			if strings.TrimSpace(task.Text) == "" {
				return fmt.Errorf("%s[%d].text: %w", list, i, domain.ErrEmptyText)
			}
			id := strings.TrimSpace(task.ID)
			if id == "" {
				continue
			}
			if _, exists := ids[id]; exists {
				return fmt.Errorf("duplicate task id: %q", id)
			}
			ids[id] = struct{}{}
		}
		return nil
	}
	if err := check(KeyTasks, snap.Tasks); err != nil {
		return err
	}
	return check(KeyHistory, snap.History)
}

// normalizeImported trims text, fills missing timestamps and aligns the completed flag with the list.
func normalizeImported(in []domain.Task, completed bool, now time.Time) []domain.Task {
	out := make([]domain.Task, 0, len(in))
	ts := now.UTC().Truncate(time.Second)
	for _, task := range in {
		task = task.Clone()
		task.ID = strings.TrimSpace(task.ID)
		task.Text = strings.TrimSpace(task.Text)
		if task.CreatedAt.IsZero() {
			task.CreatedAt = ts
		}
		if task.UpdatedAt.IsZero() {
			task.UpdatedAt = task.CreatedAt
		}
		task.Completed = completed
		switch {
		case completed && task.CompletedAt == nil:
			done := task.UpdatedAt
			task.CompletedAt = &done
		case !completed:
			task.CompletedAt = nil
		}
		out = append(out, task)
	}
	return out
}
