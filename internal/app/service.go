package app

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hylla/checkoff/internal/domain"
)

// Storage keys for the two task lists.
const (
	KeyTasks   = "tasks"
	KeyHistory = "history"
)

// IDGenerator returns unique identifiers for new tasks.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service owns the active and completed task lists and mirrors every change to the KV store.
type Service struct {
	mu        sync.Mutex
	kv        KV
	idGen     IDGenerator
	clock     Clock
	active    []domain.Task
	completed []domain.Task
}

// NewService constructs an empty service. Call Load to read persisted state.
func NewService(kv KV, idGen IDGenerator, clock Clock) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		kv:    kv,
		idGen: idGen,
		clock: clock,
	}
}

// OpenService constructs a service and loads persisted state from kv.
func OpenService(ctx context.Context, kv KV, idGen IDGenerator, clock Clock) (*Service, error) {
	s := NewService(kv, idGen, clock)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces in-memory state with the persisted lists. Absent keys load as empty lists.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.readList(ctx, KeyTasks)
	if err != nil {
		return err
	}
	completed, err := s.readList(ctx, KeyHistory)
	if err != nil {
		return err
	}

	// Browser-format records carry no id; assign one so every later operation can address them.
	seen := map[string]struct{}{}
	backfilled := s.ensureIDs(active, seen) + s.ensureIDs(completed, seen)
	if backfilled > 0 {
		if err := s.persist(ctx, active, completed); err != nil {
			return fmt.Errorf("persist backfilled task ids: %w", err)
		}
	}
	s.active = active
	s.completed = completed
	return nil
}

// readList decodes one stored list.
func (s *Service) readList(ctx context.Context, key string) ([]domain.Task, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	if !ok {
		return []domain.Task{}, nil
	}
	tasks, err := decodeTasks(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: key %q: %v", ErrCorruptState, key, err)
	}
	return tasks, nil
}

// ensureIDs assigns fresh ids to tasks missing one or reusing an id seen earlier.
func (s *Service) ensureIDs(tasks []domain.Task, seen map[string]struct{}) int {
	assigned := 0
	for idx := range tasks {
		id := strings.TrimSpace(tasks[idx].ID)
		if _, dup := seen[id]; id == "" || dup {
			id = s.idGen()
			assigned++
		}
		tasks[idx].ID = id
		seen[id] = struct{}{}
	}
	return assigned
}

// Snapshot returns a deep copy of both lists in display order.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Tasks:   cloneTasks(s.active),
		History: cloneTasks(s.completed),
	}
}

// ActiveAt returns the active task at the zero-based position.
func (s *Service) ActiveAt(idx int) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.active) {
		return domain.Task{}, ErrNotFound
	}
	return s.active[idx].Clone(), nil
}

// CompletedAt returns the history task at the zero-based position.
func (s *Service) CompletedAt(idx int) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.completed) {
		return domain.Task{}, ErrNotFound
	}
	return s.completed[idx].Clone(), nil
}

// Add prepends a new active task.
func (s *Service) Add(ctx context.Context, text string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate before drawing an id so rejected input leaves no trace.
	if _, err := domain.NormalizeText(text); err != nil {
		return domain.Task{}, err
	}
	task, err := domain.NewTask(s.idGen(), text, s.clock())
	if err != nil {
		return domain.Task{}, err
	}
	if s.hasTask(task.ID) {
		return domain.Task{}, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidID, task.ID)
	}
	active := make([]domain.Task, 0, len(s.active)+1)
	active = append(active, task)
	active = append(active, s.active...)
	if err := s.commit(ctx, active, s.completed); err != nil {
		return domain.Task{}, err
	}
	return task.Clone(), nil
}

// EditActive replaces the text of one active task in place.
func (s *Service) EditActive(ctx context.Context, taskID, text string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, taskID)
	if idx < 0 {
		return domain.Task{}, ErrNotFound
	}
	active := slices.Clone(s.active)
	if err := active[idx].Rename(text, s.clock()); err != nil {
		return domain.Task{}, err
	}
	if err := s.commit(ctx, active, s.completed); err != nil {
		return domain.Task{}, err
	}
	return active[idx].Clone(), nil
}

// DeleteActive removes one task from the active list.
func (s *Service) DeleteActive(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, taskID)
	if idx < 0 {
		return ErrNotFound
	}
	active := slices.Delete(slices.Clone(s.active), idx, idx+1)
	return s.commit(ctx, active, s.completed)
}

// DeleteCompleted removes one task from the history list.
func (s *Service) DeleteCompleted(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.completed, taskID)
	if idx < 0 {
		return ErrNotFound
	}
	completed := slices.Delete(slices.Clone(s.completed), idx, idx+1)
	return s.commit(ctx, s.active, completed)
}

// Complete moves an active task to the end of the history list.
func (s *Service) Complete(ctx context.Context, taskID string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.active, taskID)
	if idx < 0 {
		return domain.Task{}, ErrNotFound
	}
	task := s.active[idx].Clone()
	task.MarkComplete(s.clock())
	active := slices.Delete(slices.Clone(s.active), idx, idx+1)
	completed := append(slices.Clone(s.completed), task)
	if err := s.commit(ctx, active, completed); err != nil {
		return domain.Task{}, err
	}
	return task.Clone(), nil
}

// Reopen moves a history task to the end of the active list.
func (s *Service) Reopen(ctx context.Context, taskID string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.completed, taskID)
	if idx < 0 {
		return domain.Task{}, ErrNotFound
	}
	task := s.completed[idx].Clone()
	task.Reopen(s.clock())
	completed := slices.Delete(slices.Clone(s.completed), idx, idx+1)
	active := append(slices.Clone(s.active), task)
	if err := s.commit(ctx, active, completed); err != nil {
		return domain.Task{}, err
	}
	return task.Clone(), nil
}

// commit persists the next state and swaps it in only after the write succeeds.
func (s *Service) commit(ctx context.Context, active, completed []domain.Task) error {
	if err := s.persist(ctx, active, completed); err != nil {
		return err
	}
	s.active = active
	s.completed = completed
	return nil
}

// persist writes both lists in one KV transaction.
func (s *Service) persist(ctx context.Context, active, completed []domain.Task) error {
	tasksJSON, err := encodeTasks(active)
	if err != nil {
		return fmt.Errorf("encode %q: %w", KeyTasks, err)
	}
	historyJSON, err := encodeTasks(completed)
	if err != nil {
		return fmt.Errorf("encode %q: %w", KeyHistory, err)
	}
	if err := s.kv.Put(ctx,
		KVEntry{Key: KeyTasks, Value: tasksJSON},
		KVEntry{Key: KeyHistory, Value: historyJSON},
	); err != nil {
		return fmt.Errorf("persist task lists: %w", err)
	}
	return nil
}

// hasTask reports whether either list holds taskID.
func (s *Service) hasTask(taskID string) bool {
	return indexOf(s.active, taskID) >= 0 || indexOf(s.completed, taskID) >= 0
}

func indexOf(tasks []domain.Task, taskID string) int {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return -1
	}
	return slices.IndexFunc(tasks, func(t domain.Task) bool {
		return t.ID == taskID
	})
}

func cloneTasks(in []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(in))
	for _, task := range in {
		out = append(out, task.Clone())
	}
	return out
}

// encodeTasks serializes one list. Nil lists encode as [] rather than null.
func encodeTasks(tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	encoded, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeTasks(raw string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}
