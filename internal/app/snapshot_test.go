package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hylla/checkoff/internal/domain"
)

func TestExportSnapshotTagsVersion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, _ = svc.Add(ctx, "a")
	snap := svc.ExportSnapshot()
	if snap.Version != SnapshotVersion {
		t.Fatalf("unexpected version %q", snap.Version)
	}
	if len(snap.Tasks) != 1 || snap.History == nil {
		t.Fatalf("unexpected export %#v", snap)
	}
}

func TestImportSnapshotBrowserFormat(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService(t)
	_, _ = svc.Add(ctx, "replaced")

	raw := `{
		"tasks": [{"text": " Walk dog ", "completed": false}, {"text": "Buy milk", "completed": true}],
		"history": [{"text": "Old", "completed": false}]
	}`
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		t.Fatalf("ImportSnapshot() error = %v", err)
	}

	got := svc.Snapshot()
	if names := texts(got.Tasks); !equalStrings(names, []string{"Walk dog", "Buy milk"}) {
		t.Fatalf("unexpected imported active %v", names)
	}
	for _, task := range got.Tasks {
		if task.Completed || task.CompletedAt != nil || task.ID == "" {
			t.Fatalf("active task not normalized: %#v", task)
		}
	}
	if len(got.History) != 1 || !got.History[0].Completed || got.History[0].CompletedAt == nil {
		t.Fatalf("history task not normalized: %#v", got.History)
	}
	if _, ok := kv.values[KeyHistory]; !ok {
		t.Fatal("expected import to persist history key")
	}
}

func TestImportSnapshotValidation(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		snap Snapshot
		want error
	}{
		{
			name: "blank text",
			snap: Snapshot{Tasks: []domain.Task{{Text: "  "}}},
			want: domain.ErrEmptyText,
		},
		{
			name: "duplicate ids",
			snap: Snapshot{
				Tasks:   []domain.Task{{ID: "x", Text: "a"}},
				History: []domain.Task{{ID: "x", Text: "b"}},
			},
		},
		{
			name: "unknown version",
			snap: Snapshot{Version: "other.v9"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, kv := newTestService(t)
			err := svc.ImportSnapshot(ctx, tc.snap)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if kv.puts != 0 {
				t.Fatalf("invalid import persisted state")
			}
		})
	}
}
