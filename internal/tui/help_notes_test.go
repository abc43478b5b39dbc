package tui

import (
	"strings"
	"testing"
)

func TestWorkflowMarkdownUsesConfiguredKeys(t *testing.T) {
	k := newKeyMap()
	k.applyConfig(KeyConfig{Edit: "n", Toggle: "t"})
	notes := workflowMarkdown(k)
	for _, want := range []string{
		"**a** opens the add prompt",
		"**t** completes an active task",
		"**n** edits the focused active task",
	} {
		if !strings.Contains(notes, want) {
			t.Fatalf("expected %q in notes:\n%s", want, notes)
		}
	}
}

func TestHelpNotesRenderCachesPerWidth(t *testing.T) {
	n := newHelpNotes()
	first := n.render(workflowMarkdown(newKeyMap()), 60)
	if !strings.Contains(first, "Workflow") {
		t.Fatalf("expected rendered heading, got %q", first)
	}
	if again := n.render(workflowMarkdown(newKeyMap()), 60); again != first {
		t.Fatal("expected cached render for same source and width")
	}
	n.render(workflowMarkdown(newKeyMap()), 80)
	if n.width != 80 {
		t.Fatalf("expected re-render at new width, got %d", n.width)
	}
}

func TestHelpNotesFallsBackToPlainText(t *testing.T) {
	n := &helpNotes{style: "no-such-style"}
	out := n.render("## Workflow\n\n1. **a** adds", 40)
	if strings.Contains(out, "**") || strings.Contains(out, "##") {
		t.Fatalf("expected markdown markers stripped, got %q", out)
	}
	if !strings.Contains(out, "Workflow") || !strings.Contains(out, "a adds") {
		t.Fatalf("unexpected plain notes %q", out)
	}
}
