package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
)

// helpNotes renders the workflow notes under the key list in the help overlay.
// The last rendering is kept until the notes or the width change.
type helpNotes struct {
	style  string
	width  int
	source string
	out    string
}

func newHelpNotes() *helpNotes {
	return &helpNotes{style: "dark"}
}

// workflowMarkdown describes the board workflow using the active key labels.
func workflowMarkdown(k keyMap) string {
	label := func(b key.Binding) string {
		if !b.Enabled() {
			return "(unbound)"
		}
		return b.Help().Key
	}
	var b strings.Builder
	b.WriteString("## Workflow\n\n")
	fmt.Fprintf(&b, "1. **%s** opens the add prompt; **enter** saves, **esc** cancels.\n", label(k.addTask))
	fmt.Fprintf(&b, "2. **%s** completes an active task or reopens a history task.\n", label(k.toggleTask))
	fmt.Fprintf(&b, "3. **%s** edits the focused active task in place.\n", label(k.editTask))
	fmt.Fprintf(&b, "4. **%s** deletes the focused task, asking first when configured.\n", label(k.deleteTask))
	fmt.Fprintf(&b, "5. **%s** switches between the task and history lists.\n", label(k.switchList))
	fmt.Fprintf(&b, "6. **%s** copies the focused task text to the clipboard.\n", label(k.copyTask))
	b.WriteString("\nCompleted tasks stay in history until deleted. Reopened tasks return to the end of the task list.\n")
	return b.String()
}

func (n *helpNotes) render(source string, width int) string {
	source = strings.TrimSpace(source)
	if n == nil || source == "" {
		return source
	}
	width = max(24, width)
	if n.out != "" && n.width == width && n.source == source {
		return n.out
	}

	out, err := n.glamour(source, width)
	if err != nil {
		out = plainNotes(source, width)
	}
	n.width, n.source, n.out = width, source, out
	return out
}

func (n *helpNotes) glamour(source string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(n.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(source)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// plainNotes drops markdown emphasis and headings and wraps the text to width.
func plainNotes(source string, width int) string {
	replacer := strings.NewReplacer("**", "", "`", "")
	lines := strings.Split(replacer.Replace(source), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, "# ")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}
