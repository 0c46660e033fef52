// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ChequeMan/FRONTTODOList/internal/service"
)

// Formatter renders tasks and users to a writer. Styling degrades to plain
// text when the writer is not a terminal.
type Formatter struct {
	w    io.Writer
	done lipgloss.Style
	note lipgloss.Style
}

// NewFormatter creates a Formatter for w.
func NewFormatter(w io.Writer) *Formatter {
	r := lipgloss.NewRenderer(w)
	return &Formatter{
		w:    w,
		done: r.NewStyle().Faint(true).Strikethrough(true),
		note: r.NewStyle().Faint(true),
	}
}

// Task formats one task line for the list view.
// Format: "{N:>4}  [x] {TEXT}" plus an ownership note when the task came
// from someone else or has collaborators.
func (f *Formatter) Task(num int, task service.Task, viewerID string) {
	marker := "[ ]"
	text := normalizeText(task.Text)
	if task.Completed {
		marker = "[x]"
		text = f.done.Render(text)
	}

	line := fmt.Sprintf("%4d  %s %s", num, marker, text)
	if note := ownershipNote(task, viewerID); note != "" {
		line += " " + f.note.Render(note)
	}
	fmt.Fprintln(f.w, line)
}

// Progress formats the completed-count summary line.
func (f *Formatter) Progress(completed, total int) {
	fmt.Fprintf(f.w, "%d of %d completed\n", completed, total)
}

// User formats one user line for search results.
func (f *Formatter) User(u service.User) {
	fmt.Fprintf(f.w, "%s <%s>\n", u.Name, u.Email)
}

// ownershipNote annotates tasks shared into or out of the viewer's list.
func ownershipNote(task service.Task, viewerID string) string {
	if task.Owner.ID != viewerID {
		return fmt.Sprintf("(from %s)", task.Owner.Name)
	}
	switch n := len(task.Collaborators); n {
	case 0:
		return ""
	case 1:
		return "(1 collaborator)"
	default:
		return fmt.Sprintf("(%d collaborators)", n)
	}
}

// normalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
