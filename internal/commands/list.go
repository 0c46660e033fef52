package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/output"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return nil }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todo list [--filter all|active|completed]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "all", "")
	fs.StringVar(&c.filter, "f", "all", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	if c.filter == "" {
		c.filter = "all"
	}
	switch c.filter {
	case "all", "active", "completed":
	default:
		fmt.Fprintf(errOut, "error: invalid filter: %s\n", c.filter)
		return exitcode.UserError
	}

	syn, code := loadTasks(ctx, sess, errOut)
	if code != exitcode.Success {
		return code
	}

	viewer, _ := sess.User()
	formatter := output.NewFormatter(out)

	completed := 0
	shown := 0
	// Numbering follows the unfiltered collection so that refs stay valid
	// for done/rm/share whatever the filter.
	for i, task := range syn.Tasks() {
		if task.Completed {
			completed++
		}
		if c.filter == "active" && task.Completed {
			continue
		}
		if c.filter == "completed" && !task.Completed {
			continue
		}
		formatter.Task(i+1, task, viewer.ID)
		shown++
	}

	if shown == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	if !cfg.Quiet {
		formatter.Progress(completed, syn.Len())
	}
	return exitcode.Success
}
