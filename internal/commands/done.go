package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
)

func init() {
	Register(&DoneCmd{})
	Register(&ReopenCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "todo done [common flags] <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, sess, args, true, out, errOut)
}

// ReopenCmd implements the reopen command, the inverse of done.
type ReopenCmd struct{}

func (c *ReopenCmd) Name() string      { return "reopen" }
func (c *ReopenCmd) Aliases() []string { return []string{"undone"} }
func (c *ReopenCmd) Synopsis() string  { return "Mark a completed task active again" }
func (c *ReopenCmd) Usage() string     { return "todo reopen [common flags] <n>" }
func (c *ReopenCmd) NeedsAuth() bool   { return true }

func (c *ReopenCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReopenCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	return runSetCompleted(ctx, cfg, sess, args, false, out, errOut)
}

// runSetCompleted is the shared implementation for done and reopen.
func runSetCompleted(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, completed bool, out, errOut io.Writer) int {
	if _, err := ParseTaskRef(args); err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	syn, code := loadTasks(ctx, sess, errOut)
	if code != exitcode.Success {
		return code
	}

	task, code := resolveRef(syn, args, errOut)
	if code != exitcode.Success {
		return code
	}

	patch := service.TaskPatch{Completed: &completed}
	if _, err := syn.Update(ctx, task.ID, patch); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
