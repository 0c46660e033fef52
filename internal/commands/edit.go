package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Replace a task's text" }
func (c *EditCmd) Usage() string     { return "todo edit [common flags] <n> <text...>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	if _, err := ParseTaskRef(args); err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		fmt.Fprintln(errOut, "error: text required")
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

	patch := service.TaskPatch{Text: &text}
	if _, err := syn.Update(ctx, task.ID, patch); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
