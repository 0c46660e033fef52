package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
	"github.com/ChequeMan/FRONTTODOList/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add [common flags] <text...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	// The synchronizer forwards text as-is; the non-empty check lives here.
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	syn := tasklist.New(sess.Service())
	if _, err := syn.Create(ctx, text); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
