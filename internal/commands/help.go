package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                             List all tasks
  todo list [common flags] [--filter all|active|completed]
  todo add [common flags] <text...>
  todo done [common flags] <n>
  todo reopen [common flags] <n>
  todo edit [common flags] <n> <text...>
  todo rm [common flags] <n>
  todo share [common flags] <n> <email>
  todo unshare [common flags] <n> <email>
  todo search [common flags] <query...>
  todo login [common flags] <email>
  todo register [common flags] <email> <name...>
  todo logout [common flags]
  todo whoami [common flags]
  todo help
  todo version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
