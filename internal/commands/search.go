package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/output"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
	"github.com/ChequeMan/FRONTTODOList/internal/tasklist"
)

func init() {
	Register(&SearchCmd{})
}

// SearchCmd implements the search command, the collaborator lookup behind
// the share flow.
type SearchCmd struct{}

func (c *SearchCmd) Name() string      { return "search" }
func (c *SearchCmd) Aliases() []string { return nil }
func (c *SearchCmd) Synopsis() string  { return "Search users by name or email" }
func (c *SearchCmd) Usage() string     { return "todo search [common flags] <query...>" }
func (c *SearchCmd) NeedsAuth() bool   { return true }

func (c *SearchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SearchCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: query required")
		return exitcode.UserError
	}
	query := strings.TrimSpace(strings.Join(args, " "))

	// Below the threshold the backend is never asked and nothing is
	// printed, mirroring a search box that only reacts from two
	// characters on.
	if len([]rune(query)) < tasklist.MinSearchQuery {
		return exitcode.Success
	}

	syn := tasklist.New(sess.Service())
	users, err := syn.SearchUsers(ctx, query)
	if err != nil {
		return reportError(errOut, err)
	}

	if len(users) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no users found")
		}
		return exitcode.Success
	}

	formatter := output.NewFormatter(out)
	for _, u := range users {
		formatter.User(u)
	}
	return exitcode.Success
}
