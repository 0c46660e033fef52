package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the authenticated identity" }
func (c *WhoamiCmd) Usage() string     { return "todo whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Manager, args []string, out, errOut io.Writer) int {
	user, ok := sess.User()
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
		return exitcode.AuthError
	}

	fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)

	if expiry, ok := tokenExpiry(sess.Token()); ok && !cfg.Quiet {
		fmt.Fprintf(out, "session expires %s\n", expiry.UTC().Format(time.RFC3339))
	}
	return exitcode.Success
}

// tokenExpiry extracts the expiry claim from a JWT credential. The token is
// not verified here; the server already vouched for it when the session was
// restored. Opaque tokens simply have no expiry to show.
func tokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
