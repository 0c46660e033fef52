package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ChequeMan/FRONTTODOList/internal/backend/resttodo"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
	"github.com/ChequeMan/FRONTTODOList/internal/tasklist"
)

// reportError prints a failing remote call and classifies its exit code:
// 401/403 are auth errors, other 4xx are user errors, everything else
// (5xx, transport failures) is a backend error.
func reportError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)

	var apiErr *resttodo.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
			return exitcode.AuthError
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return exitcode.UserError
		}
	}
	return exitcode.BackendError
}

// loadTasks builds a synchronizer over the session's backend and fills it
// from the server. Returns a non-Success exit code on failure.
func loadTasks(ctx context.Context, sess *session.Manager, errOut io.Writer) (*tasklist.Synchronizer, int) {
	syn := tasklist.New(sess.Service())
	if err := syn.Load(ctx); err != nil {
		return nil, reportError(errOut, err)
	}
	return syn, exitcode.Success
}

// resolveRef parses a 1-based task reference from args and resolves it
// against the loaded collection. Returns a non-Success exit code on failure.
func resolveRef(syn *tasklist.Synchronizer, args []string, errOut io.Writer) (service.Task, int) {
	num, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return service.Task{}, exitcode.UserError
	}

	task, ok := syn.TaskAt(num)
	if !ok {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}
