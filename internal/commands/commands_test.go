package commands

import (
	"bytes"
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChequeMan/FRONTTODOList/internal/backend/resttodo"
	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/credentials"
	"github.com/ChequeMan/FRONTTODOList/internal/exitcode"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
	"github.com/ChequeMan/FRONTTODOList/internal/testutil"
)

// newTestSession builds a logged-in session over the fake backend with a
// throwaway credential store.
func newTestSession(t *testing.T, svc *testutil.FakeService) (*session.Manager, *credentials.Store) {
	t.Helper()
	store, err := credentials.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open credential store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	sess := session.NewManager(svc, store)
	if _, err := sess.Login(context.Background(), "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return sess, store
}

func testConfig() *config.Config {
	return &config.Config{APIURL: "http://localhost:5000/api"}
}

// runCmd runs the command and captures stdout and stderr.
func runCmd(cmd Command, cfg *config.Config, sess *session.Manager, args []string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := cmd.Run(context.Background(), cfg, sess, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestAddCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&AddCmd{}, testConfig(), sess, []string{"buy", "milk"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "ok\n" {
		t.Errorf("output: got %q", out)
	}
	task, ok := svc.TaskByID("t1")
	if !ok || task.Text != "buy milk" {
		t.Errorf("created task: got %+v, ok=%v", task, ok)
	}
}

func TestAddCmdQuiet(t *testing.T) {
	sess, _ := newTestSession(t, testutil.NewFakeService())
	cfg := testConfig()
	cfg.Quiet = true

	code, out, _ := runCmd(&AddCmd{}, cfg, sess, []string{"buy milk"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "" {
		t.Errorf("quiet output: got %q", out)
	}
}

func TestAddCmdEmptyText(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, _ := newTestSession(t, svc)

	for _, args := range [][]string{nil, {"   "}} {
		code, _, errOut := runCmd(&AddCmd{}, testConfig(), sess, args)
		if code != exitcode.UserError {
			t.Errorf("args %v: exit code %d, want %d", args, code, exitcode.UserError)
		}
		if !strings.Contains(errOut, "text required") {
			t.Errorf("args %v: stderr %q", args, errOut)
		}
	}
	if n := svc.CallCount("CreateTask"); n != 0 {
		t.Errorf("empty text reached the backend %d times", n)
	}
}

func TestListCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	svc.AddTask("t2", "walk the dog", "u1")
	sess, _ := newTestSession(t, svc)

	done := true
	if _, err := svc.UpdateTask(context.Background(), "t2", service.TaskPatch{Completed: &done}); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	code, out, _ := runCmd(&ListCmd{}, testConfig(), sess, nil)
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	want := "   1  [ ] buy milk\n" +
		"   2  [x] walk the dog\n" +
		"1 of 2 completed\n"
	if out != want {
		t.Errorf("output:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestListCmdSharedTaskNote(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u2", "Bob", "bob@example.com", "pw")
	svc.AddTask("t1", "pick up keys", "u2")
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&ListCmd{}, testConfig(), sess, nil)
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.Contains(out, "   1  [ ] pick up keys (from Bob)") {
		t.Errorf("output: got %q", out)
	}
}

func TestListCmdFilter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	svc.AddTask("t2", "walk the dog", "u1")
	done := true
	if _, err := svc.UpdateTask(context.Background(), "t2", service.TaskPatch{Completed: &done}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	sess, _ := newTestSession(t, svc)

	tests := []struct {
		filter string
		want   string
	}{
		// Numbers follow the full list so that refs stay valid.
		{"active", "   1  [ ] buy milk\n1 of 2 completed\n"},
		{"completed", "   2  [x] walk the dog\n1 of 2 completed\n"},
	}
	for _, tt := range tests {
		cmd := &ListCmd{}
		cmd.SetFilter(tt.filter)
		code, out, _ := runCmd(cmd, testConfig(), sess, nil)
		if code != exitcode.Success {
			t.Fatalf("filter %s: exit code %d", tt.filter, code)
		}
		if out != tt.want {
			t.Errorf("filter %s:\ngot:\n%s\nwant:\n%s", tt.filter, out, tt.want)
		}
	}
}

func TestListCmdInvalidFilter(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, _ := newTestSession(t, svc)

	cmd := &ListCmd{}
	cmd.SetFilter("bogus")
	code, _, errOut := runCmd(cmd, testConfig(), sess, nil)
	if code != exitcode.UserError {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.Contains(errOut, "invalid filter: bogus") {
		t.Errorf("stderr: got %q", errOut)
	}
	if n := svc.CallCount("Tasks"); n != 0 {
		t.Errorf("invalid filter reached the backend %d times", n)
	}
}

func TestListCmdEmpty(t *testing.T) {
	sess, _ := newTestSession(t, testutil.NewFakeService())

	code, out, _ := runCmd(&ListCmd{}, testConfig(), sess, nil)
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "no tasks found\n" {
		t.Errorf("output: got %q", out)
	}
}

func TestListCmdBackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.TasksErr = &resttodo.APIError{Status: http.StatusInternalServerError, Message: "boom"}
	sess, _ := newTestSession(t, svc)

	code, _, errOut := runCmd(&ListCmd{}, testConfig(), sess, nil)
	if code != exitcode.BackendError {
		t.Fatalf("exit code: got %d, want %d", code, exitcode.BackendError)
	}
	if !strings.Contains(errOut, "boom") {
		t.Errorf("stderr: got %q", errOut)
	}
}

func TestDoneCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	svc.AddTask("t2", "walk the dog", "u1")
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&DoneCmd{}, testConfig(), sess, []string{"2"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "ok\n" {
		t.Errorf("output: got %q", out)
	}
	if task, _ := svc.TaskByID("t2"); !task.Completed {
		t.Error("task t2 should be completed")
	}
	if task, _ := svc.TaskByID("t1"); task.Completed {
		t.Error("task t1 should be untouched")
	}
}

func TestReopenCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	done := true
	if _, err := svc.UpdateTask(context.Background(), "t1", service.TaskPatch{Completed: &done}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	sess, _ := newTestSession(t, svc)

	code, _, _ := runCmd(&ReopenCmd{}, testConfig(), sess, []string{"1"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if task, _ := svc.TaskByID("t1"); task.Completed {
		t.Error("task t1 should be active again")
	}
}

func TestDoneCmdBadRef(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	sess, _ := newTestSession(t, svc)

	tests := []struct {
		args    []string
		wantErr string
	}{
		{nil, "task reference required"},
		{[]string{"abc"}, "invalid task reference: abc"},
		{[]string{"7"}, "task number out of range: 7"},
	}
	for _, tt := range tests {
		code, _, errOut := runCmd(&DoneCmd{}, testConfig(), sess, tt.args)
		if code != exitcode.UserError {
			t.Errorf("args %v: exit code %d, want %d", tt.args, code, exitcode.UserError)
		}
		if !strings.Contains(errOut, tt.wantErr) {
			t.Errorf("args %v: stderr %q, want %q", tt.args, errOut, tt.wantErr)
		}
	}
}

func TestEditCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	sess, _ := newTestSession(t, svc)

	code, _, _ := runCmd(&EditCmd{}, testConfig(), sess, []string{"1", "buy", "oat", "milk"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if task, _ := svc.TaskByID("t1"); task.Text != "buy oat milk" {
		t.Errorf("text: got %q", task.Text)
	}
}

func TestEditCmdMissingText(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	sess, _ := newTestSession(t, svc)

	code, _, errOut := runCmd(&EditCmd{}, testConfig(), sess, []string{"1"})
	if code != exitcode.UserError {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.Contains(errOut, "text required") {
		t.Errorf("stderr: got %q", errOut)
	}
}

func TestRmCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	svc.AddTask("t2", "walk the dog", "u1")
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&RmCmd{}, testConfig(), sess, []string{"1"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "ok\n" {
		t.Errorf("output: got %q", out)
	}
	if _, ok := svc.TaskByID("t1"); ok {
		t.Error("task t1 should be deleted")
	}
	if _, ok := svc.TaskByID("t2"); !ok {
		t.Error("task t2 should survive")
	}
}

func TestRmCmdNotOwner(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u2", "Bob", "bob@example.com", "pw")
	svc.AddTask("t1", "bob's task", "u2")
	sess, _ := newTestSession(t, svc)

	code, _, errOut := runCmd(&RmCmd{}, testConfig(), sess, []string{"1"})
	if code != exitcode.AuthError {
		t.Fatalf("exit code: got %d, want %d", code, exitcode.AuthError)
	}
	if !strings.Contains(errOut, "only the owner can delete this task") {
		t.Errorf("stderr: got %q", errOut)
	}
	if _, ok := svc.TaskByID("t1"); !ok {
		t.Error("task should survive the rejected delete")
	}
}

func TestShareCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u2", "Bob", "bob@example.com", "pw")
	svc.AddTask("t1", "buy milk", "u1")
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&ShareCmd{}, testConfig(), sess, []string{"1", "bob@example.com"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "ok\n" {
		t.Errorf("output: got %q", out)
	}
	if task, _ := svc.TaskByID("t1"); !task.HasCollaborator("u2") {
		t.Errorf("task: got %+v", task)
	}
}

func TestShareCmdUnknownEmail(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	sess, _ := newTestSession(t, svc)

	code, _, errOut := runCmd(&ShareCmd{}, testConfig(), sess, []string{"1", "nobody@example.com"})
	if code != exitcode.UserError {
		t.Fatalf("exit code: got %d, want %d", code, exitcode.UserError)
	}
	if !strings.Contains(errOut, "user not found: nobody@example.com") {
		t.Errorf("stderr: got %q", errOut)
	}
}

func TestShareCmdMissingEmail(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	sess, _ := newTestSession(t, svc)

	code, _, errOut := runCmd(&ShareCmd{}, testConfig(), sess, []string{"1"})
	if code != exitcode.UserError {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.Contains(errOut, "collaborator email required") {
		t.Errorf("stderr: got %q", errOut)
	}
}

func TestUnshareCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u2", "Bob", "bob@example.com", "pw")
	svc.AddTask("t1", "buy milk", "u1")
	if _, err := svc.ShareTask(context.Background(), "t1", "bob@example.com"); err != nil {
		t.Fatalf("seed share: %v", err)
	}
	sess, _ := newTestSession(t, svc)

	// Email resolution against the collaborator list is case-insensitive.
	code, out, _ := runCmd(&UnshareCmd{}, testConfig(), sess, []string{"1", "Bob@Example.com"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "ok\n" {
		t.Errorf("output: got %q", out)
	}
	if task, _ := svc.TaskByID("t1"); task.HasCollaborator("u2") {
		t.Errorf("collaborator should be removed: %+v", task)
	}
}

func TestUnshareCmdNotACollaborator(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "buy milk", "u1")
	sess, _ := newTestSession(t, svc)

	code, _, errOut := runCmd(&UnshareCmd{}, testConfig(), sess, []string{"1", "nobody@example.com"})
	if code != exitcode.UserError {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.Contains(errOut, "collaborator not found: nobody@example.com") {
		t.Errorf("stderr: got %q", errOut)
	}
	if n := svc.CallCount("RemoveCollaborator"); n != 0 {
		t.Errorf("unresolved email reached the backend %d times", n)
	}
}

func TestSearchCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("u2", "Bob", "bob@example.com", "pw")
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&SearchCmd{}, testConfig(), sess, []string{"bob"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "Bob <bob@example.com>\n" {
		t.Errorf("output: got %q", out)
	}
}

func TestSearchCmdShortQuery(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&SearchCmd{}, testConfig(), sess, []string{"a"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "" {
		t.Errorf("short query should print nothing, got %q", out)
	}
	if n := svc.CallCount("SearchUsers"); n != 0 {
		t.Errorf("short query reached the backend %d times", n)
	}
}

func TestSearchCmdNoMatches(t *testing.T) {
	svc := testutil.NewFakeService()
	sess, _ := newTestSession(t, svc)

	code, out, _ := runCmd(&SearchCmd{}, testConfig(), sess, []string{"zz"})
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "no users found\n" {
		t.Errorf("output: got %q", out)
	}
	if n := svc.CallCount("SearchUsers"); n != 1 {
		t.Errorf("full-length query should reach the backend once, got %d", n)
	}
}

func TestSearchCmdQueryRequired(t *testing.T) {
	sess, _ := newTestSession(t, testutil.NewFakeService())

	code, _, errOut := runCmd(&SearchCmd{}, testConfig(), sess, nil)
	if code != exitcode.UserError {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.Contains(errOut, "query required") {
		t.Errorf("stderr: got %q", errOut)
	}
}

func TestVersionCmd(t *testing.T) {
	code, out, _ := runCmd(&VersionCmd{}, testConfig(), nil, nil)
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	if out != "todo "+Version+"\n" {
		t.Errorf("output: got %q", out)
	}
}

func TestHelpCmd(t *testing.T) {
	code, out, _ := runCmd(&HelpCmd{}, testConfig(), nil, nil)
	if code != exitcode.Success {
		t.Fatalf("exit code: got %d", code)
	}
	testutil.Golden(t, "help", out)
}
