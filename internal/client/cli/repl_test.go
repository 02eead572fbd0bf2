package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	out      bytes.Buffer

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool  { return f.loggedIn }
func (f *fakeExec) output() io.Writer { return &f.out }

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) Register(context.Context) error { return f.record("register", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Add(context.Context) error                  { return f.record("add", nil) }
func (f *fakeExec) List(_ context.Context, a []string) error   { return f.record("list", a) }
func (f *fakeExec) Done(_ context.Context, a []string) error   { return f.record("done", a) }
func (f *fakeExec) Remove(_ context.Context, a []string) error { return f.record("rm", a) }
func (f *fakeExec) Refresh(context.Context) error              { return f.record("refresh", nil) }
func (f *fakeExec) WhoAmI(context.Context) error               { return f.record("whoami", nil) }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	input := strings.Join([]string{
		"register",
		"login",
		"",
		"add",
		"l",
		"list done",
		"done 3",
		"rm 4",
		"refresh",
		"whoami",
		"logout",
		"exit",
		"add",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{"register", "login", "add", "list", "list", "done", "rm", "refresh", "whoami", "logout"}, exec.calls)
	assert.Equal(t, []string{"done"}, exec.args[4])
	assert.Equal(t, []string{"3"}, exec.args[5])
	assert.Equal(t, []string{"4"}, exec.args[6])
	assert.Contains(t, exec.out.String(), "todo status> ")
	assert.Contains(t, exec.out.String(), "Bye!")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp\nquit\n")))

	out := exec.out.String()
	assert.Contains(t, out, "Available commands: register, login, exit")
	assert.Contains(t, out, "Available commands: add, list [state]")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("bogus")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, exec.out.String(), "Unknown command: bogus")
	assert.NotContains(t, exec.out.String(), "Bye!")
}
