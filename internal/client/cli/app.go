package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/client/client"
	"github.com/dmitrijs2005/todokeeper/internal/client/config"
)

// TodoService is the server surface the CLI needs. client.GRPCClient
// implements it.
type TodoService interface {
	Register(ctx context.Context, username, email string, password []byte) error
	Login(ctx context.Context, login string, password []byte) error
	Logout()
	LoggedIn() bool
	Refresh(ctx context.Context) error
	WhoAmI(ctx context.Context) (*api.User, error)
	AddTask(ctx context.Context, title, description, state string) (*api.Task, error)
	ListTasks(ctx context.Context, state string) ([]api.Task, error)
	MarkDone(ctx context.Context, id int64) (*api.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config   *config.Config
	service  TodoService
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, s TodoService, in io.Reader, out io.Writer) *App {
	return &App{config: c, service: s, reader: bufio.NewReader(in), out: out}
}

// Run starts the REPL and returns when the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.service.Close()

	fmt.Fprintln(a.out, "Welcome to todokeeper CLI (type 'help' for commands)")

	pingCtx, cancel := a.withTimeout(ctx)
	if err := a.service.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "warning: %s at %s\n", err, a.config.ServerEndpointAddr)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.service.LoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := a.config.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func (a *App) fail(err error) error {
	fmt.Fprintf(a.out, "error: %s\n", err)
	return err
}
