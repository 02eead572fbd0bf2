// Package http exposes the user and task services as a JSON HTTP API,
// together with Prometheus metrics and a health endpoint.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/gorilla/mux"
)

type HTTPServer struct {
	address string
	users   *services.UserService
	tasks   *services.TaskService
	logger  logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ts *services.TaskService, m *metrics.Metrics) *HTTPServer {
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		tasks:   ts,
		metrics: m,
		now:     time.Now,
	}
}

// Handler builds the router with every route and middleware attached.
func (s *HTTPServer) Handler() http.Handler {
	return s.router()
}

func (s *HTTPServer) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware, s.recoveryMiddleware)

	r.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", s.getUser).Methods(http.MethodGet)
	r.HandleFunc("/users", s.withCaller(s.updateUser)).Methods(http.MethodPut)
	r.HandleFunc("/users", s.withCaller(s.deleteUser)).Methods(http.MethodDelete)

	r.HandleFunc("/auth/token", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh-token", s.refreshToken).Methods(http.MethodPost)

	r.HandleFunc("/todos", s.withCaller(s.createTask)).Methods(http.MethodPost)
	r.HandleFunc("/todos", s.withCaller(s.listTasks)).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id:[0-9]+}", s.withCaller(s.getTask)).Methods(http.MethodGet)
	r.HandleFunc("/todos/{id:[0-9]+}", s.withCaller(s.updateTask)).Methods(http.MethodPatch)
	r.HandleFunc("/todos/{id:[0-9]+}", s.withCaller(s.deleteTask)).Methods(http.MethodDelete)

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	return r
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is done, then shuts down,
// giving in-flight requests a few seconds to finish.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}

func (s *HTTPServer) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
