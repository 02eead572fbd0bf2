package http

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every request once with a fresh request id and
// records call metrics labelled by route template. It must wrap
// recoveryMiddleware so that recovered panics are counted as 500.
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			method := r.Method + " " + routeTemplate(r)
			d := time.Since(start)

			s.metrics.ObserveCall("http", method, strconv.Itoa(rw.statusCode), d)
			s.logger.Info(r.Context(), "http call",
				"request_id", requestID,
				"method", method,
				"code", rw.statusCode,
				"duration", d,
			)
		}()

		next.ServeHTTP(rw, r)
	})
}

func routeTemplate(r *http.Request) string {
	if cr := mux.CurrentRoute(r); cr != nil {
		if tpl, err := cr.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// recoveryMiddleware recovers from panics and returns a 500 error
func (s *HTTPServer) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(r.Context(), "panic", "error", fmt.Sprint(p), "stack", string(debug.Stack()))
				writeDetail(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withCaller resolves the bearer token of r before calling h. On failure
// it writes the 401 response itself.
func (s *HTTPServer) withCaller(h func(w http.ResponseWriter, r *http.Request, caller *models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.users.Authenticate(r.Context(), bearerToken(r), s.now())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		h(w, r, caller)
	}
}

func bearerToken(r *http.Request) string {
	return common.BearerToken(r.Header.Get(common.AccessTokenHeaderName))
}
