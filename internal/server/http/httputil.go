package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/gorilla/mux"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// writeError maps service errors to status codes. Anything that is not a
// domain error is logged and reported as a generic 500.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ce *common.ConflictError
		nf *common.NotFoundError
		ve *common.ValidationError
	)

	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
		writeDetail(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
	case errors.As(err, &ce):
		writeDetail(w, http.StatusConflict, ce.Error())
	case errors.As(err, &nf):
		writeDetail(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ve):
		writeDetail(w, http.StatusUnprocessableEntity, ve.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeDetail(w, http.StatusGatewayTimeout, "request timed out")
	default:
		s.logger.Error(r.Context(), "internal error", "error", err.Error())
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}

// parseJSON decodes the request body into dest. Fields dest does not
// declare are ignored, so a client cannot pick the owner of a task.
func parseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		return &common.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func parsePathInt64(r *http.Request, key string) (int64, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil {
		return 0, &common.ValidationError{Field: key, Reason: "must be an integer"}
	}
	return v, nil
}

// parseQueryInt returns the integer query parameter key, or 0 when absent.
func parseQueryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &common.ValidationError{Field: key, Reason: fmt.Sprintf("%q is not an integer", raw)}
	}
	return v, nil
}

// parseQueryString returns a pointer to the query parameter key, or nil when
// the parameter is absent.
func parseQueryString(r *http.Request, key string) *string {
	q := r.URL.Query()
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}
