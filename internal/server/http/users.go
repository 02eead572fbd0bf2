package http

import (
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

func toUser(u *models.User) api.User {
	return api.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func parsePage(r *http.Request) (models.Page, error) {
	skip, err := parseQueryInt(r, "skip")
	if err != nil {
		return models.Page{}, err
	}
	limit, err := parseQueryInt(r, "limit")
	if err != nil {
		return models.Page{}, err
	}
	return models.Page{Skip: skip, Limit: limit}, nil
}

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if err := parseJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUser(user))
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.users.ListUsers(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := api.ListUsersResponse{Users: make([]api.User, 0, len(list))}
	for _, u := range list {
		resp.Users = append(resp.Users, toUser(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(user))
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request, caller *models.User) {
	var req api.UpdateUserRequest
	if err := parseJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateUser(r.Context(), caller, req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(user))
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request, caller *models.User) {
	if err := s.users.DeleteUser(r.Context(), caller); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// login accepts the OAuth2 password-grant form fields username and password.
// username may hold either the username or the email.
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, &common.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	token, err := s.users.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tokenResponse(token))
}

func (s *HTTPServer) refreshToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.users.Refresh(r.Context(), bearerToken(r), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.tokenResponse(token))
}

func (s *HTTPServer) tokenResponse(token string) api.TokenResponse {
	return api.TokenResponse{
		AccessToken: token,
		TokenType:   common.BearerScheme,
		ExpiresIn:   int64(s.users.TokenTTL().Seconds()),
	}
}
