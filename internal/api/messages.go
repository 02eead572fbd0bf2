package api

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Message struct {
	Message string `json:"message"`
}

type Empty struct{}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ListUsersRequest struct {
	Skip  int `json:"skip,omitempty"`
	Limit int `json:"limit,omitempty"`
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type GetUserRequest struct {
	ID int64 `json:"id"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a bearer token valid for ExpiresIn seconds.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
}

// ListTasksRequest filters the caller's tasks. Nil filter fields are not
// applied.
type ListTasksRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	State       *string `json:"state,omitempty"`
	Skip        int     `json:"skip,omitempty"`
	Limit       int     `json:"limit,omitempty"`
}

type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type GetTaskRequest struct {
	ID int64 `json:"id"`
}

// UpdateTaskRequest carries a partial update. Nil fields keep their value.
type UpdateTaskRequest struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	State       *string `json:"state,omitempty"`
}

type DeleteTaskRequest struct {
	ID int64 `json:"id"`
}
