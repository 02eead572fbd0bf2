package http

import (
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

func toTask(t *models.Task) api.Task {
	return api.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       string(t.State),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// parseState parses an optional state. A nil input stays nil.
func parseState(s *string) (*models.TaskState, error) {
	if s == nil {
		return nil, nil
	}
	state, err := models.ParseTaskState(*s)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *HTTPServer) createTask(w http.ResponseWriter, r *http.Request, caller *models.User) {
	var req api.CreateTaskRequest
	if err := parseJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	state, err := models.ParseTaskState(req.State)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), caller, req.Title, req.Description, state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTask(task))
}

func (s *HTTPServer) listTasks(w http.ResponseWriter, r *http.Request, caller *models.User) {
	page, err := parsePage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := parseState(parseQueryString(r, "state"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := models.TaskFilter{
		Title:       parseQueryString(r, "title"),
		Description: parseQueryString(r, "description"),
		State:       state,
	}

	list, err := s.tasks.ListTasks(r.Context(), caller, filter, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := api.ListTasksResponse{Tasks: make([]api.Task, 0, len(list))}
	for _, t := range list {
		resp.Tasks = append(resp.Tasks, toTask(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) getTask(w http.ResponseWriter, r *http.Request, caller *models.User) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.GetTask(r.Context(), caller, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTask(task))
}

func (s *HTTPServer) updateTask(w http.ResponseWriter, r *http.Request, caller *models.User) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req api.UpdateTaskRequest
	if err := parseJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := parseState(req.State)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		State:       state,
	}

	task, err := s.tasks.UpdateTask(r.Context(), caller, id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTask(task))
}

func (s *HTTPServer) deleteTask(w http.ResponseWriter, r *http.Request, caller *models.User) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.tasks.DeleteTask(r.Context(), caller, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
