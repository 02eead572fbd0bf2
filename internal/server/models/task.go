package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// TaskState is the lifecycle state of a Task.
type TaskState string

const (
	TaskStateDraft TaskState = "draft"
	TaskStateTodo  TaskState = "todo"
	TaskStateDoing TaskState = "doing"
	TaskStateDone  TaskState = "done"
	TaskStateTrash TaskState = "trash"
)

// TaskStates lists every valid state in lifecycle order.
var TaskStates = []TaskState{TaskStateDraft, TaskStateTodo, TaskStateDoing, TaskStateDone, TaskStateTrash}

func (s TaskState) Valid() bool {
	for _, v := range TaskStates {
		if s == v {
			return true
		}
	}
	return false
}

// ParseTaskState converts user input into a TaskState. Unknown input is a
// *common.ValidationError on field "state".
func ParseTaskState(s string) (TaskState, error) {
	state := TaskState(s)
	if !state.Valid() {
		return "", &common.ValidationError{Field: "state", Reason: fmt.Sprintf("unknown state %q", s)}
	}
	return state, nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          int64
	Title       string
	Description string
	State       TaskState
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a task listing. Nil fields are not applied; all applied
// fields combine conjunctively.
type TaskFilter struct {
	Title       *string
	Description *string
	State       *TaskState
}

// TaskPatch carries a partial task update. Nil fields keep their stored value.
type TaskPatch struct {
	Title       *string
	Description *string
	State       *TaskState
}

// Page is a skip/limit window over an id-ordered listing.
type Page struct {
	Skip  int
	Limit int
}
