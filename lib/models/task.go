package models

// Task statuses
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// Task is a unit of site work assigned to a user
type Task struct {
	ID         int64  `json:"id"`
	Project    int64  `json:"project"`
	AssignedTo *int64 `json:"assigned_to,omitempty"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	DueDate    Date   `json:"due_date"`
}

func (t Task) GetID() int64 { return t.ID }
