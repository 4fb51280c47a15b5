package domain

// TaskStatus enumerates the lifecycle states of a task item.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "ToDo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// IsValid reports whether s is one of the known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskItem is a single task owned by a user. UserID is the partition key and
// ItemID the sort key of the task-items table; both are immutable after
// creation and never taken from client payloads.
type TaskItem struct {
	UserID      string     `json:"userId" dynamodbav:"userId"`
	ItemID      string     `json:"itemId" dynamodbav:"itemId"`
	Title       string     `json:"title" dynamodbav:"title"`
	Description string     `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Status      TaskStatus `json:"status" dynamodbav:"status"`
	DueDate     string     `json:"dueDate,omitempty" dynamodbav:"dueDate,omitempty"`
	Image       string     `json:"image,omitempty" dynamodbav:"image,omitempty"`
}

// TaskItemKeyAttributes are the attribute names that make up the task-items
// table key. They are stripped from any caller-supplied payload before the
// authoritative values are merged in.
var TaskItemKeyAttributes = []string{"userId", "itemId"}
