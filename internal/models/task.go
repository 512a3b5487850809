package models

import "time"

// TaskStatus captures the follow-up task lifecycle.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// OpenTaskStatuses are the statuses counted as an open obligation.
var OpenTaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress}

// TaskPriority ranks follow-up tasks.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// AutoCloseNote marks tasks completed because a newer interaction was logged.
const AutoCloseNote = "Closed automatically: superseded by a new interaction"

// DefaultFollowUpDescription is used when an interaction carries no guidance.
const DefaultFollowUpDescription = "Follow up with client"

// Task is a schedulable follow-up obligation on an opportunity.
type Task struct {
	ID             string       `db:"id" json:"id"`
	OpportunityID  string       `db:"opportunity_id" json:"opportunityId"`
	AssignedTo     *string      `db:"assigned_to" json:"assignedTo,omitempty"`
	TaskTypeID     *int64       `db:"task_type_id" json:"taskTypeId,omitempty"`
	Description    string       `db:"description" json:"description"`
	DueDate        time.Time    `db:"due_date" json:"dueDate"`
	Priority       TaskPriority `db:"priority" json:"priority"`
	Status         TaskStatus   `db:"status" json:"status"`
	CompletedAt    *time.Time   `db:"completed_at" json:"completedAt,omitempty"`
	CompletedBy    *string      `db:"completed_by" json:"completedBy,omitempty"`
	CompletionNote *string      `db:"completion_note" json:"completionNote,omitempty"`
	CreatedBy      string       `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
}

// TaskCompletion describes a bulk completion of open tasks.
type TaskCompletion struct {
	OpportunityID string
	CompletedBy   string
	CompletedAt   time.Time
	Note          string
}
