package models

import "time"

// Form identifiers used by clients to deep-link a notification.
const (
	FormInteractions = "interactions"
	FormPermissions  = "permissions"
)

// Notification is a message addressed to a role or to one employee.
type Notification struct {
	ID         string     `db:"id" json:"id"`
	Title      string     `db:"title" json:"title"`
	Body       string     `db:"body" json:"body"`
	TargetRole *UserRole  `db:"target_role" json:"targetRole,omitempty"`
	EmployeeID *string    `db:"employee_id" json:"employeeId,omitempty"`
	FormName   string     `db:"form_name" json:"formName"`
	RelatedID  *string    `db:"related_id" json:"relatedId,omitempty"`
	CreatedBy  *string    `db:"created_by" json:"createdBy,omitempty"`
	IsRead     bool       `db:"is_read" json:"isRead"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// NotificationFilter scopes the notification feed of one recipient.
type NotificationFilter struct {
	EmployeeID string
	Roles      []UserRole
	UnreadOnly bool
	Limit      int
}
