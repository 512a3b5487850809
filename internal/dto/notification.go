package dto

import "github.com/noah-isme/sales-ops-api/internal/models"

// NotifyRolesParams addresses one notification to each listed role.
type NotifyRolesParams struct {
	Title     string
	Message   string
	RelatedID string
	Roles     []models.UserRole
	FormName  string
	CreatedBy string
}

// NotifyEmployeeParams addresses one notification to the employee linked to UserID.
type NotifyEmployeeParams struct {
	UserID    string
	Title     string
	Message   string
	RelatedID string
	FormName  string
	CreatedBy string
}

// PushMessage is the payload published to the realtime channel.
type PushMessage struct {
	NotificationID string           `json:"notificationId"`
	Title          string           `json:"title"`
	Body           string           `json:"body"`
	FormName       string           `json:"formName"`
	RelatedID      string           `json:"relatedId,omitempty"`
	Role           *models.UserRole `json:"role,omitempty"`
	EmployeeID     *string          `json:"employeeId,omitempty"`
}
