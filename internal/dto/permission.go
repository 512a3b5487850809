package dto

import (
	"time"

	"github.com/noah-isme/sales-ops-api/internal/models"
)

// SubmitPermissionRequest is an employee's request for a schedule deviation.
type SubmitPermissionRequest struct {
	UserID         string      `json:"userId" validate:"required"`
	PermissionDate models.Date `json:"permissionDate" validate:"required"`
	Type           string      `json:"type" validate:"required,permission_type"`
	Reason         string      `json:"reason" validate:"required"`
	FromTime       *string     `json:"fromTime"`
	ToTime         *string     `json:"toTime"`
	CreatedAt      *time.Time  `json:"createdAt"`
}

// SubmitPermissionResponse mirrors the legacy response contract.
type SubmitPermissionResponse struct {
	Success      bool   `json:"success"`
	PermissionID string `json:"permissionId"`
	Message      string `json:"message"`
}

// DecidePermissionRequest approves or rejects a pending permission.
type DecidePermissionRequest struct {
	PermissionID string `json:"permissionId" validate:"required"`
	Status       string `json:"status" validate:"required,permission_decision"`
	Comment      string `json:"comment"`
	UserID       string `json:"userId" validate:"required"`
}

// PermissionQuery mirrors supported listing filters.
type PermissionQuery struct {
	EmployeeID string
	Status     []models.PermissionStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// PermissionExport is a rendered permission report ready for download.
type PermissionExport struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}
