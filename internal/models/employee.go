package models

// Employee links an application user to HR records.
type Employee struct {
	ID             string  `db:"id" json:"id"`
	UserID         *string `db:"user_id" json:"userId,omitempty"`
	FullName       string  `db:"full_name" json:"fullName"`
	AttendanceCode *string `db:"attendance_code" json:"attendanceCode,omitempty"`
	Active         bool    `db:"active" json:"active"`
}
