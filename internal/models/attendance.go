package models

import "time"

// Attendance status labels written when a permission excuses a deviation.
const (
	AttendanceStatusLateExcused       = "present (late excused)"
	AttendanceStatusEarlyLeaveExcused = "present (early-leave excused)"
)

// AttendanceRecord holds one employee's computed attendance for one day.
type AttendanceRecord struct {
	ID                string    `db:"id" json:"id"`
	AttendanceCode    string    `db:"attendance_code" json:"attendanceCode"`
	AttendanceDate    time.Time `db:"attendance_date" json:"attendanceDate"`
	LateMinutes       int       `db:"late_minutes" json:"lateMinutes"`
	EarlyLeaveMinutes int       `db:"early_leave_minutes" json:"earlyLeaveMinutes"`
	Status            string    `db:"status" json:"status"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}
