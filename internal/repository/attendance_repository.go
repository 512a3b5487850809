package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/pkg/database"
)

// AttendanceRepository patches daily attendance records. Rows are produced by
// the attendance import elsewhere and never created here.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ExcuseLateness zeroes the late minutes of the day. A missing row is not an
// error; the affected row count is returned.
func (r *AttendanceRepository) ExcuseLateness(ctx context.Context, attendanceCode string, day time.Time) (int64, error) {
	return r.excuse(ctx, "late_minutes", models.AttendanceStatusLateExcused, attendanceCode, day)
}

// ExcuseEarlyLeave zeroes the early-leave minutes of the day.
func (r *AttendanceRepository) ExcuseEarlyLeave(ctx context.Context, attendanceCode string, day time.Time) (int64, error) {
	return r.excuse(ctx, "early_leave_minutes", models.AttendanceStatusEarlyLeaveExcused, attendanceCode, day)
}

func (r *AttendanceRepository) excuse(ctx context.Context, column, status, attendanceCode string, day time.Time) (int64, error) {
	query := fmt.Sprintf(`UPDATE attendance_records SET %s = 0, status = $1, updated_at = $2
WHERE attendance_code = $3 AND attendance_date = $4`, column)
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, status, time.Now().UTC(), attendanceCode, day)
	if err != nil {
		return 0, fmt.Errorf("excuse attendance %s: %w", column, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check attendance rows: %w", err)
	}
	return rows, nil
}
