package repository

import (
	"errors"

	"github.com/lib/pq"
)

const pqForeignKeyViolation pq.ErrorCode = "23503"

// IsForeignKeyViolation reports whether err carries a PostgreSQL foreign key
// violation, e.g. an insert that references a deleted employee.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}
