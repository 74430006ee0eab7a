package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx, so repositories can run
// inside a transaction owned by a service.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

// pqConstraint returns the SQLSTATE code and constraint name of a postgres error.
func pqConstraint(err error) (code, constraint string, ok bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", "", false
	}
	return string(pqErr.Code), pqErr.Constraint, true
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)
