package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// insertUnique runs a named INSERT ... ON CONFLICT DO NOTHING and reports a
// skipped row as appErrors.ErrDuplicate.
func insertUnique(ctx context.Context, db *sqlx.DB, query string, arg interface{}, op string) error {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, appErrors.ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, appErrors.ErrDuplicate)
	}
	return nil
}

// execNamedOne runs a named statement expected to touch exactly one row.
func execNamedOne(ctx context.Context, db *sqlx.DB, query string, arg interface{}, op string) error {
	res, err := db.NamedExecContext(ctx, query, arg)
	return checkOne(res, err, op)
}

// execOne runs a positional statement expected to touch exactly one row.
func execOne(ctx context.Context, db *sqlx.DB, query string, op string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	return checkOne(res, err, op)
}

func checkOne(res sql.Result, err error, op string) error {
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, appErrors.ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func pageWindow(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

func sortClause(sortBy, order string, allowed map[string]bool, fallback string) (string, string) {
	if !allowed[sortBy] {
		sortBy = fallback
	}
	switch order {
	case "asc", "ASC":
		order = "ASC"
	case "desc", "DESC":
		order = "DESC"
	default:
		order = "DESC"
	}
	return sortBy, order
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
