package postgres

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes this layer translates.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateNotNullViolation    = "23502"
)

// Constraint names declared by the migrations.
const (
	constraintUsersUsername = "uq_users_username"
	constraintUsersEmail    = "uq_users_email"
	constraintPostsAuthor   = "fk_posts_author"
)

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}

	return nil, false
}

// uniqueViolationConstraint returns the violated constraint name, if err is a unique violation.
func uniqueViolationConstraint(err error) (string, bool) {
	if pgErr, ok := asPgError(err); ok && pgErr.Code == sqlStateUniqueViolation {
		return pgErr.ConstraintName, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	return "", false
}

func isForeignKeyConstraintViolation(err error) bool {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.Code == sqlStateForeignKeyViolation
	}

	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotNullConstraintViolation(err error) bool {
	pgErr, ok := asPgError(err)

	return ok && pgErr.Code == sqlStateNotNullViolation
}
