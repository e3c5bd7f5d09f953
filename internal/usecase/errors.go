package usecase

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal error")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	ErrUserNotFound    = errors.New("user not found")
	ErrSkillNotFound   = errors.New("skill not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrSessionNotFound = errors.New("session not found")

	ErrSelfMatch           = errors.New("cannot match with yourself")
	ErrInvalidTransition   = errors.New("invalid session status transition")
	ErrSessionNotCompleted = errors.New("feedback requires a completed session")
	ErrInvalidRecipient    = errors.New("feedback recipient must be the other participant")
	ErrSessionNotInMatch   = errors.New("session does not belong to this match")
	ErrConflict            = errors.New("conflict")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
