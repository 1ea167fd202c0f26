package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
	pgNumericOutOfRange   = "22003"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isMalformedID reports a value Postgres could not parse as a UUID.
func isMalformedID(err error) bool {
	return pgErrorCode(err) == pgInvalidText
}

// isBadAmount reports a money value the NUMERIC(14, 2) columns reject.
func isBadAmount(err error) bool {
	switch pgErrorCode(err) {
	case pgCheckViolation, pgNumericOutOfRange:
		return true
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}
