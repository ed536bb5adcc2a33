package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a conditional update matched no row
	// because the row is no longer in the expected state.
	ErrConflict = errors.New("conflict")
)

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
