package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// translate maps driver errors onto the domain errors the use cases expect.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if IsBookingConflict(err) {
		return domain.ErrSlotTaken
	}
	return err
}

// IsBookingConflict reports an overlapping booking rejected by Postgres.
func IsBookingConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
