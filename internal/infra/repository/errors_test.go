package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

func TestTranslate(t *testing.T) {
	exclusion := &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	other := errors.New("connection reset")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domain.ErrNotFound},
		{"exclusion violation", exclusion, domain.ErrSlotTaken},
		{"wrapped exclusion violation", fmt.Errorf("commit: %w", exclusion), domain.ErrSlotTaken},
		{"unique violation passes through", unique, unique},
		{"other errors pass through", other, other},
	}

	for _, tc := range cases {
		got := translate(tc.in)
		if tc.want == nil {
			if got != nil {
				t.Fatalf("%s: expected nil, got %v", tc.name, got)
			}
			continue
		}
		if !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestConstraintClassifiers(t *testing.T) {
	exclusion := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})

	if !IsBookingConflict(exclusion) || IsBookingConflict(unique) {
		t.Fatalf("IsBookingConflict must match 23P01 only")
	}
	if !IsUniqueViolation(unique) || IsUniqueViolation(exclusion) {
		t.Fatalf("IsUniqueViolation must match 23505 only")
	}
	if IsBookingConflict(errors.New("23P01")) {
		t.Fatalf("plain errors are never constraint violations")
	}
}
