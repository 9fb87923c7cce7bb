package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: CoursesNameKey})

	if !IsDuplicateConstraintError(err, CoursesNameKey) {
		t.Fatal("expected wrapped unique violation to match")
	}
	if IsDuplicateConstraintError(err, UsersUsernameKey) {
		t.Fatal("different constraint must not match")
	}
	if IsDuplicateConstraintError(errors.New("boom"), CoursesNameKey) {
		t.Fatal("plain error must not match")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503", ConstraintName: "sections_course_id_fkey"}) {
		t.Fatal("expected fk violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not an fk violation")
	}
	if got := ConstraintName(&pgconn.PgError{ConstraintName: "x"}); got != "x" {
		t.Fatalf("constraint name: got %q", got)
	}
}

func TestIsNumericOverflow(t *testing.T) {
	if !IsNumericOverflow(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "22003"})) {
		t.Fatal("expected wrapped numeric overflow to match")
	}
	if IsNumericOverflow(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("unique violation is not an overflow")
	}
}
