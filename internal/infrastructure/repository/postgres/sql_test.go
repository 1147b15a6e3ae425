package postgres

import (
	"database/sql"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(errors.Wrap(sql.ErrNoRows, "get bet")) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(errors.New("connection reset")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := errors.Wrap(&pq.Error{Code: "23505", Constraint: "bets_user_match_key"}, "insert bet")

	t.Run("matches any constraint", func(t *testing.T) {
		if !isUniqueViolation(err, "") {
			t.Fatalf("expected unique violation")
		}
	})

	t.Run("matches named constraint", func(t *testing.T) {
		if !isUniqueViolation(err, "bets_user_match_key") {
			t.Fatalf("expected unique violation on bets_user_match_key")
		}
	})

	t.Run("ignores other constraint", func(t *testing.T) {
		if isUniqueViolation(err, "bets_pkey") {
			t.Fatalf("expected no match for other constraint")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}, "") {
			t.Fatalf("expected foreign key violation to be ignored")
		}
	})
}
