package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid, got %q: %v", first, err)
	}
}

func TestSequence(t *testing.T) {
	seq := NewSequence("a", "b")
	for _, want := range []string{"a", "b"} {
		got, err := seq.NewID()
		if err != nil || got != want {
			t.Fatalf("got %q err=%v want %q", got, err, want)
		}
	}
	if _, err := seq.NewID(); err == nil {
		t.Fatalf("expected exhausted sequence error")
	}
}
