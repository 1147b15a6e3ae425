package lifecycle

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

type light string

var lights = Table[light]{
	"red":    {"green"},
	"green":  {"yellow", "broken"},
	"yellow": {"red", "broken"},
	"broken": nil,
}

func TestTable_CheckAndTerminal(t *testing.T) {
	if err := lights.Check("red", "green"); err != nil {
		t.Fatalf("expected legal move, got %v", err)
	}
	err := lights.Check("red", "yellow")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := lights.Check("broken", "red"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected terminal status to reject moves, got %v", err)
	}
	if !lights.IsTerminal("broken") || lights.IsTerminal("red") {
		t.Fatalf("unexpected terminal classification")
	}
	if !lights.Known("broken") || lights.Known("blue") {
		t.Fatalf("unexpected known classification")
	}
}

func TestTable_Path(t *testing.T) {
	tests := []struct {
		from, to light
		want     []light
	}{
		{from: "red", to: "green", want: []light{"green"}},
		{from: "red", to: "broken", want: []light{"green", "broken"}},
		{from: "red", to: "yellow", want: []light{"green", "yellow"}},
		{from: "red", to: "red", want: nil},
		{from: "broken", to: "red", want: nil},
		{from: "red", to: "blue", want: nil},
	}

	for _, tt := range tests {
		got := lights.Path(tt.from, tt.to)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("path %s -> %s: got %v want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
