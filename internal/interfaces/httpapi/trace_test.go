package httpapi

import (
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.PlaceBet", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRouteAttributes(t *testing.T) {
	req := httptest.NewRequest("POST", "/v1/matches/m1/bets", nil)
	req.SetPathValue("matchID", " m1 ")
	req.SetPathValue("betID", "")

	got := routeAttributes(req)
	if len(got) != 1 || got[0] != attribute.String("league.match_id", "m1") {
		t.Fatalf("unexpected route attributes: %v", got)
	}
}
