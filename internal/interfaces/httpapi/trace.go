package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("prediction-league/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// routeIDAttributes maps path wildcards to the span attributes they are recorded as.
var routeIDAttributes = []struct {
	wildcard string
	key      attribute.Key
}{
	{wildcard: "seasonID", key: "league.season_id"},
	{wildcard: "competitionID", key: "league.competition_id"},
	{wildcard: "teamID", key: "league.team_id"},
	{wildcard: "matchID", key: "league.match_id"},
	{wildcard: "betID", key: "league.bet_id"},
	{wildcard: "userID", key: "league.user_id"},
	{wildcard: "action", key: "league.action"},
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		// Filtered routes such as /healthz carry no parent span.
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

// startRouteSpan starts a handler span tagged with the ids from the request path.
func startRouteSpan(r *http.Request, name string) (context.Context, trace.Span) {
	ctx, span := startSpan(r.Context(), name)
	if !span.IsRecording() {
		return ctx, span
	}
	span.SetAttributes(routeAttributes(r)...)
	return ctx, span
}

func routeAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	for _, item := range routeIDAttributes {
		if value := strings.TrimSpace(r.PathValue(item.wildcard)); value != "" {
			attrs = append(attrs, item.key.String(value))
		}
	}
	return attrs
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
