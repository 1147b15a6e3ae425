package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "", want: LevelInfo},
		{in: "DEBUG", want: LevelDebug},
		{in: " warning ", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error=%v wantErr=%v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseLevel(%q)=%s want %s", tt.in, got, tt.want)
		}
	}
}

func TestLogger_ContextAddsTraceFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.With("component", "settlement").InfoContext(ctx, "bet settled", "bet_id", "bet-1", "err", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != traceID.String() || fields["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %+v", fields)
	}
	if fields["component"] != "settlement" || fields["bet_id"] != "bet-1" || fields["err"] != "boom" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestLogger_OddArgsAndNil(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core))
	logger.Warn("odd", "dangling")

	fields := logs.All()[0].ContextMap()
	if v, ok := fields["dangling"]; !ok || v != nil {
		t.Fatalf("expected dangling key with nil value, got %+v", fields)
	}

	var nilLogger *Logger
	nilLogger.Info("no panic")
}

func TestNew_WritesServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "prediction-league", Env: "test", Output: &buf})
	logger.Debug("hidden")
	logger.Info("visible", "match_id", "match-1")

	var entry map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "visible" || entry["service"] != "prediction-league" || entry["env"] != "test" || entry["match_id"] != "match-1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
