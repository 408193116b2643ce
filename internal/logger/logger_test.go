package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		none bool
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "WARN", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "", none: true},
		{in: "chatty", none: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseLevel(tt.in)
			if tt.none {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.in, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNamedAndWithCarryContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := wrap(zap.New(core)).Named("expiry_collector").With(String("request_id", "r-1"))

	log.Debug("dropped")
	log.Info("collected", Int("deleted", 2))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "expiry_collector" {
		t.Errorf("LoggerName = %q", e.LoggerName)
	}
	ctx := e.ContextMap()
	if ctx["request_id"] != "r-1" || ctx["deleted"] != int64(2) {
		t.Errorf("unexpected context %v", ctx)
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error("ignored")
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() = %v", err)
	}
}
