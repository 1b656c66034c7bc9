package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"
)

func capture(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(Config{Level: level, Format: "json", Component: ComponentHTTP, Output: &buf}), &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return rec
}

func TestFromContext(t *testing.T) {
	logger, _ := capture(slog.LevelInfo)
	ctx := NewContext(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got == nil || got.component != ComponentApp {
		t.Errorf("fallback logger = %+v", got)
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{503, "ERROR"},
	}
	for _, tt := range tests {
		logger, buf := capture(slog.LevelDebug)
		r := httptest.NewRequest("GET", "/products?page=2", nil)
		NewStructuredLogger(logger).LogHTTPEnd(context.Background(), r, tt.status, 12, "10.0.0.1")

		rec := decodeRecord(t, buf)
		if rec["level"] != tt.want {
			t.Errorf("status %d logged at %v, want %s", tt.status, rec["level"], tt.want)
		}
		if rec[FieldComponent] != ComponentHTTP || rec[FieldStatusCode] != float64(tt.status) {
			t.Errorf("status %d record = %v", tt.status, rec)
		}
	}
}

func TestLogRowSkipped(t *testing.T) {
	logger, buf := capture(slog.LevelInfo)
	NewStructuredLogger(logger).LogRowSkipped(context.Background(), "solar_projects", "US-2024-0003", errors.New("negative amount"))

	rec := decodeRecord(t, buf)
	if rec[FieldSource] != "solar_projects" || rec[FieldRowID] != "US-2024-0003" || rec[FieldReason] != "negative amount" {
		t.Errorf("record = %v", rec)
	}
}
