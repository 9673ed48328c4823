package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestMiddleware_WrapSuccess(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)
	mw := NewMiddleware(NewNoopTracer(), NewNoopMetrics(), logger)

	called := false
	fn := mw.Wrap(func(ctx context.Context, device DeviceMeta) (string, error) {
		called = true
		return "0", nil
	})

	value, err := fn(context.Background(), DeviceMeta{Target: "10.0.0.1:4352", Command: "POWR"})
	if err != nil {
		t.Fatalf("wrapped fn error = %v", err)
	}
	if !called {
		t.Error("wrapped function was not called")
	}
	if value != "0" {
		t.Errorf("value = %q, want 0", value)
	}

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "command exchange completed" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[0]["pjlink.command"] != "POWR" {
		t.Errorf("pjlink.command = %v, want POWR", entries[0]["pjlink.command"])
	}
}

func TestMiddleware_WrapError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)
	mw := NewMiddleware(NewNoopTracer(), NewNoopMetrics(), logger)

	wantErr := errors.New("projector unavailable")
	fn := mw.Wrap(func(ctx context.Context, device DeviceMeta) (string, error) {
		return "", wantErr
	})

	_, err := fn(context.Background(), DeviceMeta{Target: "t", Command: "POWR"})
	if !errors.Is(err, wantErr) {
		t.Errorf("wrapped fn error = %v, want %v", err, wantErr)
	}

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["level"] != "error" {
		t.Errorf("level = %v, want error", entries[0]["level"])
	}
	if entries[0]["error"] != "projector unavailable" {
		t.Errorf("error field = %v", entries[0]["error"])
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "pjlink"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}

	fn := mw.Wrap(func(ctx context.Context, device DeviceMeta) (string, error) {
		return "OK", nil
	})
	if _, err := fn(context.Background(), DeviceMeta{Target: "t", Command: "AVMT"}); err != nil {
		t.Errorf("wrapped fn error = %v", err)
	}
}
