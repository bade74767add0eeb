package logger

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStandardLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		log    func(l *StandardLogger)
		prefix string
		body   string
	}{
		{"info", func(l *StandardLogger) { l.Info("joined %s", "room") }, "[INFO]", "joined room"},
		{"warning", func(l *StandardLogger) { l.Warning("window %d missing", 2) }, "[WARNING]", "window 2 missing"},
		{"error", func(l *StandardLogger) { l.Error("leave: %v", "timeout") }, "[ERROR]", "leave: timeout"},
		{"critical", func(l *StandardLogger) { l.Critical("restarts %d/%d", 6, 5) }, "[CRITICAL]", "restarts 6/5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.log(NewStandardLogger(log.New(buf, "", 0)))
			out := buf.String()
			if !strings.Contains(out, tt.prefix) {
				t.Errorf("expected %s prefix, got: %s", tt.prefix, out)
			}
			if !strings.Contains(out, tt.body) {
				t.Errorf("expected %q in output, got: %s", tt.body, out)
			}
		})
	}
}

func TestFileLogger_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoattend.log")

	first, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	first.Info("first run")
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// second close is a no-op
	if err := first.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	second, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger (reopen): %v", err)
	}
	second.Error("second run")
	_ = second.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[INFO] first run") || !strings.Contains(out, "[ERROR] second run") {
		t.Fatalf("expected both runs in log file, got:\n%s", out)
	}
}

func TestNewFileLogger_BadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestToStdLogger_RoutesLinesToInfo(t *testing.T) {
	mock := NewMockLogger()
	std := ToStdLogger(mock)

	std.Println("rpc listening")
	std.Printf("line one\nline two\n")

	if len(mock.InfoCalls) != 3 {
		t.Fatalf("expected 3 info calls, got %d: %v", len(mock.InfoCalls), mock.InfoCalls)
	}
	if mock.InfoCalls[0] != "rpc listening" {
		t.Errorf("unexpected first line %q", mock.InfoCalls[0])
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("x")
	l.Warning("x")
	l.Error("x")
	l.Critical("x")
	if err := l.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestMockLogger_RecordsCalls(t *testing.T) {
	m := NewMockLogger()

	m.Info("info %d", 1)
	m.Warning("warn %s", "test")
	m.Error("err %v", "fail")
	m.Critical("crit")

	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "info 1" {
		t.Errorf("unexpected info calls: %v", m.InfoCalls)
	}
	if len(m.WarningCalls) != 1 || m.WarningCalls[0] != "warn test" {
		t.Errorf("unexpected warning calls: %v", m.WarningCalls)
	}
	if len(m.ErrorCalls) != 1 || m.ErrorCalls[0] != "err fail" {
		t.Errorf("unexpected error calls: %v", m.ErrorCalls)
	}
	if len(m.CriticalCalls) != 1 {
		t.Errorf("unexpected critical calls: %v", m.CriticalCalls)
	}
	if !m.Contains("fail") || m.Contains("absent") {
		t.Error("Contains reported wrong result")
	}
}

func TestMultiLogger_BroadcastsToAll(t *testing.T) {
	mock1 := NewMockLogger()
	mock2 := NewMockLogger()

	multi := NewMultiLogger(mock1, mock2)
	multi.Info("info msg")
	multi.Warning("warn msg")
	multi.Error("error msg")
	multi.Critical("critical msg")

	for i, m := range []*MockLogger{mock1, mock2} {
		if len(m.InfoCalls) != 1 || len(m.WarningCalls) != 1 || len(m.ErrorCalls) != 1 || len(m.CriticalCalls) != 1 {
			t.Errorf("logger %d missed messages: %+v", i, m)
		}
	}
}

// failingCloseLogger returns an error on Close().
type failingCloseLogger struct {
	NopLogger
	closeErr error
}

func (f *failingCloseLogger) Close() error {
	return f.closeErr
}

func TestMultiLogger_Close_ReturnsFirstError(t *testing.T) {
	err1 := errors.New("logger1 failed to close")
	err2 := errors.New("logger2 failed to close")
	mock := NewMockLogger()

	multi := NewMultiLogger(&failingCloseLogger{closeErr: err1}, mock, &failingCloseLogger{closeErr: err2})

	err := multi.Close()
	if !errors.Is(err, err1) {
		t.Errorf("expected first error %v, got %v", err1, err)
	}
	if !mock.CloseCalled {
		t.Error("expected mock logger to be closed even after first error")
	}
}

func TestMultiLogger_EmptyLoggers(t *testing.T) {
	multi := NewMultiLogger()
	multi.Info("test")
	multi.Critical("test")
	if err := multi.Close(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}
