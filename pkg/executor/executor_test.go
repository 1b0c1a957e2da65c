package executor

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestExecuteCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell required")
	}

	out, err := New().Execute(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Execute() stdout = %q, want %q", out, "hello")
	}
}

func TestExecuteEmbedsStderrInError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell required")
	}

	_, err := New().Execute(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() error = nil, want failure")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Execute() error = %v, want stderr embedded", err)
	}
}

func TestExecuteContextCancellation(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New().Execute(ctx, "sleep", "5")
	if err == nil {
		t.Fatal("Execute() error = nil, want cancellation")
	}
	if !strings.Contains(err.Error(), "cancelled") {
		t.Errorf("Execute() error = %v, want cancellation reported", err)
	}
}

func TestLookPathMissingBinary(t *testing.T) {
	_, err := New().LookPath("definitely-not-a-real-binary-2f9c")
	if err == nil {
		t.Fatal("LookPath() error = nil, want not-found error")
	}
}
