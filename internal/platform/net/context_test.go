package net

import (
	"context"
	"testing"
)

func TestWithRequest(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Fatalf("RequestID = %q", got)
	}
	if got := RequestID(WithRequest(context.Background(), "")); got != "" {
		t.Fatalf("empty id should not be stored, got %q", got)
	}
}

func TestWithRun(t *testing.T) {
	ctx := WithRun(context.Background(), "3f0c")
	if got := RunID(ctx); got != "3f0c" {
		t.Fatalf("RunID = %q", got)
	}
	if got := RunID(context.Background()); got != "" {
		t.Fatalf("RunID on bare ctx = %q", got)
	}
}
