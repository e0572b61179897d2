package notifiers

import (
	"context"
	"testing"
	"time"

	"github.com/tetexact/ssacore/internal/ssa"
)

func TestWebSocketNotifierIDTypeAndNotify(t *testing.T) {
	wsn := NewWebSocketNotifier("ws1")
	defer wsn.Close()

	if wsn.ID() != "ws1" || wsn.Type() != "websocket" {
		t.Errorf("unexpected ID/Type: %s/%s", wsn.ID(), wsn.Type())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := wsn.Notify(ctx, ssa.FiringEvent{RunID: "run-1", Kind: "diff"}); err != nil {
		t.Fatalf("Notify with no connected clients should not fail, got %v", err)
	}
}

func TestWebSocketNotifierCloseSucceeds(t *testing.T) {
	wsn := NewWebSocketNotifier("ws2")
	if err := wsn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
