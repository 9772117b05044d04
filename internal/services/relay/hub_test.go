package relay

import (
	"testing"
	"time"
)

// TestRegisterAfterShutdown はシャットダウン後の接続登録がブロックしないことをテストします。
// Runループ停止後のregisterチャネルには受け手がいないため、登録せずに戻る必要があります。
func TestRegisterAfterShutdown(t *testing.T) {
	h := NewHub()
	h.Shutdown()

	done := make(chan struct{})
	go func() {
		h.RegisterClient("late-display", nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected RegisterClient to return after shutdown, but it blocked")
	}

	if count := h.ClientCount(); count != 0 {
		t.Errorf("Expected 0 clients after shutdown, but got %d", count)
	}
}

// TestShutdownClosesClients はシャットダウンで全クライアントのSendチャネルが閉じることをテストします。
func TestShutdownClosesClients(t *testing.T) {
	h := NewHub()

	client := &DisplayClient{
		ID:   "display-1",
		Send: make(chan []byte, 16),
	}
	h.register <- client

	h.Shutdown()

	// Runループのquit処理がSafeCloseを呼ぶのを待つ
	deadline := time.After(time.Second)
	for {
		client.mu.Lock()
		closed := client.closed
		client.mu.Unlock()
		if closed {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Expected client channel to be closed after shutdown")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
