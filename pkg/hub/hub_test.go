package hub

import (
	"testing"
	"time"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

// newTestClient registers a client that has no websocket connection behind
// it. Its send channel stands in for the write pump.
func newTestClient(h *Hub, buffer int) *Client {
	c := &Client{hub: h, send: make(chan Message, buffer)}
	h.register <- c
	return c
}

func TestHubRunSetsRunning(t *testing.T) {
	h := New("test")

	if h.IsRunning() {
		t.Error("hub reported running before Run was called")
	}

	go h.Run()

	waitFor(t, h.IsRunning, "hub never reported running")
}

func TestHubBroadcastFanOut(t *testing.T) {
	h := New("test")
	go h.Run()

	a := newTestClient(h, 4)
	b := newTestClient(h, 4)
	waitFor(t, func() bool { return h.ClientCount() == 2 }, "clients never registered")

	if err := h.BroadcastJSON(map[string]string{"event": "ping"}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			if msg.Type != JSONMessage {
				t.Errorf("expected JSON message, got type %d", msg.Type)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("client never received broadcast")
		}
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := New("test")
	go h.Run()

	// Unbuffered send channel with no reader: the first broadcast
	// cannot be queued and the hub must evict the client.
	newTestClient(h, 0)
	waitFor(t, func() bool { return h.ClientCount() == 1 }, "client never registered")

	h.BroadcastBinary([]byte{0, 0})

	waitFor(t, func() bool { return h.ClientCount() == 0 }, "slow client was never dropped")
}
