package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{hub: hub, userID: userID, send: make(chan []byte, 16)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload := <-c.send:
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("unexpected event: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRoutesToUserRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := newTestClient(hub, 1)
	aliceOther := newTestClient(hub, 1)
	bob := newTestClient(hub, 2)
	hub.register <- alice
	hub.register <- aliceOther
	hub.register <- bob

	hub.Notify(1, "A new transaction was added")

	for _, c := range []*Client{alice, aliceOther} {
		ev := receive(t, c)
		if ev.Event != EventTransactionUpdated {
			t.Errorf("expected event %q, got %q", EventTransactionUpdated, ev.Event)
		}
		data, _ := json.Marshal(ev.Data)
		var n Notification
		if err := json.Unmarshal(data, &n); err != nil {
			t.Fatalf("failed to decode notification: %v", err)
		}
		if n.UserID != 1 {
			t.Errorf("expected user_id 1, got %d", n.UserID)
		}
		if n.Message != "A new transaction was added" {
			t.Errorf("unexpected message %q", n.Message)
		}
	}

	// Other users' rooms stay quiet
	expectSilence(t, bob)
}

func TestHubNotifyWithoutListeners(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Must not block or panic with no one registered
	hub.Notify(42, "nobody is listening")
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 7)
	hub.register <- client
	hub.unregister <- client

	// The send channel is closed on unregister
	select {
	case _, open := <-client.send:
		if open {
			t.Error("expected send channel closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	hub.Notify(7, "after unregister")
}
