package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aquawatch/aquawatch/internal/pkg/logger"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func registerFake(t *testing.T, hub *Hub, buffer int) *Client {
	t.Helper()
	client := &Client{
		id:   "test-client",
		hub:  hub,
		send: make(chan []byte, buffer),
	}
	hub.register <- client
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	return client
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestBroadcastAnomaly_ZeroObservers(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	done := make(chan struct{})
	go func() {
		hub.BroadcastAnomaly(AnomalyEvent{StationID: "STN001", ReadingID: 1, AlertID: 1, Timestamp: time.Now()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastAnomaly() blocked with zero observers")
	}
}

func TestBroadcastAnomaly_DeliversToAllObservers(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	a := &Client{id: "a", hub: hub, send: make(chan []byte, 4)}
	b := &Client{id: "b", hub: hub, send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	event := AnomalyEvent{StationID: "STN001", ReadingID: 42, AlertID: 7, Timestamp: time.Now().UTC()}
	hub.BroadcastAnomaly(event)

	for _, client := range []*Client{a, b} {
		select {
		case raw := <-client.send:
			var msg struct {
				Type    string       `json:"type"`
				Payload AnomalyEvent `json:"payload"`
			}
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("unmarshal broadcast: %v", err)
			}
			if msg.Type != "anomaly_alert" {
				t.Errorf("type = %q, want anomaly_alert", msg.Type)
			}
			if msg.Payload.StationID != "STN001" || msg.Payload.ReadingID != 42 || msg.Payload.AlertID != 7 {
				t.Errorf("payload = %+v, want event referencing reading 42 and alert 7", msg.Payload)
			}
		case <-time.After(time.Second):
			t.Fatalf("observer %s did not receive broadcast", client.id)
		}
	}
}

func TestHub_UnregisterDuringEmission(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	// A full send buffer simulates a session going away mid-broadcast;
	// the hub must drop it without raising an error to the emitter.
	client := registerFake(t, hub, 0)
	_ = client

	done := make(chan struct{})
	go func() {
		hub.BroadcastAnomaly(AnomalyEvent{StationID: "STN001", Timestamp: time.Now()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastAnomaly() blocked on a dead session")
	}

	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub, cancel := newTestHub(t)
	defer cancel()

	client := registerFake(t, hub, 4)

	hub.unregister <- client
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	// Unregistering an unknown session is a no-op
	hub.unregister <- &Client{id: "ghost", hub: hub, send: make(chan []byte, 1)}
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}
