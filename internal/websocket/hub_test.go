package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a client with a send channel but no real connection.
func mockClient(hub *Hub) *client {
	return &client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)

	hub.register(c1)
	hub.register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.register(c)
	hub.unregister(c)
	// Should not panic
	hub.unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.register(c1)
	hub.register(c2)

	msg := NewMessage("chore", "toggled", "c1", map[string]any{"done": true})
	hub.Broadcast(msg)

	for _, c := range []*client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "chore_toggled" {
				t.Errorf("expected type chore_toggled, got %s", got.Type)
			}
			if got.Entity != "chore" {
				t.Errorf("expected entity chore, got %s", got.Entity)
			}
			if got.ID != "c1" {
				t.Errorf("expected id c1, got %s", got.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	hub.unregister(c1)
	hub.unregister(c2)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	msg := NewMessage("chore", "toggled", "c1", nil)
	hub.Broadcast(msg)
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub)
	hub.register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewMessage("meal", "upserted", fmt.Sprintf("m%d", i), nil))
	}

	// This should drop the message, not panic or block
	hub.Broadcast(NewMessage("meal", "dropped", "overflow", nil))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("reward", "approved", "r5", nil)
	if msg.Type != "reward_approved" {
		t.Errorf("expected type reward_approved, got %s", msg.Type)
	}
	if msg.Entity != "reward" {
		t.Errorf("expected entity reward, got %s", msg.Entity)
	}
	if msg.Action != "approved" {
		t.Errorf("expected action approved, got %s", msg.Action)
	}
	if msg.ID != "r5" {
		t.Errorf("expected id r5, got %s", msg.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.register(c)
			hub.Broadcast(NewMessage("user", "updated", "", nil))
			for {
				select {
				case <-c.send:
				default:
					hub.unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
