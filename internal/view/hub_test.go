package view

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubInvalidate(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("dashboard")
	defer hub.Unregister(client)

	other := hub.Register("trip:42")
	defer hub.Unregister(other)

	hub.Invalidate(context.Background(), "dashboard")

	select {
	case msg := <-client.Send:
		if string(msg) != `{"view":"dashboard"}` {
			t.Fatalf("unexpected payload: %s", msg)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for invalidation")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("unrelated view received %s", msg)
	default:
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("trip:42:budget")
	if ch != "views:trip:42:budget:invalidate" {
		t.Fatalf("unexpected channel: %s", ch)
	}
	if viewFromChannel(ch) != "trip:42:budget" {
		t.Fatalf("unexpected view name")
	}
	if viewFromChannel("bad") != "" {
		t.Fatalf("expected empty view name")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("profile")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestSlowSubscriberDropsEvent(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("dashboard")
	defer hub.Unregister(client)

	// fill the buffer; the extra invalidation must not block
	for i := 0; i < cap(client.Send)+5; i++ {
		hub.Invalidate(context.Background(), "dashboard")
	}
}

func TestHubRedisPublishAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("trip:7")
	defer hub.Unregister(ws)

	hub.Invalidate(context.Background(), "trip:7")

	select {
	case msg := <-ws.Send:
		if string(msg) != `{"view":"trip:7"}` {
			t.Fatalf("unexpected payload: %s", msg)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for invalidation")
	}

	// the hub's own publish echoes back through redis but must not be
	// delivered a second time
	select {
	case msg := <-ws.Send:
		t.Fatalf("duplicate delivery: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}

	// a publish from another instance reaches local subscribers
	time.Sleep(20 * time.Millisecond)
	if err := client.Publish(context.Background(), "views:trip:7:invalidate", `{"view":"trip:7"}`).Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case msg := <-ws.Send:
		if string(msg) != `{"view":"trip:7"}` {
			t.Fatalf("unexpected payload from redis: %s", msg)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for redis message")
	}
}

func TestHubConcurrentInvalidateAndUnregister(t *testing.T) {
	hub := NewHub(nil)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			client := hub.Register("dashboard")
			hub.Unregister(client)
		}()
		go func() {
			defer wg.Done()
			hub.Invalidate(context.Background(), "dashboard")
		}()
	}
	wg.Wait()
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	node := hub.Register("dashboard")
	defer hub.Unregister(node)

	hub.Invalidate(context.Background(), "dashboard")

	select {
	case <-node.Send:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("local delivery should survive a redis outage")
	}
}
