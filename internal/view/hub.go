package view

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans out view-invalidation events to subscribed clients. Mutation
// services call Invalidate after a successful write; the presentation
// layer decides what to refresh. Redis pub/sub carries events across
// instances.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	View string
	Send chan []byte
}

// event is the wire format. Origin carries the publishing hub's id so an
// instance can drop its own Redis echo; it never reaches clients.
type event struct {
	View   string `json:"view"`
	Origin string `json:"origin,omitempty"`
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(viewName string) *Client {
	client := &Client{
		View: viewName,
		Send: make(chan []byte, 16),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[viewName] == nil {
		h.clients[viewName] = map[*Client]struct{}{}
	}
	h.clients[viewName][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if viewClients, ok := h.clients[client.View]; ok {
		delete(viewClients, client)
		if len(viewClients) == 0 {
			delete(h.clients, client.View)
		}
	}
	close(client.Send)
}

// Invalidate notifies every subscriber of viewName. Slow subscribers
// drop the event rather than block the writer.
func (h *Hub) Invalidate(ctx context.Context, viewName string) {
	payload, _ := json.Marshal(event{View: viewName})
	h.fanOut(viewName, payload)

	if h.redis != nil {
		wire, _ := json.Marshal(event{View: viewName, Origin: h.id})
		if err := h.redis.Publish(ctx, redisChannel(viewName), wire).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

// fanOut delivers under the read lock: Unregister holds the write lock
// to remove and close a client, so no send can hit a closed channel.
func (h *Hub) fanOut(viewName string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[viewName] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "views:*:invalidate")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var ev event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			continue
		}
		if ev.Origin == h.id {
			// already fanned out locally on publish
			continue
		}
		viewName := ev.View
		if viewName == "" {
			viewName = viewFromChannel(msg.Channel)
		}
		payload, _ := json.Marshal(event{View: viewName})
		h.fanOut(viewName, payload)
	}
}

func redisChannel(viewName string) string {
	return "views:" + viewName + ":invalidate"
}

func viewFromChannel(ch string) string {
	// views:{view}:invalidate
	const prefix = "views:"
	const suffix = ":invalidate"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
