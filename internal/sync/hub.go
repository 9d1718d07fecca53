package sync

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

const (
	transportTCP = "tcp"
	transportWS  = "websocket"

	defaultQueueSize = 64
)

// subscriber is one connected client. Broadcasts land in queue and a
// per-connection writer drains it, so a slow client never blocks the hub.
type subscriber struct {
	transport string
	queue     chan []byte
}

type Hub struct {
	mu        sync.Mutex
	subs      map[*subscriber]struct{}
	queueSize int
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return newHub(defaultQueueSize)
}

func newHub(queueSize int) *Hub {
	return &Hub{
		subs:      make(map[*subscriber]struct{}),
		queueSize: queueSize,
	}
}

func (h *Hub) subscribe(transport string) *subscriber {
	s := &subscriber{transport: transport, queue: make(chan []byte, h.queueSize)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// unsubscribe closes the subscriber's queue. Safe to call more than once.
func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.queue)
}

// BroadcastJSON queues v, newline terminated, for every subscriber.
// Subscribers whose queue is full are dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[sync] marshal broadcast: %v", err)
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.queue <- b:
		default:
			log.Printf("[sync] dropping slow %s subscriber", s.transport)
			delete(h.subs, s)
			close(s.queue)
		}
	}
}

// Publish broadcasts a crawl event, stamping it if the caller did not.
func (h *Hub) Publish(ev CrawlEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.BroadcastJSON(ev)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	var st Stats
	for s := range h.subs {
		switch s.transport {
		case transportTCP:
			st.TCPClients++
		case transportWS:
			st.WSClients++
		}
	}
	return st
}

func (h *Hub) welcome(transport string) []byte {
	b, _ := json.Marshal(map[string]any{
		"type":      "welcome",
		"transport": transport,
		"clients":   h.Count(),
	})
	return append(b, '\n')
}
