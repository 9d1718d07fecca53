// Package notify pushes crawl results to UDP listeners. A listener sends a
// register datagram and from then on receives one JSON datagram per stored
// series and per finished run.
package notify

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"
	"sync"

	synchub "mangaparsers/internal/sync"
	"mangaparsers/pkg/models"
)

const (
	RegisterMessageType   = "register"
	UnregisterMessageType = "unregister"
)

// RegisterMessage subscribes the sending address. An empty Source means all sources.
type RegisterMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"client_id"`
	Source   string `json:"source,omitempty"`
}

type Client struct {
	ClientID string
	Source   models.Source
	Addr     *net.UDPAddr
}

func (c Client) wants(ev synchub.CrawlEvent) bool {
	return c.Source == "" || c.Source == ev.Source
}

type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

func (r *Registry) Register(c Client) {
	if c.ClientID == "" || c.Addr == nil {
		return
	}
	r.mu.Lock()
	r.clients[c.ClientID] = c
	r.mu.Unlock()
}

func (r *Registry) Remove(clientID string) {
	r.mu.Lock()
	delete(r.clients, clientID)
	r.mu.Unlock()
}

func (r *Registry) Snapshot() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	return clients
}

type Server struct {
	addr     string
	registry *Registry
	logger   *log.Logger

	mu     sync.RWMutex
	conn   *net.UDPConn
	closed bool
}

func NewServer(addr string, registry *Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{addr: addr, registry: registry, logger: logger}
}

// Run listens on the configured address until Close.
func (s *Server) Run() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	return s.Serve(conn)
}

// Serve reads register datagrams from conn. It returns nil once conn is closed.
func (s *Server) Serve(conn *net.UDPConn) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return conn.Close()
	}
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	s.logger.Printf("[notify] UDP server listening on %s", conn.LocalAddr())

	buffer := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		msg, err := parseRegisterMessage(buffer[:n])
		if err != nil {
			s.logger.Printf("[notify] invalid message from %s: %v", addr, err)
			continue
		}
		switch msg.Type {
		case RegisterMessageType:
			s.registry.Register(Client{
				ClientID: msg.ClientID,
				Source:   models.Source(strings.ToUpper(strings.TrimSpace(msg.Source))),
				Addr:     addr,
			})
			s.logger.Printf("[notify] registered %s (%s)", msg.ClientID, addr)
		case UnregisterMessageType:
			s.registry.Remove(msg.ClientID)
		}
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// Publish forwards stored-series and run-finished events. Progress noise
// (started, failed) stays on the stream feeds.
func (s *Server) Publish(ev synchub.CrawlEvent) {
	if ev.Type != synchub.EventCrawlManga && ev.Type != synchub.EventCrawlFinished {
		return
	}
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Printf("[notify] marshal %s: %v", ev.Type, err)
		return
	}
	for _, client := range s.registry.Snapshot() {
		if client.wants(ev) {
			s.sendWithRetry(conn, client, payload)
		}
	}
}

func (s *Server) sendWithRetry(conn *net.UDPConn, client Client, payload []byte) {
	if err := sendOnce(conn, client, payload); err == nil {
		return
	}
	if err := sendOnce(conn, client, payload); err != nil {
		s.logger.Printf("[notify] drop %s at %s: %v", client.ClientID, client.Addr, err)
		s.registry.Remove(client.ClientID)
	}
}

func sendOnce(conn *net.UDPConn, client Client, payload []byte) error {
	if client.Addr == nil {
		return errors.New("missing client address")
	}
	_, err := conn.WriteToUDP(payload, client.Addr)
	return err
}

func parseRegisterMessage(data []byte) (RegisterMessage, error) {
	var msg RegisterMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	if msg.ClientID == "" || msg.Type == "" {
		return msg, errors.New("missing required fields")
	}
	return msg, nil
}
