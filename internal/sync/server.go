package sync

import (
	"bufio"
	"errors"
	"log"
	"net"
	"sync"
	"time"
)

const writeTimeout = 2 * time.Second

// Server streams hub broadcasts to plain TCP clients as JSON lines.
type Server struct {
	Addr string
	Hub  *Hub

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	log.Printf("[tcp-sync] listening on %s", ln.Addr())
	return s.Serve(ln)
}

// Serve accepts clients until ln is closed.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("[tcp-sync] accept: %v", err)
			continue
		}
		go s.handle(conn)
	}
}

// Close stops accepting clients. Connected clients end when their hub
// subscription does.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

func (s *Server) handle(conn net.Conn) {
	sub := s.Hub.subscribe(transportTCP)
	log.Printf("[tcp-sync] client connected: %s", conn.RemoteAddr())
	defer func() {
		s.Hub.unsubscribe(sub)
		_ = conn.Close()
		log.Printf("[tcp-sync] client disconnected: %s", conn.RemoteAddr())
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			// incoming lines are ignored
		}
	}()

	if _, err := conn.Write(s.Hub.welcome(transportTCP)); err != nil {
		return
	}
	for {
		select {
		case msg, ok := <-sub.queue:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if _, err := conn.Write(msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
