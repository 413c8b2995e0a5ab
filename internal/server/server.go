// Package server streams the menu to browsers over a websocket. The menu is
// stepped by a single loop goroutine; pointer and resize messages from
// clients are queued and applied between ticks.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/letterfall/internal/menu"
)

const (
	DefaultAddr      = ":8080"
	DefaultInboxSize = 256
	shutdownTimeout  = 5 * time.Second
)

//go:embed index.html
var indexHTML []byte

type Options struct {
	Addr      string
	Dt        float64
	Labels    []string
	InboxSize int
	Logger    *log.Logger
}

type Server struct {
	menu *menu.Menu
	addr string
	dt   float64
	log  *log.Logger

	upgrader websocket.Upgrader
	inbox    chan Inbound

	mu      sync.Mutex
	clients map[*SafeWriter]struct{}
	hello   Hello

	// Owned by the loop goroutine.
	seq    int
	events []EventMessage
}

func New(m *menu.Menu, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Dt <= 0 {
		opts.Dt = 1.0 / 60
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = DefaultInboxSize
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Server{
		menu: m,
		addr: opts.Addr,
		dt:   opts.Dt,
		log:  opts.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		inbox:   make(chan Inbound, opts.InboxSize),
		clients: make(map[*SafeWriter]struct{}),
		hello: Hello{
			Type:    TypeHello,
			Variant: m.Variant().Name,
			Labels:  append([]string(nil), opts.Labels...),
			Width:   m.Viewport().W,
			Height:  m.Viewport().H,
			Dt:      opts.Dt,
		},
	}
	m.OnEvent(func(e menu.Event) {
		s.events = append(s.events, EventMessage{
			Kind:   e.Kind.String(),
			Time:   e.Time,
			Label:  e.Label,
			Letter: e.Letter,
		})
	})
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexHTML)
	})
	return mux
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := NewSafeWriter(conn)

	s.mu.Lock()
	hello := s.hello
	s.mu.Unlock()
	if err := c.WriteJSON(hello); err != nil {
		s.log.Warn("hello failed", "remote", conn.RemoteAddr(), "err", err)
		_ = c.Close()
		return
	}

	s.add(c)
	defer s.remove(c)
	s.log.Info("client connected", "remote", conn.RemoteAddr())

	for {
		data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("client read failed", "remote", conn.RemoteAddr(), "err", err)
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil || !in.valid() {
			_ = c.WriteJSON(ErrorMessage{Type: TypeError, Message: fmt.Sprintf("invalid message: %s", data)})
			continue
		}
		select {
		case s.inbox <- in:
		default:
			s.log.Warn("inbox full, dropping message", "type", in.Type)
		}
	}
}

func (s *Server) add(c *SafeWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) remove(c *SafeWriter) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if ok {
		_ = c.Close()
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	clients := s.clients
	s.clients = make(map[*SafeWriter]struct{})
	s.mu.Unlock()
	for c := range clients {
		_ = c.Close()
	}
}

// step applies queued client messages, advances the menu one tick and
// broadcasts the resulting frame.
func (s *Server) step() {
	s.drain()
	s.menu.Tick(s.dt)
	s.broadcast()
}

func (s *Server) drain() {
	for {
		select {
		case in := <-s.inbox:
			s.apply(in)
		default:
			return
		}
	}
}

func (s *Server) apply(in Inbound) {
	switch in.Type {
	case TypePointer:
		if in.Action == ActionClick {
			s.menu.Click(in.X, in.Y)
		} else {
			s.menu.PointerMove(in.X, in.Y)
		}
	case TypeResize:
		s.menu.Resize(in.Width, in.Height)
		s.mu.Lock()
		s.hello.Width, s.hello.Height = s.menu.Viewport().W, s.menu.Viewport().H
		s.mu.Unlock()
	case TypeReset:
		s.menu.Reset()
	}
}

func (s *Server) broadcast() {
	events := s.events
	s.events = nil

	s.mu.Lock()
	clients := make([]*SafeWriter, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	if len(clients) == 0 {
		return
	}

	s.seq++
	msg := encodeFrame(s.menu, s.seq, events)
	for _, c := range clients {
		if err := c.WriteJSON(msg); err != nil {
			s.log.Debug("dropping client", "err", err)
			s.remove(c)
		}
	}
}

func (s *Server) loop(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.dt * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.step()
		}
	}
}

// Run serves HTTP and steps the menu until ctx is cancelled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("serving", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen %s: %w", s.addr, err)
		}
		return nil
	})
	g.Go(func() error { return s.loop(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		s.closeAll()
		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	return g.Wait()
}
