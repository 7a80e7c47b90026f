// Package ws provides the live state-sync server: it exposes one reflective
// object over a WebSocket, pushing member-state snapshots to every connected
// client on connect, on change and on a periodic refresh tick, and applying
// inbound member updates and method invocations through the reflective
// facade.
//
// The wire protocol is JSON frames. Inbound:
//
//	{"type":"update","field":"name","value":"Toto"}
//	{"type":"method","name":"setNameAndAge","args":["Toto","22"]}
//	{"type":"get","field":"age"}
//	{"type":"ping"}
//
// String values are coerced to the declared member or parameter tag before
// the facade is touched; coercion and facade failures are reported back as
// {"type":"error",...} frames and never crash the server.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/xaliphostes/introspection/core/box"
	"github.com/xaliphostes/introspection/core/introspect"
	"github.com/xaliphostes/introspection/core/metrics"
	"github.com/xaliphostes/introspection/core/perkey"
	"github.com/xaliphostes/introspection/internal/codec"
	"github.com/xaliphostes/introspection/ports/statepub"
)

// SubjectPrefix is the statepub subject prefix for state frames; the class
// name is appended.
const SubjectPrefix = "introspect.state"

// Options configures a Server. The zero value is usable: it listens on
// :8080, refreshes every second, publishes nowhere and logs to the default
// logger.
type Options struct {
	// Addr is the listen address for Run.
	Addr string
	// Refresh is the period of the out-of-band change scan. The server
	// rebroadcasts whenever the object's serialized state differs from the
	// last published one, catching mutations made outside the facade.
	Refresh time.Duration
	// Publisher receives every broadcast state frame. Defaults to a no-op.
	Publisher statepub.Publisher
	// Connections gauges the number of connected clients. Defaults to a
	// no-op.
	Connections metrics.Gauge
	// Log receives connection and apply events.
	Log *slog.Logger
}

// Server exposes one reflective object.
type Server struct {
	obj   *introspect.Object
	addr  string
	tick  time.Duration
	pub   statepub.Publisher
	gauge metrics.Gauge
	log   *slog.Logger

	// apply serializes all state mutations for the exposed object so
	// concurrent clients cannot interleave half-applied updates.
	apply *perkey.Scheduler[string]

	upgrader websocket.Upgrader

	mu        sync.Mutex
	clients   map[string]*client
	lastState []byte
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	// done is closed by dropClient; send itself is never closed, so a
	// broadcast racing a disconnect drops the frame instead of panicking.
	done chan struct{}
}

// NewServer creates a live-sync server around obj.
func NewServer(obj *introspect.Object, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}
	if opts.Publisher == nil {
		opts.Publisher = statepub.Nop()
	}
	if opts.Connections == nil {
		opts.Connections = metrics.NopGauge()
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	return &Server{
		obj:     obj,
		addr:    opts.Addr,
		tick:    opts.Refresh,
		pub:     opts.Publisher,
		gauge:   opts.Connections,
		log:     opts.Log.With(slog.String("class", obj.ClassName())),
		apply:   perkey.New[string](),
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			// The demo GUI is served from arbitrary hosts.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler: the GUI page at /, a REST snapshot at
// /api/object and the WebSocket endpoint at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/object", s.handleSnapshot)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run serves until ctx is cancelled, broadcasting state changes every
// refresh tick.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}

	go func() {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.broadcast(ctx, false)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.apply.Close()
	}()

	s.log.Info("live-sync server listening", slog.String("addr", s.addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	doc, err := s.stateDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(doc)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", slog.String("err", err.Error()))
		return
	}

	c := &client{
		id:   gonanoid.Must(8),
		conn: conn,
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c.id] = c
	total := len(s.clients)
	s.mu.Unlock()
	s.gauge.Inc()

	s.log.Info("client connected", slog.String("client", c.id), slog.Int("total", total))

	// Initial state push.
	if frame, err := s.stateFrameJSON(); err == nil {
		c.send <- frame
	}

	go c.writePump()
	s.readPump(r.Context(), c)
}

func (s *Server) readPump(ctx context.Context, c *client) {
	defer s.dropClient(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(c, errorFrame{Type: "error", Message: "malformed frame"})
			continue
		}
		if msg.ID == "" {
			msg.ID = uuid.NewString()
		}
		s.dispatch(ctx, c, msg)
	}
}

func (s *Server) dispatch(ctx context.Context, c *client, msg inbound) {
	switch msg.Type {
	case "update":
		s.handleUpdate(ctx, c, msg)
	case "method":
		s.handleMethod(ctx, c, msg)
	case "get":
		s.handleGet(c, msg)
	case "ping":
		s.reply(c, pongFrame{Type: "pong"})
	default:
		s.reply(c, errorFrame{Type: "error", ID: msg.ID, Message: fmt.Sprintf("unknown frame type %q", msg.Type)})
	}
}

func (s *Server) handleUpdate(ctx context.Context, c *client, msg inbound) {
	err := s.apply.DoContext(ctx, s.obj.ClassName(), func() error {
		m, ok := s.obj.Descriptor().Member(msg.Field)
		if !ok {
			return fmt.Errorf("member %q: %w", msg.Field, introspect.ErrNotFound)
		}
		v, err := coerce(m.Tag(), msg.Value)
		if err != nil {
			return err
		}
		return s.obj.SetMemberValue(msg.Field, v)
	})
	if err != nil {
		s.reply(c, errorFrame{Type: "error", ID: msg.ID, Message: err.Error()})
		return
	}

	s.log.Debug("member updated", slog.String("field", msg.Field), slog.String("client", c.id))
	s.broadcast(ctx, true)
}

func (s *Server) handleMethod(ctx context.Context, c *client, msg inbound) {
	var result json.RawMessage
	err := s.apply.DoContext(ctx, s.obj.ClassName(), func() error {
		m, ok := s.obj.Descriptor().Method(msg.Name)
		if !ok {
			return fmt.Errorf("method %q: %w", msg.Name, introspect.ErrNotFound)
		}
		params := m.Params()
		if len(msg.Args) != len(params) {
			return fmt.Errorf("method %q: %w: want %d, got %d",
				msg.Name, introspect.ErrArityMismatch, len(params), len(msg.Args))
		}
		args := make([]box.Box, 0, len(params))
		for i, raw := range msg.Args {
			v, err := coerce(params[i], raw)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i, err)
			}
			args = append(args, v)
		}
		out, err := s.obj.CallMethod(msg.Name, args...)
		if err != nil {
			return err
		}
		if !out.IsVoid() {
			result = codec.ScalarJSON(out)
		}
		return nil
	})
	if err != nil {
		s.reply(c, errorFrame{Type: "error", ID: msg.ID, Message: err.Error()})
		return
	}

	s.reply(c, methodFrame{Type: "method_success", ID: msg.ID, Method: msg.Name, Result: result})
	s.broadcast(ctx, true)
}

func (s *Server) handleGet(c *client, msg inbound) {
	v, err := s.obj.GetMemberValue(msg.Field)
	if err != nil {
		s.reply(c, errorFrame{Type: "error", ID: msg.ID, Message: err.Error()})
		return
	}
	s.reply(c, valueFrame{
		Type:  "value",
		ID:    msg.ID,
		Field: msg.Field,
		Tag:   string(v.Tag()),
		Value: codec.ScalarJSON(v),
	})
}

// stateDoc serializes the object's members through the facade.
func (s *Server) stateDoc() (stateDoc, error) {
	doc := stateDoc{
		ClassName: s.obj.ClassName(),
		Members:   make(map[string]memberState, len(s.obj.MemberNames())),
	}
	for _, name := range s.obj.MemberNames() {
		v, err := s.obj.GetMemberValue(name)
		if err != nil {
			return stateDoc{}, err
		}
		doc.Members[name] = memberState{
			Type:  string(v.Tag()),
			Value: codec.ScalarJSON(v),
		}
	}
	return doc, nil
}

func (s *Server) stateFrameJSON() ([]byte, error) {
	doc, err := s.stateDoc()
	if err != nil {
		return nil, err
	}
	return json.Marshal(stateFrame{Type: "state", stateDoc: doc})
}

// broadcast pushes the current state to every client and the publisher.
// Unless force is set, it is a no-op when the serialized state has not
// changed since the last broadcast.
func (s *Server) broadcast(ctx context.Context, force bool) {
	frame, err := s.stateFrameJSON()
	if err != nil {
		s.log.Error("state serialization failed", slog.String("err", err.Error()))
		return
	}

	s.mu.Lock()
	if !force && string(frame) == string(s.lastState) {
		s.mu.Unlock()
		return
	}
	s.lastState = frame
	targets := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		select {
		case c.send <- frame:
		default:
			// Slow consumer: skip this frame rather than block the
			// broadcast; the next tick delivers a fresh snapshot.
		}
	}

	if err := s.pub.Publish(ctx, SubjectPrefix+"."+s.obj.ClassName(), frame); err != nil {
		s.log.Warn("state publish failed", slog.String("err", err.Error()))
	}
}

func (s *Server) reply(c *client, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c.id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, c.id)
	total := len(s.clients)
	s.mu.Unlock()

	s.gauge.Dec()
	close(c.done)
	_ = c.conn.Close()
	s.log.Info("client disconnected", slog.String("client", c.id), slog.Int("total", total))
}

func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
