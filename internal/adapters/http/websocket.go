package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/fogtrail/internal/adapters/nats"
	"github.com/samirrijal/fogtrail/internal/pkg/metrics"
)

const (
	wsPingInterval = 30 * time.Second
	wsChannelAll   = "all"
)

// wsSubjects maps client channels onto NATS subjects.
var wsSubjects = map[string]string{
	"reveals":    natsadapter.SubjectReveal,
	"progress":   natsadapter.SubjectProgress,
	"levelups":   natsadapter.SubjectLevelUp,
	wsChannelAll: natsadapter.SubjectAll,
}

// wsRequest is sent by clients: {"action":"subscribe","channel":"levelups"}.
// An empty channel means "all".
type wsRequest struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

type wsReply struct {
	Status  string `json:"status,omitempty"`
	Channel string `json:"channel,omitempty"`
	Error   string `json:"error,omitempty"`
}

// wsEnvelope tags a relayed payload with the subject it arrived on.
type wsEnvelope struct {
	Subject string          `json:"subject"`
	Data    json.RawMessage `json:"data"`
}

// wsSession is one connected client and its NATS subscriptions, keyed by
// channel. While "all" is active the narrower channels are not subscribed
// so no event is delivered twice.
type wsSession struct {
	conn *websocket.Conn
	nc   *nats.Conn
	log  *slog.Logger

	writeMu sync.Mutex
	subs    map[string]*nats.Subscription
}

// WebSocketHandler relays exploration events from NATS to connected clients.
// New connections start subscribed to "all".
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		s := &wsSession{
			conn: c,
			nc:   nc,
			log:  slog.Default().With("remote", c.RemoteAddr().String()),
			subs: make(map[string]*nats.Subscription),
		}
		s.log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		defer s.close()

		if r := s.subscribe(wsChannelAll); r.Error != "" {
			s.log.Error("ws default subscribe failed", "error", r.Error)
			return
		}

		done := make(chan struct{})
		defer close(done)
		go s.keepAlive(done)

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				return
			}
			var req wsRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				_ = s.send(wsReply{Error: "invalid JSON"})
				continue
			}
			if req.Channel == "" {
				req.Channel = wsChannelAll
			}

			var reply wsReply
			switch req.Action {
			case "subscribe":
				reply = s.subscribe(req.Channel)
			case "unsubscribe":
				reply = s.unsubscribe(req.Channel)
			default:
				reply = wsReply{Error: "unknown action: " + req.Action}
			}
			_ = s.send(reply)
		}
	}
}

func (s *wsSession) subscribe(channel string) wsReply {
	subject, ok := wsSubjects[channel]
	if !ok {
		return wsReply{Error: "unknown channel: " + channel}
	}
	if _, ok := s.subs[channel]; ok {
		return wsReply{Status: "already subscribed", Channel: channel}
	}
	if _, ok := s.subs[wsChannelAll]; ok {
		return wsReply{Status: "covered by all", Channel: channel}
	}

	sub, err := s.nc.Subscribe(subject, s.relay)
	if err != nil {
		return wsReply{Error: "subscribe failed: " + err.Error()}
	}
	if channel == wsChannelAll {
		for name, narrow := range s.subs {
			_ = narrow.Unsubscribe()
			delete(s.subs, name)
		}
	}
	s.subs[channel] = sub
	return wsReply{Status: "subscribed", Channel: channel}
}

func (s *wsSession) unsubscribe(channel string) wsReply {
	sub, ok := s.subs[channel]
	if !ok {
		return wsReply{Error: "not subscribed to " + channel}
	}
	_ = sub.Unsubscribe()
	delete(s.subs, channel)
	return wsReply{Status: "unsubscribed", Channel: channel}
}

func (s *wsSession) relay(msg *nats.Msg) {
	if err := s.send(wsEnvelope{Subject: msg.Subject, Data: json.RawMessage(msg.Data)}); err != nil {
		s.log.Debug("ws relay failed", "subject", msg.Subject, "error", err)
	}
}

// send serializes writes from the read loop, NATS callbacks and pings.
func (s *wsSession) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *wsSession) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *wsSession) close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Close()
	s.log.Info("ws client disconnected")
}
