package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"curvemarket/market"
)

// Hub fans the engine's notification stream out to websocket subscribers.
// It implements market.EventSink; slow consumers get dropped rather than
// blocking the engine.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
	log  zerolog.Logger

	upgrader websocket.Upgrader
}

type subscriber struct {
	out chan []byte
}

const subscriberBuffer = 64

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[*subscriber]struct{}),
		log:  log.With().Str("component", "events").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Emit satisfies market.EventSink.
func (h *Hub) Emit(ev market.Event) {
	data, err := ev.MarshalJSON()
	if err != nil {
		h.log.Error().Err(err).Msg("event encode failed")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.out <- data:
		default:
			// drop the laggard, the feed is best-effort
			close(s.out)
			delete(h.subs, s)
		}
	}
}

// Handler upgrades the request and streams events until the peer goes away.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		s := &subscriber{out: make(chan []byte, subscriberBuffer)}
		h.mu.Lock()
		h.subs[s] = struct{}{}
		h.mu.Unlock()
		defer func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
		}()

		// reader goroutine just watches for the peer closing
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case data, ok := <-s.out:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}
	}
}

// MultiSink forwards each event to every child sink in order.
type MultiSink []market.EventSink

func (m MultiSink) Emit(ev market.Event) {
	for _, s := range m {
		s.Emit(ev)
	}
}

// LogSink writes the terse pipe-coded event lines to a zerolog logger.
type LogSink struct {
	Log zerolog.Logger
}

func (l LogSink) Emit(ev market.Event) {
	l.Log.Info().Str("event", ev.Line()).Msg("market event")
}
