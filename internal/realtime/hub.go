package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Session is one connected viewer. Send is buffered; a session that cannot
// keep up is evicted rather than blocking the fan-out. Delivery is best
// effort, at most once per connection, with no redelivery after a drop.
type Session struct {
	Conn   *websocket.Conn
	Send   chan []byte
	Viewer Viewer
}

// Hub fans orders-feed events out to the sessions whose viewer filter matches.
type Hub struct {
	sessions   map[*Session]bool
	register   chan *Session
	unregister chan *Session
	events     chan Event
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[*Session]bool),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		events:     make(chan Event),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Register(s *Session) {
	h.register <- s
}

// Unregister tears the session down and closes its send channel. Called
// whenever the identifying session context ends, so a stale filter never
// leaks events to the wrong viewer after a logout or role switch.
func (h *Hub) Unregister(s *Session) {
	h.unregister <- s
}

func (h *Hub) Publish(ev Event) {
	h.events <- ev
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case s := <-h.register:
			h.mu.Lock()
			h.sessions[s] = true
			h.mu.Unlock()

		case s := <-h.unregister:
			h.mu.Lock()
			if h.sessions[s] {
				delete(h.sessions, s)
				close(s.Send)
			}
			h.mu.Unlock()

		case ev := <-h.events:
			h.mu.Lock()
			for s := range h.sessions {
				if !s.Viewer.Wants(ev) {
					continue
				}
				data, err := json.Marshal(s.Viewer.Notification(ev))
				if err != nil {
					log.Error().Err(err).Msg("hub: failed to marshal notification")
					continue
				}
				select {
				case s.Send <- data:
				default:
					close(s.Send)
					delete(h.sessions, s)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}
