package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lucashenrq/pedeja/internal/realtime"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

func (h *WSHandler) RegisterRoutes(router chi.Router) {
	router.Get("/ws", h.handleSubscribe)
}

// handleSubscribe opens one order-feed subscription for the session. The
// viewer variant is chosen once here, from the connecting identity: partners
// subscribe by store_id to new orders, clients by client_id to status
// updates. The subscription lives exactly as long as the socket; a login,
// logout or role switch on the client side reconnects with fresh params.
func (h *WSHandler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	viewer, err := viewerFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	session := &realtime.Session{
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Viewer: viewer,
	}
	h.hub.Register(session)

	go writePump(session)
	go readPump(session, h.hub)
}

func viewerFromQuery(r *http.Request) (realtime.Viewer, error) {
	role := r.URL.Query().Get("role")
	switch role {
	case "partner":
		storeID, err := uuid.FromString(r.URL.Query().Get("store_id"))
		if err != nil {
			return nil, errInvalidSubscription
		}
		return realtime.PartnerViewer{StoreID: storeID}, nil
	case "client":
		clientID, err := uuid.FromString(r.URL.Query().Get("client_id"))
		if err != nil {
			return nil, errInvalidSubscription
		}
		return realtime.ClientViewer{ClientID: clientID}, nil
	default:
		return nil, errInvalidSubscription
	}
}

type subscriptionError string

func (e subscriptionError) Error() string { return string(e) }

const errInvalidSubscription = subscriptionError("role must be client or partner with a matching id")

func writePump(s *realtime.Session) {
	defer s.Conn.Close()
	for msg := range s.Send {
		if err := s.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the feed is one-way. Its job is noticing
// the close and releasing the subscription so stale filters never linger.
func readPump(s *realtime.Session, hub *realtime.Hub) {
	defer func() {
		hub.Unregister(s)
		s.Conn.Close()
	}()
	for {
		if _, _, err := s.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
