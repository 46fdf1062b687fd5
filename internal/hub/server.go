package hub

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests to websocket connections and pumps inbound
// frames through the router. Each connection's frames are processed one at a
// time in arrival order; across connections, handling interleaves freely and
// the registry provides the linearization point.
type Server struct {
	router   *Router
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewServer creates the websocket endpoint handler.
func NewServer(router *Router, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The canvas client is served from the same origin; LAN use also
			// connects by bare IP, so origin is not checked.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger,
	}
}

// ServeHTTP implements the /ws endpoint.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ws, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", req.RemoteAddr, "err", err)
		return
	}

	c := s.router.HandleConnect(&wsTransport{ws: ws})
	defer func() {
		s.router.HandleDisconnect(c)
		c.closeTransport()
	}()

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		s.router.HandleFrame(c, data)
	}
}
