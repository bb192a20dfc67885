package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and runs them as Hub clients.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Kiosk displays connect from any origin on the household LAN
		})
		if err != nil {
			slog.Warn("websocket accept", "error", err)
			return
		}

		newClient(hub, conn).run(r.Context())
	}
}
