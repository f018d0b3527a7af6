package router

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/pkg/logger"
)

// WebSocket is an accepted WebSocket connection together with the request
// that opened it.
type WebSocket struct {
	*websocket.Conn
	Request *http.Request
}

// WebSocketEndpoint handles one WebSocket session. The connection is closed
// when it returns; a non-nil error closes it with status 1011.
type WebSocketEndpoint func(ws *WebSocket) error

const closeWait = time.Second

func (rt *Router) serveWebSocket(endpoint WebSocketEndpoint, w http.ResponseWriter, r *http.Request) error {
	if !websocket.IsWebSocketUpgrade(r) {
		return core.ErrNotFound
	}

	conn, err := rt.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has answered; a rejected handshake is the client's fault.
		rt.log.WarnContext(r.Context(), "websocket handshake rejected",
			logger.Error(err),
			slog.String("path", r.URL.Path),
			slog.String("origin", r.Header.Get("Origin")),
		)
		return nil
	}
	defer conn.Close()

	ws := &WebSocket{Conn: conn, Request: r}
	err = core.Catch(func() error { return endpoint(ws) })

	code := websocket.CloseNormalClosure
	var ce *websocket.CloseError
	switch {
	case err == nil:
	case errors.As(err, &ce):
		// peer already closed
		return nil
	default:
		code = websocket.CloseInternalServerErr
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, ""),
		time.Now().Add(closeWait))
	return err
}
