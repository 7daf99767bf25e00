// Package wsrouter dispatches typed JSON messages read from a
// websocket connection to registered handlers.
package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage)

type WSRouter struct {
	routes map[string]HandlerFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// ServeConn reads messages until the connection fails and routes each
// one by its type. Unknown types are reported back on the connection.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		if handler, ok := r.routes[msg.Type]; ok {
			handler(ctx, conn, msg.Payload)
		} else {
			conn.WriteJSON(map[string]string{"error": "unknown message type"})
		}
	}
}
