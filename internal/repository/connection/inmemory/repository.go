package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/castmirror/server/internal/repository/connection"
)

type repo struct {
	mu       sync.RWMutex
	connList map[*websocket.Conn]struct{}
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*websocket.Conn]struct{}),
	}
}

func (r *repo) Add(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connList[conn]; ok {
		return connection.ErrAlreadyExists
	}
	r.connList[conn] = struct{}{}

	return nil
}

func (r *repo) Remove(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connList[conn]; !ok {
		return connection.ErrNotFound
	}
	conn.Close()
	delete(r.connList, conn)

	return nil
}

func (r *repo) GetConns() []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*websocket.Conn, 0, len(r.connList))
	for conn := range r.connList {
		conns = append(conns, conn)
	}

	return conns
}
