package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/castmirror/server/internal/domain"
	"github.com/castmirror/server/internal/service/player"
	"github.com/castmirror/server/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// serveWS upgrades the connection, subscribes it to snapshot events and
// serves inbound control messages until the client goes away.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	if err := c.connRepo.Add(conn); err != nil {
		c.logger.InfoContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}

	// the current state is sent immediately so a new subscriber does
	// not wait for the next transition
	conn.WriteJSON(Output{Type: "PLAYER_STATE", Payload: c.playerService.Snapshot()})

	if err := c.getWSRouter().ServeConn(r.Context(), conn); err != nil {
		c.connRepo.Remove(conn)
	}
}

func (c controller) getWSRouter() *wsrouter.WSRouter {
	r := wsrouter.New()

	r.Handle("PLAY", c.handlePlay)
	r.Handle("PAUSE", c.handlePause)
	r.Handle("RESUME", c.handleResume)
	r.Handle("STOP", c.handleStop)
	r.Handle("SEEK", c.handleSeek)
	r.Handle("VOLUME", c.handleSetVolume)
	r.Handle("ADD_VIDEO", c.handleAddVideo)

	return r
}

func (c controller) broadcastSnapshot(snapshot domain.Snapshot) {
	output := Output{Type: "PLAYER_STATE", Payload: snapshot}
	for _, conn := range c.connRepo.GetConns() {
		if err := conn.WriteJSON(output); err != nil {
			c.logger.Info("failed to write snapshot, dropping connection", "error", err)
			c.connRepo.Remove(conn)
		}
	}
}

func (c controller) writeWSError(conn *websocket.Conn, err error) {
	conn.WriteJSON(Output{Type: "ERROR", Payload: map[string]string{"error": err.Error()}})
}

func (c controller) handlePlay(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input playInput
	if err := json.Unmarshal(payload, &input); err != nil {
		c.writeWSError(conn, err)
		return
	}

	if err := c.playerService.Play(ctx, &player.PlayParams{
		VideoId:  input.VideoId,
		Position: input.Position,
	}); err != nil {
		c.writeWSError(conn, err)
	}
}

func (c controller) handlePause(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	if err := c.playerService.Pause(ctx); err != nil {
		c.writeWSError(conn, err)
	}
}

func (c controller) handleResume(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	if err := c.playerService.Resume(ctx); err != nil {
		c.writeWSError(conn, err)
	}
}

func (c controller) handleStop(ctx context.Context, conn *websocket.Conn, _ json.RawMessage) {
	if err := c.playerService.Stop(ctx); err != nil {
		c.writeWSError(conn, err)
	}
}

func (c controller) handleSeek(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input seekInput
	if err := json.Unmarshal(payload, &input); err != nil {
		c.writeWSError(conn, err)
		return
	}

	if err := c.playerService.Seek(ctx, &player.SeekParams{Position: input.Position}); err != nil {
		c.writeWSError(conn, err)
	}
}

func (c controller) handleSetVolume(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input setVolumeInput
	if err := json.Unmarshal(payload, &input); err != nil {
		c.writeWSError(conn, err)
		return
	}

	if err := c.playerService.SetVolume(ctx, &player.SetVolumeParams{
		Level: input.Level,
		Muted: input.Muted,
	}); err != nil {
		c.writeWSError(conn, err)
	}
}

func (c controller) handleAddVideo(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	var input addVideoInput
	if err := json.Unmarshal(payload, &input); err != nil {
		c.writeWSError(conn, err)
		return
	}

	resp, err := c.playerService.AddVideo(ctx, &player.AddVideoParams{VideoId: input.VideoId})
	if err != nil {
		c.writeWSError(conn, err)
		return
	}

	conn.WriteJSON(Output{Type: "VIDEO_ADDED", Payload: map[string]any{
		"added_video": resp.VideoId,
		"playlist":    resp.Playlist,
	}})
}
