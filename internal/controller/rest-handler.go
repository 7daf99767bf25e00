package controller

import (
	"errors"
	"net/http"

	"github.com/castmirror/server/internal/service/player"
	"github.com/castmirror/server/pkg/rest"
)

type playInput struct {
	VideoId  string `json:"video_id" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}

func (c controller) play(w http.ResponseWriter, r *http.Request) {
	var req playInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.playerService.Play(r.Context(), &player.PlayParams{
		VideoId:  req.VideoId,
		Position: req.Position,
	}); err != nil {
		c.logger.InfoContext(r.Context(), "play failed", "error", err)
		switch {
		case errors.Is(err, player.ErrVideoNotFound):
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "video not found"})
		case errors.Is(err, player.ErrPlaySuperseded):
			rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"error": "play superseded"})
		default:
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.Snapshot()})
}

func (c controller) pause(w http.ResponseWriter, r *http.Request) {
	if err := c.playerService.Pause(r.Context()); err != nil {
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.Snapshot()})
}

func (c controller) resume(w http.ResponseWriter, r *http.Request) {
	if err := c.playerService.Resume(r.Context()); err != nil {
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.Snapshot()})
}

func (c controller) stop(w http.ResponseWriter, r *http.Request) {
	if err := c.playerService.Stop(r.Context()); err != nil {
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.Snapshot()})
}

type seekInput struct {
	Position int `json:"position" validate:"gte=0"`
}

func (c controller) seek(w http.ResponseWriter, r *http.Request) {
	var req seekInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.playerService.Seek(r.Context(), &player.SeekParams{Position: req.Position}); err != nil {
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.Snapshot()})
}

type setVolumeInput struct {
	Level int  `json:"level" validate:"gte=0,lte=100"`
	Muted bool `json:"muted"`
}

func (c controller) setVolume(w http.ResponseWriter, r *http.Request) {
	var req setVolumeInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if err := c.playerService.SetVolume(r.Context(), &player.SetVolumeParams{
		Level: req.Level,
		Muted: req.Muted,
	}); err != nil {
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.Snapshot()})
}

func (c controller) getPlayer(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.Snapshot()})
}

func (c controller) next(w http.ResponseWriter, r *http.Request) {
	videoId, err := c.playerService.Next(r.Context())
	if err != nil {
		if errors.Is(err, player.ErrPlaylistEmpty) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "playlist is empty"})
			return
		}
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"video_id": videoId,
		"player":   c.playerService.Snapshot(),
	}})
}

type addVideoInput struct {
	VideoId string `json:"video_id" validate:"required"`
}

func (c controller) addVideo(w http.ResponseWriter, r *http.Request) {
	var req addVideoInput
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.playerService.AddVideo(r.Context(), &player.AddVideoParams{VideoId: req.VideoId})
	if err != nil {
		if errors.Is(err, player.ErrPlaylistLimitReached) {
			rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"error": "playlist limit reached"})
			return
		}
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"added_video": resp.VideoId,
		"playlist":    resp.Playlist,
	}})
}

func (c controller) getPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := c.playerService.GetPlaylist(r.Context())
	if err != nil {
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": playlist})
}
