package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Route("/player", func(r chi.Router) {
			r.Get("/", c.getPlayer)
			r.Post("/play", c.play)
			r.Post("/pause", c.pause)
			r.Post("/resume", c.resume)
			r.Post("/stop", c.stop)
			r.Post("/seek", c.seek)
			r.Post("/volume", c.setVolume)
			r.Post("/next", c.next)
			r.Route("/playlist", func(r chi.Router) {
				r.Get("/", c.getPlaylist)
				r.Post("/", c.addVideo)
			})
		})
		r.Get("/ws", c.serveWS)
	})

	return r
}
