package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(profileHandler *ProfileHandler, viewer func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/{profile}", func(r chi.Router) {
		r.Use(viewer)
		r.Use(ScopeOutbox)

		r.Get("/", profileHandler.Mount)
		r.Get("/view", profileHandler.View)
		r.Post("/follow", profileHandler.Follow)
		r.Post("/share", profileHandler.Share)

		r.Route("/polls/{pollID}", func(r chi.Router) {
			r.Post("/vote", profileHandler.Vote)
			r.Post("/like", profileHandler.Like)
			r.Delete("/", profileHandler.DeletePoll)
		})
	})

	return r
}
