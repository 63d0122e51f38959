package api

import (
	"net/http"

	"github.com/dzmb1k/niaspo-kurs/internal/api/middleware"
	"github.com/dzmb1k/niaspo-kurs/internal/infrastructure/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func NewRouter(h *Handlers, tokens *auth.TokenManager, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		// Validator terminals authenticate out of band, not with user
		// sessions.
		r.Post("/tickets/{id}/validate", h.ValidateTicket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens))

			r.Get("/verify", h.Verify)

			r.Get("/tickets", h.ListTickets)
			r.With(middleware.Idempotency(redisClient)).Post("/tickets", h.CreateTicket)
			r.Get("/tickets/{id}", h.GetTicket)

			r.Get("/payments", h.ListPayments)
			r.Post("/payments", h.CreatePayment)
			r.Get("/payments/{id}", h.GetPayment)
		})
	})

	return r
}
