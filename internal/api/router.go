package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dchgoh/SWE30003-ART-System/internal/api/middleware"
)

func NewRouter(h *Handlers, redisClient *redis.Client, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Get("/trips", h.ListTrips)
	r.Get("/trips/{id}", h.GetTrip)
	r.With(middleware.Authenticate(jwtSecret), middleware.RequireAdmin).Post("/trips", h.CreateTrip)

	authed := func(r chi.Router) chi.Router {
		return r.With(middleware.Authenticate(jwtSecret))
	}

	// Both sagas sit behind the idempotency guard: a retried booking or
	// refund with the same key must not run twice.
	authed(r).With(middleware.Idempotency(redisClient)).Post("/bookings", h.CreateBooking)
	authed(r).Get("/bookings", h.ListBookings)
	authed(r).With(middleware.Idempotency(redisClient)).Post("/orders/{id}/refund", h.RefundOrder)

	authed(r).Post("/feedback", h.SubmitFeedback)
	authed(r).Get("/notifications", h.ListNotifications)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.RequireAdmin)

		r.Get("/feedback", h.ListFeedback)
		r.Post("/feedback/{id}/response", h.RespondFeedback)
		r.Get("/routes", h.ListRoutes)
		r.Get("/routes/{id}", h.RouteDetails)
		r.Put("/stops/{id}/location", h.UpdateStopLocation)
	})

	return r
}
