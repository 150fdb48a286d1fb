package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the full route tree around a Handler.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)

	r.Get("/health", h.Health)
	r.Get("/stats", h.LockStatsHandler)

	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Route("/{eventID}", func(r chi.Router) {
			r.Get("/signup-counts", h.SignupCounts)
			r.Post("/roles", h.CreateRole)
			r.Route("/roles/{roleID}", func(r chi.Router) {
				r.Patch("/", h.UpdateRoleCapacity)
				r.Get("/availability", h.RoleAvailability)
				r.Get("/signups", h.ListRoleSignups)
				r.Post("/signups", h.SignUp)
				r.Post("/cancel", h.Cancel)
				r.Post("/move", h.Move)
				r.Post("/remove", h.AdminRemove)
			})
		})
	})

	return r
}

// accessLog writes one line per request with method, path, status and
// duration.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("%s %s status=%d bytes=%d duration=%s request_id=%s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Microsecond),
			chimiddleware.GetReqID(r.Context()),
		)
	})
}
