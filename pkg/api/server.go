package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// NewRouter creates the router with all API routes configured
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Post("/logout", h.Logout)
			r.Get("/periods", h.ListPeriods)

			r.Get("/grid", h.GetGrid)
			r.Put("/grid", h.SaveGrid)
			r.Post("/grid/range", h.ApplyRange)

			r.Get("/workers", h.ListWorkers)

			r.Get("/report", h.GetReport)
			r.Get("/report.csv", h.GetReportCSV)
			r.Get("/report.xlsx", h.GetReportXLSX)
			r.Get("/summary", h.GetSummary)

			r.Route("/admin", func(r chi.Router) {
				r.Use(h.requireAdmin)

				r.Post("/workers", h.AddWorker)
				r.Post("/workers/active", h.SetWorkersActive)
				r.Put("/workers/{id}/shift", h.UpdateWorkerShift)
				r.Post("/import", h.ImportFile)
				r.Post("/import/sheets", h.ImportSheets)
				r.Post("/seed", h.Seed)
				r.Get("/db", h.DBStatus)
			})
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
