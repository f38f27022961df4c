package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sentimentd/internal/metrics"
)

// NewRouter wires the API, the web UI and the shared middleware stack.
func NewRouter(api *Server, web *WebHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.Get("/health", api.HealthCheck)
	r.Get("/metrics", api.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/normalize", api.Normalize)
		r.Post("/analyze", api.Analyze)
		r.Get("/history", api.History)
		r.Post("/sessions", api.CreateSession)
		r.Delete("/sessions/current", api.EndSession)
		r.Post("/feedback", api.SubmitFeedback)
	})

	if web != nil {
		r.Get("/", web.HandleIndex)
		r.Post("/analyze", web.HandleAnalyze)
		r.Post("/feedback", web.HandleFeedback)
		r.Post("/session/end", web.HandleEndSession)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
