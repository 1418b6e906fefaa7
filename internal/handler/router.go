package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	chatHandler "github.com/Puspa222/Hack4SafeFood/internal/handler/chat"
	voiceHandler "github.com/Puspa222/Hack4SafeFood/internal/handler/voice"
	middlewarePkg "github.com/Puspa222/Hack4SafeFood/internal/middleware"
	"github.com/Puspa222/Hack4SafeFood/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatH *chatHandler.Handler, voiceH *voiceHandler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		chatH.RegisterRoutes(api)
		if voiceH != nil {
			voiceH.RegisterRoutes(api)
		}
	})

	return r
}
