package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/atendeai/atende-platform/internal/http/handlers"
	httpmiddleware "github.com/atendeai/atende-platform/internal/http/middleware"
	"github.com/atendeai/atende-platform/internal/webchat"
	"github.com/atendeai/atende-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Webchat            *webchat.Handler
	AdminAppointments  *handlers.AdminAppointmentsHandler
	AdminInteractions  *handlers.AdminInteractionsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// MessageRate limits POST /webchat/message per IP. Zero disables.
	MessageRate  float64
	MessageBurst int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)

	if cfg.Webchat != nil {
		r.Route("/webchat", func(wc chi.Router) {
			wc.Get("/ws", cfg.Webchat.HandleWebSocket)
			wc.Get("/history", cfg.Webchat.HandleHistory)
			wc.Get("/widget.js", cfg.Webchat.HandleWidgetJS)

			post := wc.With()
			if cfg.MessageRate > 0 {
				post = wc.With(httpmiddleware.RateLimit(cfg.MessageRate, cfg.MessageBurst))
			}
			post.Post("/message", cfg.Webchat.HandleMessage)
		})
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		if cfg.AdminAppointments != nil {
			admin.Get("/appointments", cfg.AdminAppointments.List)
		}
		if cfg.AdminInteractions != nil {
			admin.Get("/interactions", cfg.AdminInteractions.List)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
