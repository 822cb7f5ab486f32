package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mymai1208/AntiBot/internal/config"
	"github.com/mymai1208/AntiBot/internal/transport/http/handler"
	appmiddleware "github.com/mymai1208/AntiBot/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.ClientIP(cfg.TrustedProxies))
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthH := handler.NewHealthHandler()
	verifyH := handler.NewVerifyHandler(deps.Verification, cfg.TurnstileSiteKey)

	r.Get("/health-check/{action}", healthH.Ping)

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.PrivateLink)

		r.Get("/verify/{key}", verifyH.Page)
		r.Post("/complete_verify", verifyH.Complete)
	})

	return r
}
