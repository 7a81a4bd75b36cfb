package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/copa-samurai/tournament-api/handlers"
	"github.com/copa-samurai/tournament-api/middleware"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Dojo        *handlers.DojoHandler
	Sensei      *handlers.SenseiHandler
	Participant *handlers.ParticipantHandler
	Team        *handlers.TeamHandler
	Category    *handlers.CategoryHandler
	Bracket     *handlers.BracketHandler
}

func InitRoutes(h Handlers, jwtSecret string, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Route("/api", func(api chi.Router) {
		api.Post("/login", h.Auth.Login)

		// Read-only view for spectators, no authentication.
		api.Get("/brackets/public/{token}", h.Bracket.GetByPublicToken)

		api.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/change-password", h.Auth.ChangePassword)

			r.Route("/dojos", func(r chi.Router) {
				r.Get("/", h.Dojo.List)
				r.Get("/{id}", h.Dojo.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Dojo.Create)
					r.Put("/{id}", h.Dojo.Update)
					r.Put("/{id}/logo", h.Dojo.UploadLogo)
					r.Delete("/{id}", h.Dojo.Delete)
				})
			})

			r.Route("/senseis", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", h.Sensei.List)
				r.Post("/", h.Sensei.Create)
				r.Put("/{id}", h.Sensei.Update)
				r.Delete("/{id}", h.Sensei.Delete)
			})

			r.Route("/participantes", func(r chi.Router) {
				r.Get("/", h.Participant.List)
				r.Get("/{id}", h.Participant.GetByID)
				r.Post("/", h.Participant.Create)
				r.Put("/{id}", h.Participant.Update)
				r.Delete("/{id}", h.Participant.Delete)
			})

			r.Route("/equipos", func(r chi.Router) {
				r.Get("/", h.Team.List)
				r.Get("/{id}", h.Team.GetByID)
				r.Post("/", h.Team.Create)
				r.Put("/{id}", h.Team.Update)
				r.Delete("/{id}", h.Team.Delete)
			})

			r.Route("/categorias", func(r chi.Router) {
				r.Get("/", h.Category.List)
				r.Get("/{id}", h.Category.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Category.Create)
					r.Put("/{id}", h.Category.Update)
					r.Delete("/{id}", h.Category.Delete)
				})
			})

			r.Route("/brackets", func(r chi.Router) {
				r.Get("/", h.Bracket.List)
				r.Get("/{id}", h.Bracket.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/generate", h.Bracket.GenerateAll)
					r.Put("/{id}/match/{round}/{match}", h.Bracket.RecordResult)
					r.Put("/{id}/reset", h.Bracket.Reset)
					r.Put("/{id}/pairings", h.Bracket.SwapPairings)
					r.Put("/{id}/order", h.Bracket.Reorder)
					r.Post("/{id}/duplicate", h.Bracket.Duplicate)
					r.Delete("/{categoryID}", h.Bracket.DeleteByCategory)
				})
			})
		})
	})

	return router
}
