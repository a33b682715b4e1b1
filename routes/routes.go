package routes

import (
	"github.com/Manecharo/verzot-sub000/handlers"
	"github.com/Manecharo/verzot-sub000/middleware"
	"github.com/Manecharo/verzot-sub000/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	eventHandler *handlers.EventHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer, models.RoleAdmin)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты для просмотра турниров
		r.Get("/", tournamentHandler.ListTournamentsHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetTournamentHandler)
		r.Get("/{tournamentID}/matches", matchHandler.ListTournamentMatchesHandler)
		r.Get("/{tournamentID}/standings", standingsHandler.GetStandingsHandler)
		r.Get("/{tournamentID}/bracket", standingsHandler.GetBracketHandler)

		// Защищенные маршруты только для организаторов
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)

			r.Post("/", tournamentHandler.CreateTournamentHandler)
			r.Patch("/{tournamentID}/status", tournamentHandler.UpdateTournamentStatusHandler)
			r.Post("/{tournamentID}/badge", tournamentHandler.UploadTournamentBadgeHandler)
			r.Post("/{tournamentID}/schedule", tournamentHandler.GenerateScheduleHandler)
			r.Post("/{tournamentID}/bracket/seed", standingsHandler.SeedBracketHandler)
			r.Post("/{tournamentID}/bracket/advance", standingsHandler.AdvanceBracketHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatchHandler)
		r.Get("/{matchID}/events", eventHandler.MatchTimelineHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Patch("/{matchID}/status", matchHandler.UpdateMatchStatusHandler)
			r.Patch("/{matchID}/score", matchHandler.UpdateMatchScoreHandler)
			r.Post("/{matchID}/confirm", matchHandler.ConfirmMatchHandler)
			r.Post("/{matchID}/events", eventHandler.AddEventHandler)
			r.Delete("/{matchID}/events/{eventID}", eventHandler.RemoveEventHandler)
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
