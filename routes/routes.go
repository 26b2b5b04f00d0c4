package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/Dosada05/stacking-tournament/handlers"
	"github.com/Dosada05/stacking-tournament/middleware"
	"github.com/Dosada05/stacking-tournament/models"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Tournament   *handlers.TournamentHandler
	Registration *handlers.RegistrationHandler
	Team         *handlers.TeamHandler
	Record       *handlers.RecordHandler
	Results      *handlers.ResultsHandler
	WebSocket    *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret          []byte
	CORSAllowedOrigins []string
	// RecordRatePerSec limits record submissions per client IP. 0 disables the limit.
	RecordRatePerSec float64
	Metrics          http.Handler
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer)
	scorers := middleware.Authorize(models.RoleOrganizer, models.RoleJudge)

	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	router.Post("/auth/login", h.Auth.Login)
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты
		r.Get("/", h.Tournament.ListHandler)

		r.With(authenticate, organizerOnly).Post("/", h.Tournament.CreateHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetByIDHandler)
			r.With(authenticate, organizerOnly).Patch("/status", h.Tournament.UpdateStatusHandler)

			r.Route("/registrations", func(r chi.Router) {
				r.Get("/", h.Registration.ListHandler)
				r.Post("/", h.Registration.RegisterHandler)
				r.With(authenticate, organizerOnly).Patch("/{registrationID}/status", h.Registration.UpdateStatusHandler)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", h.Team.ListTeamsHandler)
				r.Group(func(r chi.Router) {
					r.Use(authenticate, organizerOnly)
					r.Post("/", h.Team.CreateTeamHandler)
					r.Post("/{teamID}/members/{participantID}/verify", h.Team.VerifyMemberHandler)
				})
			})

			r.Route("/records", func(r chi.Router) {
				r.Get("/", h.Record.ListHandler)
				r.Group(func(r chi.Router) {
					if opts.RecordRatePerSec > 0 {
						burst := int(opts.RecordRatePerSec)
						if burst < 1 {
							burst = 1
						}
						r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(rate.Limit(opts.RecordRatePerSec), burst)))
					}
					r.Use(authenticate, scorers)
					r.Post("/", h.Record.SubmitHandler)
				})
			})

			r.Route("/events/{eventID}", func(r chi.Router) {
				r.Get("/results", h.Results.ResultsHandler)
				r.Get("/brackets/{bracketID}/finalists", h.Results.FinalistsHandler)
				r.Get("/export", h.Results.ExportHandler)
				r.With(authenticate, organizerOnly).Post("/publish", h.Results.PublishHandler)
			})
		})
	})
}
