package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/andklim/contacts-be/internal/api/handlers"
	"github.com/andklim/contacts-be/internal/auth"
	"github.com/andklim/contacts-be/internal/config"
	"github.com/andklim/contacts-be/internal/mail"
	"github.com/andklim/contacts-be/internal/services"
	"github.com/andklim/contacts-be/internal/upload"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	authn *auth.Authenticator,
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	contactService services.ContactServiceProvider,
	eventService services.EventServiceProvider,
	avatarStore upload.AvatarStoreProvider,
	mailer mail.Mailer,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, eventService, tokens, authn, mailer)
	userHandler := handlers.NewUserHandler(userService, avatarStore, authn)
	contactHandler := handlers.NewContactHandler(contactService, eventService)
	eventHandler := handlers.NewEventHandler(eventService)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/confirmed_email/{token}", authHandler.ConfirmedEmail)
		r.Post("/request_email", authHandler.RequestEmail)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authn.Middleware())
		// No more than 10 requests per minute per client.
		r.With(httprate.LimitByIP(10, time.Minute)).Get("/me", userHandler.Me)
		r.Patch("/avatar", userHandler.UpdateAvatar)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Use(authn.Middleware())
		r.Get("/", contactHandler.List)
		r.Post("/", contactHandler.Create)
		r.Get("/upcoming-birthdays", contactHandler.UpcomingBirthdays)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", contactHandler.Get)
			r.Put("/", contactHandler.Update)
			r.Delete("/", contactHandler.Delete)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Use(authn.Middleware())
		r.Get("/", eventHandler.GetRecent)
	})

	return r
}
