package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/scriberly/scriberly-be/internal/api/handlers"
	"github.com/scriberly/scriberly-be/internal/auth"
	"github.com/scriberly/scriberly-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(articles services.ArticleServiceProvider, users services.UserServiceProvider,
	content services.ContentProvider, files services.FileStoreProvider,
	activity services.ActivityServiceProvider, locale, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users)
	dashboardHandler := handlers.NewDashboardHandler(articles, users, content, files, activity, locale)
	profileHandler := handlers.NewProfileHandler(users, activity, locale)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Every dashboard route requires an authenticated session.
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(auth.JWTMiddleware())

		r.Get("/", dashboardHandler.Homepage)
		r.Get("/article_detail/{slug}", dashboardHandler.ArticleDetail)
		r.Get("/create_article", dashboardHandler.CreateArticleForm)
		r.Post("/create_article", dashboardHandler.CreateArticle)
		r.Get("/history", dashboardHandler.History)
		r.Get("/profile", profileHandler.Profile)
		r.Post("/profile", profileHandler.SubmitProfile)
		r.Get("/subscription", profileHandler.Subscription)
		r.Post("/subscription", profileHandler.SubmitSubscription)
	})

	return r
}
