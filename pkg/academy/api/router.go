package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/campuskit/academy/pkg/academy"
)

// NewRouter assembles the full HTTP surface of the service: the versioned
// API, the health check and the metrics endpoint.
func NewRouter(service academy.Service) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{orphanedHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", MetricsHandler())

	gallery := NewGalleryHandler(service)
	blog := NewBlogHandler(service)
	users := NewUserHandler(service)
	catalog := NewCatalogHandler(service)
	inquiry := NewInquiryHandler(service)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/gallery", gallery.Routes())
		r.Mount("/blogs", blog.Routes())
		r.Mount("/users", users.Routes())
		r.Mount("/courses", catalog.Routes())
		r.Mount("/batches", catalog.BatchRoutes())
		r.Mount("/quotes", inquiry.QuoteRoutes())
		r.Mount("/newsletter", inquiry.NewsletterRoutes())
	})

	return r
}
