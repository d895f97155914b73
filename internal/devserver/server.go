package devserver

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/bookfinder/internal/http/response"
)

// Server serves the catalog REST contract.
type Server struct {
	catalog *Catalog
	router  *chi.Mux
	api     huma.API
	logger  *slog.Logger
}

// NewServer creates a server with all routes configured.
func NewServer(catalog *Catalog, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		catalog: catalog,
		router:  router,
		logger:  logger,
	}

	s.setupMiddleware()
	router.NotFound(response.NotFound(logger))
	router.MethodNotAllowed(response.MethodNotAllowed(logger))
	router.Get("/", s.handleRoot)

	humaConfig := huma.DefaultConfig("Book Recommender API", "1.0.0")
	humaConfig.OpenAPI.Info.Description = "Local stand-in for the book catalog and recommendation backend"
	s.api = humachi.New(router, humaConfig)
	registerErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API the routes are registered on.
func (s *Server) API() huma.API {
	return s.api
}

// handleRoot answers the API root with a welcome message.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"message": "Welcome to the Book Recommender API!",
		"books":   strconv.Itoa(s.catalog.Len()),
	}, s.logger)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}
