package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"studybuddy/internal/handlers"
	"studybuddy/internal/rag"
	"studybuddy/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine   *rag.Engine
	DocStore storage.DocumentStore // may be nil when no catalog database is configured
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)

	// Add CORS middleware
	r.Use(CORS)

	healthHandler := handlers.NewHealthHandler(deps.Engine)
	queryHandler := handlers.NewQueryHandler(deps.Engine)
	searchHandler := handlers.NewSearchHandler(deps.Engine)
	departmentsHandler := handlers.NewDepartmentsHandler(deps.Engine)
	documentsHandler := handlers.NewDocumentsHandler(deps.DocStore)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodGet, "/subjects", departmentsHandler)
		r.Method(http.MethodGet, "/departments", departmentsHandler)
		r.Method(http.MethodGet, "/documents", documentsHandler)
	})

	// Health and service info at root
	r.Method(http.MethodGet, "/", healthHandler)

	return r
}
