package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"enterprise-rag/internal/handlers"
	"enterprise-rag/internal/rag"
	"enterprise-rag/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      rag.Engine
	Pipeline    handlers.Ingester
	Evaluator   handlers.Evaluator
	VectorStore vectorstore.VectorStore
	Collection  string
	AppName     string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection, deps.AppName)
	uploadHandler := handlers.NewUploadHandler(deps.Pipeline)
	chatHandler := handlers.NewChatHandler(deps.Engine)
	sessionHandler := handlers.NewSessionHandler(deps.Engine)
	sourcesHandler := handlers.NewSourcesHandler(deps.Pipeline)
	evaluateHandler := handlers.NewEvaluateHandler(deps.Evaluator)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/upload", uploadHandler)
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Delete("/chat/session/{session_id}", sessionHandler.ServeHTTP)
		r.Method(http.MethodGet, "/sources", sourcesHandler)
		r.Method(http.MethodPost, "/evaluate", evaluateHandler)
	})

	return r
}
