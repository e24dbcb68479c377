package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"investchat/pkg/advisor"
	"investchat/pkg/mockanalysis"
)

// Options wires the router to its dependencies.
type Options struct {
	Service  *advisor.Service
	Analyzer *mockanalysis.Analyzer
	// Mode is reported by the health endpoint.
	Mode           string
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter builds the HTTP API router.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = mockanalysis.New(mockanalysis.Options{})
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{
		service:  opts.Service,
		analyzer: analyzer,
		mode:     opts.Mode,
		logger:   logger,
	}

	r.Get(healthPath, h.health)

	// Chat
	r.Post("/api/chatbot", h.chatbot)
	r.Get("/api/recommendations", h.recommendations)

	// Mock analysis engine
	r.Get("/api/v1", h.mockWelcome)
	r.Post("/api/v1/chatbot/query", h.mockQuery)

	return r
}

type handler struct {
	service  *advisor.Service
	analyzer *mockanalysis.Analyzer
	mode     string
	logger   *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	recordErrorMessage(w, message)
	writeJSON(w, status, map[string]string{"error": message})
}

// recordErrorMessage hands message to the request logger when it wraps w.
func recordErrorMessage(w http.ResponseWriter, message string) {
	if setter, ok := w.(interface{ SetErrorMessage(string) }); ok {
		setter.SetErrorMessage(message)
	}
}
