package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/noteflow-ai/noteflow/internal/service/content"
)

// Server exposes the ingestion pipeline over HTTP
type Server struct {
	contents content.Service
	logger   zerolog.Logger
	httpSrv  *http.Server
}

// New creates a Server listening on addr
func New(addr string, contents content.Service, logger zerolog.Logger) *Server {
	s := &Server{
		contents: contents,
		logger:   logger,
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/upload", s.handleUploadAudio).Methods(http.MethodPost)
	api.HandleFunc("/upload-book", s.handleUploadBook).Methods(http.MethodPost)
	api.HandleFunc("/upload-video", s.handleUploadVideo).Methods(http.MethodPost)
	api.HandleFunc("/process-youtube", s.handleProcessYouTube).Methods(http.MethodPost)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/result/{id:[0-9]+}", s.handleResult).Methods(http.MethodGet)
	api.HandleFunc("/result/{id:[0-9]+}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/chat/{id:[0-9]+}", s.handleChat).Methods(http.MethodPost)

	var handler http.Handler = r
	handler = s.requestID(handler)
	handler = s.requestLog(handler)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins()),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Owner-ID"}),
	)(handler)
	return handler
}

// ListenAndServe blocks until the server stops
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routed handler (for tests)
func (s *Server) Handler() http.Handler {
	return s.routes()
}

type contextKey string

const requestIDKey contextKey = "request_id"

// requestID tags every request with a UUID for log correlation
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestIDFrom(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func allowedOrigins() []string {
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		return []string{origins}
	}
	return []string{"*"}
}
