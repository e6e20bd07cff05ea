package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chatlens/chatlens/infrastructure/http/handler"
	"github.com/chatlens/chatlens/infrastructure/http/middleware"
	"github.com/chatlens/chatlens/infrastructure/service/logger"
)

type ServerConfig struct {
	Host                 string
	Port                 string
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

type Server struct {
	server *http.Server
	logger logger.Logger
}

type Handlers struct {
	Dashboard      *handler.DashboardHandler
	Feedback       *handler.FeedbackHandler
	Auth           *handler.AuthHandler
	UserManagement *handler.UserManagementHandler
}

func NewServer(
	config ServerConfig,
	handlers Handlers,
	authMW *middleware.AuthMiddleware,
	rateLimitMW *middleware.RateLimitMiddleware,
	log logger.Logger,
) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// Dashboard data endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary-data", authMW.RequireAuth(handlers.Dashboard.Summary)).Methods(http.MethodGet)
	api.HandleFunc("/problems-data", authMW.RequireAuth(handlers.Dashboard.Problems)).Methods(http.MethodGet)
	api.HandleFunc("/products", authMW.RequireAuth(handlers.Dashboard.Products)).Methods(http.MethodGet)
	api.HandleFunc("/agents-data", authMW.RequireAuth(handlers.Dashboard.Agents)).Methods(http.MethodGet)
	api.HandleFunc("/root-cause-data", authMW.RequireAuth(handlers.Dashboard.RootCauses)).Methods(http.MethodGet)
	api.HandleFunc("/feedback", authMW.RequireAuth(handlers.Feedback.Feedback)).Methods(http.MethodGet)
	api.HandleFunc("/feedback-details", authMW.RequireAuth(handlers.Feedback.FeedbackDetails)).Methods(http.MethodGet)

	// Aggregated report endpoints. The trend route registers first so the
	// {dimension} pattern doesn't swallow it.
	api.HandleFunc("/reports/agents/trend", authMW.RequireAuth(handlers.Dashboard.AgentTrend)).Methods(http.MethodGet)
	api.HandleFunc("/reports/{dimension}", authMW.RequireAuth(handlers.Dashboard.Report)).Methods(http.MethodGet)

	// Auth endpoints
	auth := router.PathPrefix("/v1/auth").Subrouter()
	auth.HandleFunc("/login", handlers.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", handlers.Auth.Refresh).Methods(http.MethodPost)
	auth.HandleFunc("/logout", authMW.RequireAuth(handlers.Auth.Logout)).Methods(http.MethodPost)
	auth.HandleFunc("/me", authMW.RequireAuth(handlers.Auth.Me)).Methods(http.MethodGet)

	// Admin user management
	admin := router.PathPrefix("/v1/admin").Subrouter()
	admin.HandleFunc("/users", authMW.RequireAdmin(handlers.UserManagement.ListUsers)).Methods(http.MethodGet)
	admin.HandleFunc("/users", authMW.RequireAdmin(handlers.UserManagement.CreateUser)).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", authMW.RequireAdmin(handlers.UserManagement.GetUser)).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", authMW.RequireAdmin(handlers.UserManagement.UpdateUser)).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}", authMW.RequireAdmin(handlers.UserManagement.DeleteUser)).Methods(http.MethodDelete)

	// Outermost first when reading top to bottom: recovery, correlation,
	// CORS, logging, rate limiting.
	var root http.Handler = router
	if rateLimitMW != nil {
		root = rateLimitMW.RateLimit(root)
	}
	root = loggingMiddleware(log)(root)
	if config.CORSEnabled {
		root = middleware.CORSMiddleware(root, config.CORSAllowedOrigins, config.CORSAllowCredentials)
	}
	root = middleware.CorrelationIDMiddleware(root)
	root = recoveryMiddleware(log)(root)

	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      root,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: log,
	}
}

func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

func loggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info(r.Context(), "Request handled", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

func recoveryMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error(r.Context(), "Panic recovered", fmt.Errorf("%v", err), map[string]interface{}{
						"path": r.URL.Path,
					})
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
