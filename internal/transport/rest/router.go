package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/config"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/service"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/transport/rest/handler"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Config      *config.Config
	GameService *service.GameService
	WSHandler   *ws.Handler
	Log         *zap.SugaredLogger
}

// NewRouter creates the router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	notifyHandler := handler.NewNotifyHandler(c.GameService, c.Log)

	r.Use(corsMiddleware(c.Config))

	// Matchmaking collaborator notifications.
	r.HandleFunc("/notifyGameCreated", notifyHandler.GameCreated).Methods("POST", "OPTIONS")
	r.HandleFunc("/notifyGameJoined", notifyHandler.GameJoined).Methods("POST", "OPTIONS")

	// Player connections.
	r.HandleFunc("/ws", c.WSHandler.ServeWS).Methods("GET")

	// Health checks.
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Application is healthy"))
	}).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.CORSAllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.CORSAllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
