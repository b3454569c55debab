package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/cache"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/config"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/logging"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/repository"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/service"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/transport/rest"
	"github.com/xXK1NGSLAY3RXx/Online-Pong/internal/transport/ws"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logging.New(cfg.LogFile)
	defer log.Sync()

	ctx := context.Background()

	// MongoDB connection (the external match store)
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Info("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection (match record cache)
	redisAddr := cfg.RedisURI
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}
	log.Info("Connected to Redis")

	// Wire up the core.
	matchRepo := repository.NewMatchRepo(db)
	matchCache := cache.NewMatchCache(rdb)
	matchStore := service.NewMatchStore(matchRepo, matchCache, log)

	registry := service.NewSessionRegistry(log)
	registry.SetStatusNotifier(matchStore)
	registry.StartMonitor()

	tokens := service.NewTokenService(cfg.JWTSecret)
	games := service.NewGameService(matchStore, registry, tokens, log)

	hub := ws.NewHub(log)
	registry.SetBroadcaster(hub)
	games.SetBroadcaster(hub)

	wsHandler := ws.NewHandler(hub, games, log)

	router := rest.NewRouter(&rest.Container{
		Config:      cfg,
		GameService: games,
		WSHandler:   wsHandler,
		Log:         log,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		log.Info("Endpoints:")
		log.Info("  POST /notifyGameCreated")
		log.Info("  POST /notifyGameJoined")
		log.Info("  GET  /ws")
		log.Info("  GET  /health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	registry.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
