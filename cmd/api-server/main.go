package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"cookingapp/internal/config"
	"cookingapp/internal/discovery"
	"cookingapp/internal/events"
	"cookingapp/internal/food"
	"cookingapp/internal/httpx"
	"cookingapp/internal/ingredient"
	"cookingapp/internal/logger"
	"cookingapp/internal/metrics"
	"cookingapp/internal/recipe"
	"cookingapp/internal/user"
	"cookingapp/pkg/database"
)

func main() {
	env := config.GetEnv()
	cfg := config.MustLoad(env)

	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(database.Config{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	if env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), httpx.RequestLogger(log), metrics.Middleware())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := events.NewHub(log)
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(cfg.Events.TCPAddr, hub)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": db.Driver()})
	})
	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	users := user.NewRepo(db)
	foods := food.NewRepo(db)
	ingredients := ingredient.NewRepo(db)
	recipes := recipe.NewRepo(db)
	markets := discovery.NewRepo(db)

	discoverySvc, closeCache, err := discovery.NewFromConfig(cfg.Discovery, markets, users, hub)
	if err != nil {
		log.Fatal("discovery setup failed", zap.Error(err))
	}
	defer closeCache()

	recipeSvc := recipe.NewService(recipes, ingredients, foods, hub)
	ingredientSvc := ingredient.NewService(ingredients, hub)
	foodSvc := food.NewService(db, foods, recipeSvc, recipes, hub)

	api := router.Group("/api")
	recipe.NewHandler(recipeSvc).RegisterRoutes(api.Group("/recipes"))
	ingredient.NewHandler(ingredientSvc, discoverySvc).RegisterRoutes(api.Group("/ingredients"))
	food.NewHandler(foodSvc).RegisterRoutes(api.Group("/foods"))
	user.NewHandler(users).RegisterRoutes(api.Group("/users"))
	discovery.NewHandler(markets).RegisterRoutes(api.Group("/markets"))

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("HTTP API server listening", zap.String("addr", httpSrv.Addr), zap.String("env", env))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	log.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	if err := tcpSrv.Close(); err != nil {
		log.Error("tcp shutdown error", zap.Error(err))
	}

	wg.Wait()
	log.Info("servers stopped")
}
