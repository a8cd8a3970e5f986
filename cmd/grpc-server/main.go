package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"cookingapp/internal/config"
	"cookingapp/internal/discovery"
	"cookingapp/internal/food"
	"cookingapp/internal/grpcserver"
	"cookingapp/internal/ingredient"
	"cookingapp/internal/logger"
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

	markets := discovery.NewRepo(db)
	recipes := recipe.NewRepo(db)
	// Promotions from this process are not broadcast; subscribers live on
	// the API server's hub.
	discoverySvc, closeCache, err := discovery.NewFromConfig(cfg.Discovery, markets, user.NewRepo(db), nil)
	if err != nil {
		log.Fatal("discovery setup failed", zap.Error(err))
	}
	defer closeCache()
	recipeSvc := recipe.NewService(recipes, ingredient.NewRepo(db), food.NewRepo(db), nil)

	listener, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatal("grpc listen failed", zap.Error(err))
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.UnaryLogger(log)))
	grpcserver.RegisterKitchenServer(srv, grpcserver.NewServer(discoverySvc, recipeSvc, markets))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		srv.GracefulStop()
	}()

	log.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
	if err := srv.Serve(listener); err != nil {
		log.Fatal("grpc server stopped", zap.Error(err))
	}
}
