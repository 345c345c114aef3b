package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/mindcanvas/mindcanvas-backend/internal/db"
	"github.com/mindcanvas/mindcanvas-backend/internal/handlers"
	"github.com/mindcanvas/mindcanvas-backend/internal/middleware"
	"github.com/mindcanvas/mindcanvas-backend/internal/observability"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/envutil"
	"github.com/mindcanvas/mindcanvas-backend/internal/platform/logger"
	"github.com/mindcanvas/mindcanvas-backend/internal/realtime"
	"github.com/mindcanvas/mindcanvas-backend/internal/realtime/bus"
	"github.com/mindcanvas/mindcanvas-backend/internal/repos"
	"github.com/mindcanvas/mindcanvas-backend/internal/server"
	"github.com/mindcanvas/mindcanvas-backend/internal/services"
	"github.com/mindcanvas/mindcanvas-backend/internal/types"

	"github.com/google/uuid"
)

const serviceName = "mindcanvas-backend"

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: envutil.String("ENVIRONMENT", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shutdownCtx); err != nil {
			log.Warn("otel shutdown", "error", err)
		}
	}()

	// Env
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	accessTokenTTL := envutil.Int("ACCESS_TOKEN_TTL", 3600)
	refreshTokenTTL := envutil.Int("REFRESH_TOKEN_TTL", 604800)
	port := envutil.String("PORT", "8080")

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	gdb := dbService.DB()

	// Repos
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)
	mapRepo := repos.NewStudyMapRepo(gdb, log)
	nodeRepo := repos.NewNodeRepo(gdb, log)
	relationRepo := repos.NewRelationRepo(gdb, log)
	folderRepo := repos.NewFolderRepo(gdb, log)
	deadlineRepo := repos.NewDeadlineRepo(gdb, log)
	viewportRepo := repos.NewViewportStateRepo(gdb, log)

	// Demo data
	if envutil.Bool("SEED_DEMO", false) {
		if err := seedDemo(ctx, log, dbService, userRepo); err != nil {
			log.Warn("Demo seed failed", "error", err)
		}
	}

	// Realtime hub + optional cross-instance bus
	hub := realtime.NewHub(log)
	var roomBus bus.Bus
	if envutil.String("REDIS_ADDR", "") != "" {
		roomBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Redis bus init failed", "error", err)
			os.Exit(1)
		}
		hub.SetPublisher(func(ev realtime.RoomEvent) {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := roomBus.Publish(pubCtx, ev); err != nil {
				log.Warn("bus publish failed", "error", err)
			}
		})
		if err := roomBus.StartForwarder(ctx, hub.ApplyRemote); err != nil {
			log.Error("Redis bus forwarder failed", "error", err)
			os.Exit(1)
		}
		defer roomBus.Close()
	}

	// Services
	authService := services.NewAuthService(
		gdb, log, userRepo, userTokenRepo,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(gdb, log, userRepo)
	mapService := services.NewStudyMapService(gdb, log, mapRepo, nodeRepo, relationRepo, viewportRepo)
	nodeService := services.NewNodeService(gdb, log, mapRepo, nodeRepo, relationRepo)
	relationService := services.NewRelationService(gdb, log, mapRepo, nodeRepo, relationRepo)
	folderService := services.NewFolderService(gdb, log, folderRepo, mapRepo)
	deadlineService := services.NewDeadlineService(gdb, log, deadlineRepo)
	viewportService := services.NewViewportService(gdb, log, mapRepo, viewportRepo)

	// Handlers + middleware
	authHandler := handlers.NewAuthHandler(log, authService)
	userHandler := handlers.NewUserHandler(log, userService)
	mapHandler := handlers.NewStudyMapHandler(log, mapService)
	nodeHandler := handlers.NewNodeHandler(log, nodeService)
	relationHandler := handlers.NewRelationHandler(log, relationService)
	folderHandler := handlers.NewFolderHandler(log, folderService)
	deadlineHandler := handlers.NewDeadlineHandler(log, deadlineService)
	viewportHandler := handlers.NewViewportHandler(log, viewportService)
	realtimeHandler := handlers.NewRealtimeHandler(log, hub)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ServiceName:     serviceName,
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		UserHandler:     userHandler,
		StudyMapHandler: mapHandler,
		NodeHandler:     nodeHandler,
		RelationHandler: relationHandler,
		FolderHandler:   folderHandler,
		DeadlineHandler: deadlineHandler,
		ViewportHandler: viewportHandler,
		RealtimeHandler: realtimeHandler,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}

// seedDemo makes sure the demo account and its starter map exist.
func seedDemo(ctx context.Context, log *logger.Logger, dbService *db.Service, userRepo repos.UserRepo) error {
	email := envutil.String("SEED_DEMO_EMAIL", "demo@mindcanvas.local")
	found, err := userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return err
	}
	var owner *types.User
	if len(found) > 0 && found[0] != nil {
		owner = found[0]
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(envutil.String("SEED_DEMO_PASSWORD", "demo-password")), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		owner = &types.User{
			ID:       uuid.New(),
			Name:     "Demo User",
			Email:    email,
			Password: string(hash),
		}
		if _, err := userRepo.Create(ctx, nil, []*types.User{owner}); err != nil {
			return err
		}
		log.Info("Demo user created", "email", email)
	}
	return dbService.SeedDemo(owner.ID)
}
