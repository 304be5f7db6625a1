package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rerolab/9-life/config"
	"github.com/rerolab/9-life/game"
	"github.com/rerolab/9-life/logger"
	"github.com/rerolab/9-life/maps"
	"github.com/rerolab/9-life/migrations"
	"github.com/rerolab/9-life/room"
	"github.com/rerolab/9-life/storage"
	"github.com/rs/zerolog/log"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func RegisterRoutes(r *gin.Engine, h *game.GameHandler) {
	r.GET("/ws", h.WebsocketHandler)

	api := r.Group("/api")
	api.GET("/room/:id", h.GetRoomHandler)
	api.GET("/rooms", h.GetPublicRoomsHandler)
	api.GET("/maps", h.GetMapsHandler)
	api.GET("/results", h.GetResultsHandler)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	if !cfg.LogPretty {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog := maps.NewCatalog(cfg.MapsDir)
	managerOpts := room.Options{
		MaxPlayers: cfg.MaxPlayers,
		MaxRooms:   cfg.MaxRooms,
		Maps:       catalog,
	}
	handlerOpts := game.HandlerOptions{
		MessageRate:  cfg.MessageRate,
		MessageBurst: cfg.MessageBurst,
		Maps:         catalog,
	}

	var repo *storage.PostgresRepo
	if cfg.ArchiveEnabled() {
		if err := migrations.Migrate(cfg.PostgresURL); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate results archive")
		}
		repo, err = storage.NewPostgresRepo(context.Background(), cfg.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to results archive")
		}
		defer repo.Close()
		managerOpts.Recorder = repo
		handlerOpts.Results = repo
	} else {
		log.Warn().Msg("POSTGRES_URL not set, game results will not be archived")
	}

	manager := room.NewManager(managerOpts)
	gameHandler := game.NewGameHandler(manager, handlerOpts)

	r := CreateServer(cfg.AllowedOrigins)
	RegisterRoutes(r, gameHandler)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("addr", cfg.Addr()).Strs("maps", catalog.IDs()).Msg("server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh
	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutdown signal received, draining rooms")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if err := manager.Shutdown(ctx); err != nil {
		log.Error().Err(err).Int("rooms", manager.RoomCount()).Msg("rooms did not drain in time")
	}
	log.Info().Msg("shutting down now")
}
