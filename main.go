package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	apirest "github.com/warchest-gg/server/api/rest"
	"github.com/warchest-gg/server/api/sse"
	"github.com/warchest-gg/server/audit"
	"github.com/warchest-gg/server/cache"
	"github.com/warchest-gg/server/config"
	dbadapter "github.com/warchest-gg/server/db"
	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/ledger"
	"github.com/warchest-gg/server/game/lobby"
	mw "github.com/warchest-gg/server/middleware"
	"github.com/warchest-gg/server/model"
	"github.com/warchest-gg/server/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database, cfg.Server.Debug)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache / PubSub ----
	cacheConfig := cache.Config{
		RedisAddr:      cfg.Cache.RedisAddr,
		RedisPassword:  cfg.Cache.RedisPassword,
		RedisDB:        cfg.Cache.RedisDB,
		LocalPubSubBuf: cfg.Cache.LocalPubSubBuf,
	}
	c, err := cache.NewCache(cacheConfig)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cacheConfig)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Catalog ----
	cat, err := catalog.Load(cfg.Game.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	logger.Info("Catalog loaded", zap.Int("items", cat.Len()))

	// ---- Services ----
	lobbySvc := lobby.NewService(db, c, pubsub, cfg.Game, logger)
	ledgerSvc := ledger.NewService(db, cat, lobbySvc, pubsub, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	sched.AddTicker("lobby_sweep", cfg.Game.LobbySweepEvery, func() {
		if _, err := lobbySvc.SweepIdle(context.Background(), cfg.Game.LobbyIdleTimeout); err != nil {
			logger.Error("lobby sweep failed", zap.Error(err))
		}
	})
	sched.AddTicker("leaderboard_refresh", cfg.Game.LeaderboardEvery, func() {
		if err := lobbySvc.RefreshAllLeaderboards(context.Background()); err != nil {
			logger.Error("leaderboard refresh failed", zap.Error(err))
		}
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	origins := cfg.Security.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(mw.CORS(origins))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	apirest.Register(r, &apirest.Handlers{
		Lobby:    apirest.NewLobbyHandler(lobbySvc, auditSvc),
		Purchase: apirest.NewPurchaseHandler(ledgerSvc, cat, auditSvc),
		Referee:  apirest.NewRefereeHandler(cat, auditSvc),
		Catalog:  apirest.NewCatalogHandler(cat),
		Admin:    apirest.NewAdminHandler(db, lobbySvc),
	}, cfg.Server.AdminKey)

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, logger)
	r.GET("/sse", sseH.ServeSSE)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
