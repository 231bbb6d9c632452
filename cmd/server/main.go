package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"mad-factory/internal/bags"
	"mad-factory/internal/config"
	"mad-factory/internal/handler"
	"mad-factory/internal/logger"
	"mad-factory/internal/middleware"
	"mad-factory/internal/model"
	"mad-factory/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var allModels = []interface{}{
	&model.Idea{}, &model.Vote{}, &model.VotingRound{}, &model.Product{},
}

func migrate(db *gorm.DB) {
	if err := db.AutoMigrate(allModels...); err != nil {
		slog.Error("auto-migrate failed", "err", err)
		os.Exit(1)
	}
}

func openRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("redis disabled, bad url", "err", err)
		return nil
	}
	slog.Info("vote fast-reject cache enabled")
	return redis.NewClient(opt)
}

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	if cfg.Admin.Secret == "" {
		slog.Error("admin secret not configured, set ADMIN_SECRET")
		os.Exit(1)
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	migrate(db)

	rdb := openRedis(cfg.Redis.URL)
	launcher := bags.NewClient(cfg.Bags.BaseURL, cfg.Bags.APIKey)

	ideaSvc := service.NewIdeaService(db)
	voteSvc := service.NewVoteService(db, rdb)
	roundSvc := service.NewRoundService(db)
	productSvc := service.NewProductService(db, launcher, cfg.Bags.BuilderWallet)
	statsSvc := service.NewStatsService(db)

	ideaH := handler.NewIdeaHandler(ideaSvc)
	voteH := handler.NewVoteHandler(voteSvc)
	roundH := handler.NewRoundHandler(roundSvc)
	productH := handler.NewProductHandler(productSvc)
	statsH := handler.NewStatsHandler(statsSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.AdminSecretHeader},
		AllowCredentials: true,
	}))

	voteLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer voteLimiter.Stop()

	api := r.Group("/api")
	{
		api.POST("/ideas", ideaH.Submit)
		api.GET("/ideas", ideaH.List)
		api.GET("/ideas/:id", ideaH.Get)
		api.POST("/ideas/:id/vote",
			middleware.RateLimit(voteLimiter, handler.VoterIdentity), voteH.Cast)
		api.GET("/voting/current", roundH.Current)
		api.GET("/products", productH.List)
		api.GET("/products/:id", productH.Get)
		api.GET("/stats", statsH.Get)
	}

	admin := api.Group("/admin", middleware.AdminAuth(cfg.Admin.Secret))
	{
		admin.POST("/voting/start", roundH.Start)
		admin.POST("/voting/end", roundH.End)
		admin.PUT("/ideas/:id/status", ideaH.UpdateStatus)
		admin.POST("/products", productH.Create)
		admin.POST("/products/launch", productH.Launch)
		admin.POST("/products/fee-share", productH.FeeShare)
	}

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
