package main

import (
	"fmt"
	"log"

	"retail_dashboard/api"
	"retail_dashboard/internal/analytics"
	"retail_dashboard/internal/config"
	"retail_dashboard/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	level, _ := cfg.Level()
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("error building logger: %v", err)
	}
	defer logger.Sync()

	loc, _ := cfg.Location()
	engine := analytics.NewEngine(analytics.Options{
		TopN:      cfg.TopN,
		TrendDays: cfg.TrendDays,
		Location:  loc,
		Strict:    cfg.Strict,
	}, logger.Named("analytics"))
	salesService := sales.NewService(sales.NewLocalStorage(), logger.Named("sales"))

	gin.SetMode(cfg.GinMode)
	r := gin.Default()
	api.InitRoutes(r, salesService, engine, logger.Named("api"))

	logger.Info("starting server", zap.String("port", cfg.Port), zap.String("timezone", loc.String()))
	if err := r.Run(":" + cfg.Port); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
