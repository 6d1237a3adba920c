package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/jwaldner/atop/internal/config"
	"github.com/jwaldner/atop/internal/handlers"
	"github.com/jwaldner/atop/internal/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.InitWithRotation(cfg.Logging.LogLevel, cfg.Logging.LogFile, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Close()
	logger.Always.Printf("🚀 atop pricing service starting - Port: %s", cfg.Port)
	logger.Info.Printf("🔧 Defaults: %s factors, %d periods, %g years, max %d periods",
		cfg.Pricing.FactorMethod, cfg.Pricing.Periods, cfg.Pricing.Years, cfg.Pricing.MaxPeriods)

	if cfg.Logging.LogLevel == "verbose" {
		fmt.Printf("⚠️  VERBOSE LOGGING ENABLED - every request and priced contract will be logged to %s\n", cfg.Logging.LogFile)
	}

	r := handlers.NewRouter(handlers.NewPricingHandler(cfg))

	fmt.Printf("🌐 Server starting on http://localhost:%s\n", cfg.Port)
	logger.Always.Printf("🌐 Server starting on http://localhost:%s", cfg.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		logger.Error.Printf("Server failed: %v", err)
		log.Fatal("Server failed to start:", err)
	}
}
