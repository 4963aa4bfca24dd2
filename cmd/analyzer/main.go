// ====================================
// File: cmd/analyzer/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/solwatch/wallet-analyzer/internal/app"
	"github.com/solwatch/wallet-analyzer/internal/config"
	"github.com/solwatch/wallet-analyzer/internal/export"
	"github.com/solwatch/wallet-analyzer/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to the configuration file")
	walletsFlag := flag.String("wallets", "", "comma-separated wallet addresses to analyze")
	format := flag.String("format", "json", "report format: csv or json")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// Config failures happen before the real logger exists.
		fallback, _ := zap.NewDevelopment()
		fallback.Fatal("Failed to load config", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fallback, _ := zap.NewDevelopment()
		fallback.Fatal("Failed to initialize logger", zap.Error(err))
	}

	log.Info("Starting wallet analyzer")

	runner, err := app.NewRunner(cfg, log.Logger)
	if err != nil {
		log.Fatal("Failed to initialize analyzer", zap.Error(err))
	}
	defer runner.Shutdown()

	wallets := splitWallets(*walletsFlag)
	if len(wallets) == 0 {
		log.Fatal("No wallets supplied, use -wallets")
	}

	opts := app.Options{
		Wallets:      wallets,
		ExportFormat: export.ExportFormat(*format),
	}

	if err := runner.Run(ctx, opts); err != nil {
		log.Error("Analysis run failed", zap.Error(err))
		os.Exit(1)
	}
}

func splitWallets(raw string) []string {
	var wallets []string
	for _, w := range strings.Split(raw, ",") {
		if clean := strings.TrimSpace(w); clean != "" {
			wallets = append(wallets, clean)
		}
	}
	return wallets
}
