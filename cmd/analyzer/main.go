package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/domain/gap"
	"github.com/datagovern/governance-backend/internal/infrastructure/cache"
	"github.com/datagovern/governance-backend/internal/infrastructure/codesearch"
	"github.com/datagovern/governance-backend/internal/infrastructure/config"
	"github.com/datagovern/governance-backend/internal/infrastructure/repository"
	"github.com/datagovern/governance-backend/internal/infrastructure/telemetry"
	"github.com/datagovern/governance-backend/internal/service/compliance"
	docsvc "github.com/datagovern/governance-backend/internal/service/documentation"
	"github.com/datagovern/governance-backend/internal/service/gapanalysis"
	"github.com/datagovern/governance-backend/internal/service/orphan"
)

func main() {
	sourceRoot := flag.String("source-root", ".", "Root of the source checkout scanned for asset references")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	shutdown, err := telemetry.SetupTracing("governance-analyzer", cfg.Version)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	svcLogger, err := telemetry.NewServiceLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to set up service logging: %v", err)
	}
	defer svcLogger.Sync()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to inventory database: %v", err)
	}
	defer pool.Close()

	refCache, err := buildCache(cfg, svcLogger)
	if err != nil {
		log.Fatalf("Failed to set up reference cache: %v", err)
	}
	defer refCache.Close()

	inventory := repository.NewAssetRepository(pool)
	docs := repository.NewDocumentRepository(pool)
	usage := repository.NewUsageRepository(pool)
	search := codesearch.NewSearcher(*sourceRoot, 0)

	orphanCfg := orphan.DefaultConfig()
	orphanCfg.UnusedWindowDays = cfg.Analysis.UnusedWindowDays

	detectors := gapanalysis.Detectors{
		Orphaned:      orphan.NewDetector(svcLogger, docs, usage, search, refCache, orphanCfg),
		Documentation: docsvc.NewAnalyzer(svcLogger, docs, docsvc.DefaultTemplateSet(), docsvc.DefaultConfig()),
		Compliance:    compliance.NewChecker(svcLogger, nil),
	}
	svc := gapanalysis.NewService(svcLogger, inventory, detectors)

	result, err := svc.Analyze(ctx, runConfig(cfg))
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))

	if result.Truncated {
		os.Exit(2)
	}
}

func buildCache(cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	if cfg.Redis.URL == "" {
		return cache.NewMemoryStore(), nil
	}
	return cache.NewRedisStore(&cfg.Redis, logger)
}

func runConfig(cfg *config.Config) gapanalysis.AnalysisConfig {
	run := gapanalysis.DefaultAnalysisConfig()
	run.IncludeOrphanedDetection = cfg.Analysis.IncludeOrphanedDetection
	run.IncludeDocumentationAnalysis = cfg.Analysis.IncludeDocumentationAnalysis
	run.IncludeComplianceAssessment = cfg.Analysis.IncludeComplianceAssessment
	run.MaxExecutionTime = cfg.Analysis.MaxExecutionTime
	run.MaxMemoryMB = cfg.Analysis.MaxMemoryMB
	run.MaxConcurrency = cfg.Analysis.MaxConcurrency
	run.BatchSize = cfg.Analysis.BatchSize
	run.RealTimeMonitoring = cfg.Analysis.RealTimeMonitoring

	if len(cfg.Analysis.ComplianceFrameworks) > 0 {
		frameworks := make([]gap.Framework, len(cfg.Analysis.ComplianceFrameworks))
		for i, f := range cfg.Analysis.ComplianceFrameworks {
			frameworks[i] = gap.Framework(f)
		}
		run.ComplianceFrameworks = frameworks
	}
	return run
}
