package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Analysis  AnalysisConfig  `koanf:"analysis"`
	Ingestion IngestionConfig `koanf:"ingestion"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"pool_size"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// AnalysisConfig holds the gap analysis run defaults.
type AnalysisConfig struct {
	IncludeOrphanedDetection     bool     `koanf:"include_orphaned_detection"`
	IncludeDocumentationAnalysis bool     `koanf:"include_documentation_analysis"`
	IncludeComplianceAssessment  bool     `koanf:"include_compliance_assessment"`
	ComplianceFrameworks         []string `koanf:"compliance_frameworks"`

	MaxExecutionTime time.Duration `koanf:"max_execution_time" validate:"gt=0"`
	MaxMemoryMB      int           `koanf:"max_memory_mb" validate:"gt=0"`
	MaxConcurrency   int           `koanf:"max_concurrency" validate:"gt=0"`
	BatchSize        int           `koanf:"batch_size" validate:"gt=0"`

	UnusedWindowDays   int  `koanf:"unused_window_days" validate:"gt=0"`
	RealTimeMonitoring bool `koanf:"real_time_monitoring"`
}

// IngestionConfig holds the discovery-ingestion pipeline settings.
type IngestionConfig struct {
	SimilarityThreshold float64 `koanf:"similarity_threshold" validate:"gt=0,lte=1"`
	AutoMergeConfidence float64 `koanf:"auto_merge_confidence" validate:"gt=0,lte=1"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			DB:           0,
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Analysis: AnalysisConfig{
			IncludeOrphanedDetection:     true,
			IncludeDocumentationAnalysis: true,
			IncludeComplianceAssessment:  true,
			ComplianceFrameworks:         []string{"gdpr", "soc2", "iso27001", "org-policy"},
			MaxExecutionTime:             180 * time.Second,
			MaxMemoryMB:                  256,
			MaxConcurrency:               10,
			BatchSize:                    50,
			UnusedWindowDays:             90,
		},
		Ingestion: IngestionConfig{
			SimilarityThreshold: 0.85,
			AutoMergeConfidence: 0.9,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := k.Load(file.Provider("configs/config.yaml"), yaml.Parser()); err != nil {
		// Config file is optional
	}

	// Override with environment variables
	if err := k.Load(env.Provider("GOVERN_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "GOVERN_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects malformed configuration before any work starts.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}
