package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// PricingConfig holds the defaults applied when a request leaves a
// lattice parameter out.
type PricingConfig struct {
	FactorMethod string  `yaml:"factor_method"` // jarrow, cox
	Periods      int     `yaml:"periods"`
	Years        float64 `yaml:"years"`
	MaxPeriods   int     `yaml:"max_periods"` // upper bound accepted from clients

	MaxStepInPeriods int `yaml:"max_step_in_periods"` // largest lattice returned node by node
	MaxConvergence   int `yaml:"max_convergence"`     // most entries in one convergence sweep
}

// GuideConfig controls the teaching guide output
type GuideConfig struct {
	Rounding int  `yaml:"rounding"`
	Color    bool `yaml:"color"`
}

// PayoffConfig is the default sampling grid for payoff diagrams
type PayoffConfig struct {
	GridMin  float64 `yaml:"grid_min"`
	GridMax  float64 `yaml:"grid_max"`
	GridStep float64 `yaml:"grid_step"`

	MaxPoints int `yaml:"max_points"` // most points a requested grid may sample
}

// ExportConfig represents CSV and chart export configuration
type ExportConfig struct {
	FilenameFormat string `yaml:"filename_format"`
	ChartWidth     int    `yaml:"chart_width"`  // points
	ChartHeight    int    `yaml:"chart_height"` // points
}

type Config struct {
	// Server settings
	Port string

	Logging LoggingConfig `yaml:"logging"`
	Pricing PricingConfig `yaml:"pricing"`
	Guide   GuideConfig   `yaml:"guide"`
	Payoff  PayoffConfig  `yaml:"payoff"`
	Export  ExportConfig  `yaml:"export"`
}

type YAMLConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Pricing PricingConfig `yaml:"pricing"`
	Guide   struct {
		Rounding *int  `yaml:"rounding"`
		Color    *bool `yaml:"color"`
	} `yaml:"guide"`
	Payoff PayoffConfig `yaml:"payoff"`
	Export ExportConfig `yaml:"export"`
}

// Load builds the configuration from environment variables and then
// overlays config.yaml (or the file named by ATOP_CONFIG) when present.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Logging: LoggingConfig{
			LogLevel:   getEnv("LOG_LEVEL", "info"),
			LogFile:    getEnv("LOG_FILE", "atop.log"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		},
		Pricing: PricingConfig{
			FactorMethod: getEnv("PRICING_FACTOR_METHOD", "jarrow"),
			Periods:      getEnvInt("PRICING_PERIODS", 500),
			Years:        getEnvFloat("PRICING_YEARS", 1),
			MaxPeriods:   getEnvInt("PRICING_MAX_PERIODS", 10000),

			MaxStepInPeriods: getEnvInt("PRICING_MAX_STEP_IN_PERIODS", 100),
			MaxConvergence:   getEnvInt("PRICING_MAX_CONVERGENCE", 20),
		},
		Guide: GuideConfig{
			Rounding: getEnvInt("GUIDE_ROUNDING", 2),
			Color:    getEnvBool("GUIDE_COLOR", true),
		},
		Payoff: PayoffConfig{
			GridMin:  getEnvFloat("PAYOFF_GRID_MIN", 0),
			GridMax:  getEnvFloat("PAYOFF_GRID_MAX", 100),
			GridStep: getEnvFloat("PAYOFF_GRID_STEP", 1),

			MaxPoints: getEnvInt("PAYOFF_MAX_POINTS", 10001),
		},
		Export: ExportConfig{
			FilenameFormat: getEnv("EXPORT_FILENAME_FORMAT", "{time}_{kind}_{label}.csv"),
			ChartWidth:     getEnvInt("EXPORT_CHART_WIDTH", 640),
			ChartHeight:    getEnvInt("EXPORT_CHART_HEIGHT", 400),
		},
	}

	if yamlCfg := loadYAMLConfig(getEnv("ATOP_CONFIG", "config.yaml")); yamlCfg != nil {
		if yamlCfg.Server.Port != "" {
			cfg.Port = yamlCfg.Server.Port
		}

		if yamlCfg.Logging.LogLevel != "" {
			cfg.Logging.LogLevel = yamlCfg.Logging.LogLevel
		}
		if yamlCfg.Logging.LogFile != "" {
			cfg.Logging.LogFile = yamlCfg.Logging.LogFile
		}
		if yamlCfg.Logging.MaxSizeMB > 0 {
			cfg.Logging.MaxSizeMB = yamlCfg.Logging.MaxSizeMB
		}
		if yamlCfg.Logging.MaxBackups > 0 {
			cfg.Logging.MaxBackups = yamlCfg.Logging.MaxBackups
		}

		if yamlCfg.Pricing.FactorMethod != "" {
			cfg.Pricing.FactorMethod = yamlCfg.Pricing.FactorMethod
		}
		if yamlCfg.Pricing.Periods > 0 {
			cfg.Pricing.Periods = yamlCfg.Pricing.Periods
		}
		if yamlCfg.Pricing.Years > 0 {
			cfg.Pricing.Years = yamlCfg.Pricing.Years
		}
		if yamlCfg.Pricing.MaxPeriods > 0 {
			cfg.Pricing.MaxPeriods = yamlCfg.Pricing.MaxPeriods
		}
		if yamlCfg.Pricing.MaxStepInPeriods > 0 {
			cfg.Pricing.MaxStepInPeriods = yamlCfg.Pricing.MaxStepInPeriods
		}
		if yamlCfg.Pricing.MaxConvergence > 0 {
			cfg.Pricing.MaxConvergence = yamlCfg.Pricing.MaxConvergence
		}

		// rounding 0 and color false are meaningful, so only absent keys keep the defaults
		if yamlCfg.Guide.Rounding != nil {
			cfg.Guide.Rounding = *yamlCfg.Guide.Rounding
		}
		if yamlCfg.Guide.Color != nil {
			cfg.Guide.Color = *yamlCfg.Guide.Color
		}

		// grid bounds are replaced together
		if yamlCfg.Payoff.GridStep > 0 {
			cfg.Payoff.GridMin = yamlCfg.Payoff.GridMin
			cfg.Payoff.GridMax = yamlCfg.Payoff.GridMax
			cfg.Payoff.GridStep = yamlCfg.Payoff.GridStep
		}
		if yamlCfg.Payoff.MaxPoints > 0 {
			cfg.Payoff.MaxPoints = yamlCfg.Payoff.MaxPoints
		}

		if yamlCfg.Export.FilenameFormat != "" {
			cfg.Export.FilenameFormat = yamlCfg.Export.FilenameFormat
		}
		if yamlCfg.Export.ChartWidth > 0 {
			cfg.Export.ChartWidth = yamlCfg.Export.ChartWidth
		}
		if yamlCfg.Export.ChartHeight > 0 {
			cfg.Export.ChartHeight = yamlCfg.Export.ChartHeight
		}
	}

	// a non-positive max means no limit
	if cfg.Pricing.MaxPeriods > 0 && cfg.Pricing.Periods > cfg.Pricing.MaxPeriods {
		cfg.Pricing.Periods = cfg.Pricing.MaxPeriods
	}
	return cfg
}

func loadYAMLConfig(path string) *YAMLConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		// a missing config file is not an error
		return nil
	}

	var yamlCfg YAMLConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil
	}

	return &yamlCfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
