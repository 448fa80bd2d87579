package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Artifacts ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Cleaning  CleaningConfig  `yaml:"cleaning" mapstructure:"cleaning"`
	Model     ModelConfig     `yaml:"model" mapstructure:"model"`
	Advisory  AdvisoryConfig  `yaml:"advisory" mapstructure:"advisory"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the raw market spreadsheets and the consolidated output.
type DataConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	CombinedPath string `yaml:"combined_path" mapstructure:"combined_path"`
}

// ArtifactsConfig locates the trained model and code mapping artifacts.
type ArtifactsConfig struct {
	ModelPath     string `yaml:"model_path" mapstructure:"model_path"`
	CropCodesPath string `yaml:"crop_codes_path" mapstructure:"crop_codes_path"`
	CityCodesPath string `yaml:"city_codes_path" mapstructure:"city_codes_path"`
}

// StoreConfig configures the observation database.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// CleaningConfig holds the data cleaning thresholds. Prices below the floor
// are treated as data-entry errors, not market conditions.
type CleaningConfig struct {
	PriceFloor float64 `yaml:"price_floor" mapstructure:"price_floor"`
}

// ModelConfig holds the boosted-tree training parameters. Fixed at training
// time; there is no online tuning.
type ModelConfig struct {
	Trees        int     `yaml:"trees" mapstructure:"trees"`
	LearningRate float64 `yaml:"learning_rate" mapstructure:"learning_rate"`
	MaxDepth     int     `yaml:"max_depth" mapstructure:"max_depth"`
	Lambda       float64 `yaml:"lambda" mapstructure:"lambda"`
	Alpha        float64 `yaml:"alpha" mapstructure:"alpha"`
	TestFraction float64 `yaml:"test_fraction" mapstructure:"test_fraction"`
	Seed         int64   `yaml:"seed" mapstructure:"seed"`
}

// AdvisoryConfig configures the economic overlay.
type AdvisoryConfig struct {
	InflationRate  float64  `yaml:"inflation_rate" mapstructure:"inflation_rate"`
	DefaultCost    float64  `yaml:"default_cost" mapstructure:"default_cost"`
	ExcludedCities []string `yaml:"excluded_cities" mapstructure:"excluded_cities"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Port      int    `yaml:"port" mapstructure:"port"`
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CROPCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "dataset")
	v.SetDefault("data.combined_path", "artifacts/combined_crop_data.xlsx")
	v.SetDefault("artifacts.model_path", "artifacts/price_model.json")
	v.SetDefault("artifacts.crop_codes_path", "artifacts/crop_codes.json")
	v.SetDefault("artifacts.city_codes_path", "artifacts/city_codes.json")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "cropcast.db")
	v.SetDefault("cleaning.price_floor", 1000.0)
	v.SetDefault("model.trees", 100)
	v.SetDefault("model.learning_rate", 0.05)
	v.SetDefault("model.max_depth", 4)
	v.SetDefault("model.lambda", 1.0)
	v.SetDefault("model.alpha", 0.1)
	v.SetDefault("model.test_fraction", 0.2)
	v.SetDefault("model.seed", 42)
	v.SetDefault("advisory.inflation_rate", 0.05)
	v.SetDefault("advisory.default_cost", 6000.0)
	v.SetDefault("advisory.excluded_cities", []string{"Thane"})
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
