package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultModel      = "gemini-3-flash-preview"
	DefaultNamespace  = "clg_fnd_v4"
	DefaultBatchDelay = 800
	envPrefix         = "COLLEGEFINDER"
)

// Load reads configs/config.yaml (optional), merges config.<env>.yaml and
// applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".collegefinder"))
	}

	bindEnv(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return build(v)
}

func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	// 0 is a valid delay, so it cannot be defaulted in applyDefaults
	v.SetDefault("batch.delay", DefaultBatchDelay)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"genai.api_key", "genai.model", "genai.timeout", "genai.thinking_budget", "genai.base_url",
		"cache.backend", "cache.namespace", "cache.sqlite_path",
		"database.redis.address", "database.redis.password", "database.redis.db",
		"batch.delay", "export.dir", "logging.level", "logging.format", "metrics.address",
	} {
		_ = v.BindEnv(key)
	}
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	// An unexpanded ${VAR} placeholder means the variable was not set.
	if strings.HasPrefix(cfg.GenAI.APIKey, "${") {
		cfg.GenAI.APIKey = ""
	}
	if cfg.GenAI.APIKey == "" {
		for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"} {
			if val := os.Getenv(name); val != "" {
				cfg.GenAI.APIKey = val
				break
			}
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "collegefinder"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = DefaultModel
	}
	if cfg.GenAI.Timeout == 0 {
		cfg.GenAI.Timeout = 90000
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendSQLite
	}
	if cfg.Cache.Namespace == "" {
		cfg.Cache.Namespace = DefaultNamespace
	}
	if cfg.Cache.SQLitePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Cache.SQLitePath = filepath.Join(home, ".collegefinder", "cache.db")
	}

	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "."
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Cache.Backend {
	case CacheBackendSQLite, CacheBackendMemory:
	case CacheBackendRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("cache.backend must be one of sqlite, redis, memory (got %q)", cfg.Cache.Backend)
	}

	if strings.ContainsAny(cfg.Cache.Namespace, ": ") {
		return fmt.Errorf("cache.namespace must not contain ':' or spaces")
	}
	if cfg.GenAI.Timeout < 0 || cfg.Batch.Delay < 0 {
		return fmt.Errorf("genai.timeout and batch.delay must not be negative")
	}
	if cfg.GenAI.ThinkingBudget < 0 {
		return fmt.Errorf("genai.thinking_budget must not be negative")
	}

	return nil
}

// ValidateGenAI is checked only by commands that call the model.
func ValidateGenAI(cfg *Config) error {
	if cfg.GenAI.APIKey == "" {
		return fmt.Errorf("genai.api_key is required (set GEMINI_API_KEY)")
	}
	return nil
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
