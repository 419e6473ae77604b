package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/glucoguard/internal/bundle"
)

// EnvPrefix prefixes every environment variable, e.g. GLUCOGUARD_BUNDLE.
const EnvPrefix = "GLUCOGUARD"

// Config holds process-wide settings.
type Config struct {
	Bundle   string `mapstructure:"bundle"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
	HTTPAddr string `mapstructure:"http_addr"`
	Env      string `mapstructure:"env"`

	ReleaseBaseURL string `mapstructure:"release_base_url"`
	ReleaseOwner   string `mapstructure:"release_owner"`
	ReleaseRepo    string `mapstructure:"release_repo"`
}

// New returns a viper instance with defaults and environment binding.
// Flags are bound by the caller.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("bundle", DefaultBundlePath())
	v.SetDefault("log_level", "WARN")
	v.SetDefault("log_file", "")
	v.SetDefault("http_addr", ":8501")
	v.SetDefault("env", "development")
	v.SetDefault("release_base_url", "https://github.com")
	v.SetDefault("release_owner", "glucoguard")
	v.SetDefault("release_repo", "models")
	return v
}

// Load reads the optional config file and unmarshals v into a Config.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	return cfg, nil
}

// IsProduction reports whether the process runs in a production environment.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// DefaultBundlePath resolves the bundle location in priority order:
// 1. model_diabetes_brfss.json next to the executable, if present
// 2. $XDG_DATA_HOME/glucoguard/model_diabetes_brfss.json
// 3. ~/.local/share/glucoguard/model_diabetes_brfss.json
func DefaultBundlePath() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), bundle.DefaultAsset)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return bundle.DefaultAsset
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "glucoguard", bundle.DefaultAsset)
}
