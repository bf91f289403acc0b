package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment-variable prefix for every Config field.
const EnvPrefix = "FASTSEARCH"

// Loader loads a Config from a YAML file with environment overrides.
type Loader interface {
	// Load loads configuration with priority (highest to lowest):
	// environment variables, config file, built-in defaults.
	Load() (*Config, error)
}

type loader struct {
	configPath string
}

// NewLoader returns a Loader that looks for its config file at configPath
// (if non-empty) or in the current directory / user config dir otherwise.
func NewLoader(configPath string) Loader {
	return &loader{configPath: configPath}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
	} else {
		v.SetConfigName("fastsearch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "fastsearch"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("store.data_dir", d.Store.DataDir)
	v.SetDefault("store.db_file_name", d.Store.DBFileName)
	v.SetDefault("store.search_timeout", d.Store.SearchTimeout)
	v.SetDefault("store.insert_timeout", d.Store.InsertTimeout)

	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.max_file_size_bytes", d.Scan.MaxFileSizeBytes)
	v.SetDefault("scan.max_depth", d.Scan.MaxDepth)
	v.SetDefault("scan.insert_chunk_size", d.Scan.InsertChunkSize)
	v.SetDefault("scan.max_chunk_failures", d.Scan.MaxChunkFailures)
	v.SetDefault("scan.per_root_timeout", d.Scan.PerRootTimeout)
	v.SetDefault("scan.progress_interval", d.Scan.ProgressInterval)
	v.SetDefault("scan.ignore_patterns", d.Scan.IgnorePatterns)

	v.SetDefault("watch.poll_interval", d.Watch.PollInterval)

	v.SetDefault("extract.code_cap_bytes", d.Extract.CodeCapBytes)
	v.SetDefault("extract.tabular_cap_bytes", d.Extract.TabularCapBytes)
	v.SetDefault("extract.pdf_cap_bytes", d.Extract.PDFCapBytes)
	v.SetDefault("extract.plaintext_cap_bytes", d.Extract.PlaintextCapBytes)
}

// LoadConfig is a convenience function using the default search path.
func LoadConfig() (*Config, error) {
	return NewLoader("").Load()
}

// DefaultDataDir resolves the platform-appropriate per-app data directory
// the database file is created under, honoring cfg.Store.DataDir
// as an override.
func DefaultDataDir(cfg *Config) (string, error) {
	if cfg.Store.DataDir != "" {
		return cfg.Store.DataDir, nil
	}

	var base string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, "Library", "Application Support")
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, "AppData", "Roaming")
		}
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = xdg
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, "fastsearch"), nil
}
