// Package config provides layered configuration loading for fastsearch:
// a Config struct with mapstructure/yaml tags, a Loader interface, an env
// prefix, defaults set programmatically, and ReadInConfig tolerating a
// missing file. The root list itself still lives in the paths table; this
// Config only governs sizes, caps, intervals, and the data-directory
// override.
package config

import "time"

// Config is the complete fastsearch process configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
}

// StoreConfig configures the persistent store.
type StoreConfig struct {
	// DataDir overrides the per-app data directory the database file is
	// created under. Empty means "use the platform default" (see
	// DefaultDataDir).
	DataDir       string        `yaml:"data_dir" mapstructure:"data_dir"`
	DBFileName    string        `yaml:"db_file_name" mapstructure:"db_file_name"`
	SearchTimeout time.Duration `yaml:"search_timeout" mapstructure:"search_timeout"`
	InsertTimeout time.Duration `yaml:"insert_timeout" mapstructure:"insert_timeout"`
}

// ScanConfig configures the Scanner and Scan Orchestrator.
type ScanConfig struct {
	Workers           int           `yaml:"workers" mapstructure:"workers"`
	MaxFileSizeBytes  int64         `yaml:"max_file_size_bytes" mapstructure:"max_file_size_bytes"`
	MaxDepth          int           `yaml:"max_depth" mapstructure:"max_depth"`
	InsertChunkSize   int           `yaml:"insert_chunk_size" mapstructure:"insert_chunk_size"`
	MaxChunkFailures  int           `yaml:"max_chunk_failures" mapstructure:"max_chunk_failures"`
	PerRootTimeout    time.Duration `yaml:"per_root_timeout" mapstructure:"per_root_timeout"`
	ProgressInterval  time.Duration `yaml:"progress_interval" mapstructure:"progress_interval"`
	IgnorePatterns    []string      `yaml:"ignore_patterns" mapstructure:"ignore_patterns"`
}

// WatchConfig configures the polling Watcher.
type WatchConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// ExtractConfig configures the Extractor Dispatcher's per-category size
// caps.
type ExtractConfig struct {
	CodeCapBytes      int64 `yaml:"code_cap_bytes" mapstructure:"code_cap_bytes"`
	TabularCapBytes   int64 `yaml:"tabular_cap_bytes" mapstructure:"tabular_cap_bytes"`
	PDFCapBytes       int64 `yaml:"pdf_cap_bytes" mapstructure:"pdf_cap_bytes"`
	PlaintextCapBytes int64 `yaml:"plaintext_cap_bytes" mapstructure:"plaintext_cap_bytes"`
}

// Default returns a Config populated with the standard production limits.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			DBFileName:    "fast-search-lite-db.db",
			SearchTimeout: 30 * time.Second,
			InsertTimeout: 60 * time.Second,
		},
		Scan: ScanConfig{
			Workers:          0, // 0 selects runtime.NumCPU(), capped at 8 (scanner.Options)
			MaxFileSizeBytes: 100 * 1024 * 1024,
			MaxDepth:         100,
			InsertChunkSize:  500,
			MaxChunkFailures: 5,
			PerRootTimeout:   5 * time.Minute,
			ProgressInterval: 500 * time.Millisecond,
		},
		Watch: WatchConfig{
			PollInterval: 2 * time.Second,
		},
		Extract: ExtractConfig{
			CodeCapBytes:      5 * 1024 * 1024,
			TabularCapBytes:   10 * 1024 * 1024,
			PDFCapBytes:       50 * 1024 * 1024,
			PlaintextCapBytes: 10 * 1024 * 1024,
		},
	}
}
