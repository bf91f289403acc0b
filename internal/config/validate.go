package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTimeout indicates a non-positive duration where one is required.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidWorkers indicates a negative scanner worker count.
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidCap indicates a non-positive size cap.
	ErrInvalidCap = errors.New("invalid size cap")

	// ErrEmptyDBFileName indicates a blank database file name.
	ErrEmptyDBFileName = errors.New("empty db file name")
)

// Validate checks that cfg's durations, caps, and worker counts are sane
// before it backs a running Store/Scanner/Watcher/Extractor.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateStore(&cfg.Store); err != nil {
		errs = append(errs, err)
	}
	if err := validateScan(&cfg.Scan); err != nil {
		errs = append(errs, err)
	}
	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}
	if err := validateExtract(&cfg.Extract); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateStore(cfg *StoreConfig) error {
	var errs []error
	if strings.TrimSpace(cfg.DBFileName) == "" {
		errs = append(errs, fmt.Errorf("%w: db_file_name is required", ErrEmptyDBFileName))
	}
	if cfg.SearchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: search_timeout must be positive, got %s", ErrInvalidTimeout, cfg.SearchTimeout))
	}
	if cfg.InsertTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: insert_timeout must be positive, got %s", ErrInvalidTimeout, cfg.InsertTimeout))
	}
	return joinErrors(errs)
}

func validateScan(cfg *ScanConfig) error {
	var errs []error
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Workers))
	}
	if cfg.MaxFileSizeBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size_bytes must be positive, got %d", ErrInvalidCap, cfg.MaxFileSizeBytes))
	}
	if cfg.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidCap, cfg.MaxDepth))
	}
	if cfg.InsertChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: insert_chunk_size must be positive, got %d", ErrInvalidCap, cfg.InsertChunkSize))
	}
	if cfg.MaxChunkFailures < 0 {
		errs = append(errs, fmt.Errorf("%w: max_chunk_failures cannot be negative, got %d", ErrInvalidCap, cfg.MaxChunkFailures))
	}
	if cfg.PerRootTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: per_root_timeout must be positive, got %s", ErrInvalidTimeout, cfg.PerRootTimeout))
	}
	if cfg.ProgressInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: progress_interval must be positive, got %s", ErrInvalidTimeout, cfg.ProgressInterval))
	}
	return joinErrors(errs)
}

func validateWatch(cfg *WatchConfig) error {
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive, got %s", ErrInvalidTimeout, cfg.PollInterval)
	}
	return nil
}

func validateExtract(cfg *ExtractConfig) error {
	var errs []error
	for name, cap := range map[string]int64{
		"code_cap_bytes":      cfg.CodeCapBytes,
		"tabular_cap_bytes":   cfg.TabularCapBytes,
		"pdf_cap_bytes":       cfg.PDFCapBytes,
		"plaintext_cap_bytes": cfg.PlaintextCapBytes,
	} {
		if cap <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidCap, name, cap))
		}
	}
	return joinErrors(errs)
}

// joinErrors combines multiple errors into one, preserving each for
// errors.Is/errors.As the way errors.Join does.
func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
