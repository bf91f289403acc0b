package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/fastsearch/internal/config"
	"github.com/mvp-joe/fastsearch/internal/contentindex"
	"github.com/mvp-joe/fastsearch/internal/events"
	"github.com/mvp-joe/fastsearch/internal/extract"
	"github.com/mvp-joe/fastsearch/internal/orchestrator"
	"github.com/mvp-joe/fastsearch/internal/scanner"
	"github.com/mvp-joe/fastsearch/internal/storage"
	"github.com/mvp-joe/fastsearch/internal/watcher"
)

// App bundles the process-wide handles every subcommand needs: the Store
// and the Watcher are process-wide singletons initialised at startup and
// dropped at shutdown, passed explicitly from bootstrap into command
// handlers rather than reached for as package globals. Every subcommand
// closes over the single App built in PersistentPreRunE.
type App struct {
	Config  *config.Config
	Store   *storage.Store
	Scanner *scanner.Scanner
	Indexer *contentindex.Indexer
	Watcher *watcher.Watcher
	Orch    *orchestrator.Orchestrator
	Bus     *events.Bus
}

// newApp loads configuration, opens (and schema-initialises) the database
// under the platform data directory, and wires the Scanner, Content
// Indexer, Watcher, and Orchestrator around one shared event Bus.
func newApp(cfgPath string) (*App, error) {
	cfg, err := config.NewLoader(cfgPath).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dataDir, err := config.DefaultDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, cfg.Store.DBFileName)
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	store := storage.New(db, storage.Options{
		SearchTimeout: cfg.Store.SearchTimeout,
		InsertTimeout: cfg.Store.InsertTimeout,
	})
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	sc, err := scanner.New(scanner.Options{
		IgnorePatterns:   cfg.Scan.IgnorePatterns,
		Workers:          cfg.Scan.Workers,
		MaxDepth:         cfg.Scan.MaxDepth,
		MaxFileSizeBytes: cfg.Scan.MaxFileSizeBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("build scanner: %w", err)
	}

	extractor := extract.New(extract.Options{
		CodeCapBytes:      cfg.Extract.CodeCapBytes,
		TabularCapBytes:   cfg.Extract.TabularCapBytes,
		PDFCapBytes:       cfg.Extract.PDFCapBytes,
		PlaintextCapBytes: cfg.Extract.PlaintextCapBytes,
	})

	bus := events.NewBus()
	indexer := contentindex.New(store, bus, extractor)
	w := watcher.New(bus, cfg.Watch.PollInterval)
	orch := orchestrator.New(sc, store, indexer, bus, orchestrator.Options{
		InsertChunkSize:  cfg.Scan.InsertChunkSize,
		MaxChunkFailures: cfg.Scan.MaxChunkFailures,
		PerRootTimeout:   cfg.Scan.PerRootTimeout,
		ProgressInterval: cfg.Scan.ProgressInterval,
	})

	return &App{
		Config:  cfg,
		Store:   store,
		Scanner: sc,
		Indexer: indexer,
		Watcher: w,
		Orch:    orch,
		Bus:     bus,
	}, nil
}

// Close stops the Watcher (if running) and releases the Store connection.
func (a *App) Close() error {
	if a.Watcher != nil {
		_ = a.Watcher.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
