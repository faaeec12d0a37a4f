package app

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"playbook/internal/config"
	"playbook/internal/core"
	"playbook/internal/model"
	"playbook/internal/offsite"
	"playbook/internal/store"
)

// Version is the application version recorded in exported backup documents.
const Version = "0.3.0"

// App is the application layer between the CLI and the core. It constructs
// all dependencies from config and owns their lifecycle; the caller must call
// Close when done.
type App struct {
	cfg          *config.Config
	store        core.Store
	destinations []core.Destination
	service      *core.Service
	engine       *core.BackupEngine
	scheduler    *core.Scheduler
	logger       core.Logger
	logFile      *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Export", "BackupRun") and tags
// every log line of this run.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	st, err := store.NewStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	var destinations []core.Destination
	for _, dc := range cfg.Offsite {
		dest, err := offsite.NewDestinationFromConfig(context.Background(), dc)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("creating offsite destination %q: %w", dc.Name, err)
		}
		destinations = append(destinations, dest)
	}

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = filepath.Join(cfg.BaseDir, "log")
	}
	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	slogger, logFile, err := newLogger(logDir, opID)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	clock := core.RealClock{}
	idgen := core.UUIDGenerator{}

	engine := core.NewBackupEngine(st, logger, clock, idgen, Version)
	scheduler := core.NewScheduler(st, engine, destinations, consoleNotifier{}, logger, clock, idgen)
	service := core.NewService(st, logger, clock, idgen)

	return &App{
		cfg:          cfg,
		store:        st,
		destinations: destinations,
		service:      service,
		engine:       engine,
		scheduler:    scheduler,
		logger:       logger,
		logFile:      logFile,
	}, nil
}

// Service returns the play/playlist/formation service.
func (a *App) Service() *core.Service { return a.service }

// Scheduler returns the auto-backup scheduler.
func (a *App) Scheduler() *core.Scheduler { return a.scheduler }

// Destinations returns the configured offsite destinations.
func (a *App) Destinations() []core.Destination { return a.destinations }

// NewSession creates an editing session over the app's store.
func (a *App) NewSession(cfg core.SessionConfig) *core.Session {
	return core.NewSession(a.store, a.logger, core.RealClock{}, core.UUIDGenerator{}, cfg)
}

// Export writes a full backup document to the given path. When path is empty
// a filename is derived from the configured prefix and the current time, in
// the current directory. Returns the path written.
func (a *App) Export(path string) (string, error) {
	doc, err := a.engine.ExportAll()
	if err != nil {
		return "", fmt.Errorf("exporting: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}

	if path == "" {
		settings, err := a.service.Settings()
		if err != nil {
			return "", err
		}
		path = core.BackupFilename(settings.AutoBackup.FilenamePrefix, time.Now())
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing backup file: %w", err)
	}
	return path, nil
}

// Import reads a backup file and merges it into the store. The file's
// extension must identify JSON, matching the type check a browser file picker
// would apply.
func (a *App) Import(path string, opts core.ImportOptions) (core.ImportResult, error) {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = filepath.Ext(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return core.ImportResult{}, fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()

	_, data, err := a.engine.ReadBackupFile(contentType, f)
	if err != nil {
		return core.ImportResult{}, err
	}

	return a.engine.ImportAll(data, opts), nil
}

// ListBackups returns the retained auto-backup entries, newest first.
func (a *App) ListBackups() ([]model.AutoBackupFileInfo, error) {
	return a.store.ListBackups()
}

// Close stops the scheduler if running and closes all resources.
func (a *App) Close() error {
	a.scheduler.Stop()

	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// consoleNotifier satisfies core.Notifier by printing to stdout. The CLI has
// no permission prompt to manage, so permission is always granted.
type consoleNotifier struct{}

func (consoleNotifier) Granted() bool { return true }

func (consoleNotifier) Notify(title, body string) error {
	_, err := fmt.Printf("%s: %s\n", title, body)
	return err
}
