package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"playbook/internal/model"
)

// tickInterval is the fixed cadence at which the scheduler re-checks whether
// a backup is due. The interval setting (daily/weekly/monthly) controls when
// a backup is due, not how often the check runs.
const tickInterval = time.Hour

// CheckResult reports the outcome of one scheduler due-check.
type CheckResult struct {
	Success bool
	// Busy is set when the check was refused because another run holds the
	// processing lock. Distinct from failure.
	Busy bool
	// Created is set when a backup was actually produced.
	Created  bool
	Filename string
	Message  string
}

// SchedulerStatus is a point-in-time view of the scheduler.
type SchedulerStatus struct {
	Running    bool
	Processing bool
}

// Scheduler is the auto-backup background process. It is an explicit instance
// constructed once at startup, not process-wide state; Start and Stop are
// idempotent and tests can tear it down cleanly.
//
// The proc mutex guards the async critical section: a tick that fires while a
// previous run is still in flight is dropped, never queued, so at most one
// backup run executes at a time.
type Scheduler struct {
	store        Store
	engine       *BackupEngine
	destinations []Destination
	notifier     Notifier
	logger       Logger
	clock        Clock
	idgen        IDGenerator

	proc sync.Mutex // held for the duration of one due-check + backup run

	mu      sync.Mutex // guards the fields below
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates a stopped Scheduler with the provided dependencies.
// destinations may be empty; notifier may be nil (treated as no permission).
func NewScheduler(store Store, engine *BackupEngine, destinations []Destination, notifier Notifier, logger Logger, clock Clock, idgen IDGenerator) *Scheduler {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Scheduler{
		store:        store,
		engine:       engine,
		destinations: destinations,
		notifier:     notifier,
		logger:       logger,
		clock:        clock,
		idgen:        idgen,
	}
}

// Start performs one immediate due-check, then arms the hourly timer.
// Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stop, done := s.stopCh, s.doneCh
	s.mu.Unlock()

	s.logger.Info("auto-backup scheduler started")
	go s.loop(stop, done)
}

// Stop cancels the timer. An in-flight backup run is not interrupted; it
// completes or fails on its own. Calling Stop on a stopped scheduler is a
// no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stop)
	<-done
	s.logger.Info("auto-backup scheduler stopped")
}

// Status reports whether the scheduler is running and whether a run is
// currently in flight.
func (s *Scheduler) Status() SchedulerStatus {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	processing := false
	if s.proc.TryLock() {
		s.proc.Unlock()
	} else {
		processing = true
	}
	return SchedulerStatus{Running: running, Processing: processing}
}

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	s.tick()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one due-check unless a previous run still holds the lock, in
// which case it logs and skips.
func (s *Scheduler) tick() {
	if !s.proc.TryLock() {
		s.logger.Info("auto-backup check skipped: previous run still in progress")
		return
	}
	defer s.proc.Unlock()

	result := s.check()
	if !result.Success {
		s.logger.Warn("auto-backup check failed", "message", result.Message)
	}
}

// RunManualCheck runs the same due-check + backup path on demand. If an
// automatic run is in flight the call is refused with a busy result instead
// of blocking.
func (s *Scheduler) RunManualCheck() CheckResult {
	if !s.proc.TryLock() {
		return CheckResult{
			Success: false,
			Busy:    true,
			Message: "auto-backup already running",
		}
	}
	defer s.proc.Unlock()

	return s.check()
}

// check decides whether a backup is due and creates one if so. All failures
// are caught here and converted into a result; the scheduler keeps running.
func (s *Scheduler) check() CheckResult {
	settings, err := s.currentSettings()
	if err != nil {
		return CheckResult{Success: false, Message: fmt.Sprintf("reading settings: %v", err)}
	}

	if !s.ShouldCreateBackup(settings) {
		return CheckResult{Success: true, Message: "no backup due"}
	}

	info, err := s.CreateAutoBackup(settings)
	if err != nil {
		return CheckResult{Success: false, Message: fmt.Sprintf("creating backup: %v", err)}
	}

	return CheckResult{
		Success:  true,
		Created:  true,
		Filename: info.Filename,
		Message:  fmt.Sprintf("backup created: %s", info.Filename),
	}
}

// ShouldCreateBackup reports whether a backup is due: never when auto-backup
// is disabled, always on first run, otherwise when the elapsed time since the
// last backup reaches the interval threshold.
func (s *Scheduler) ShouldCreateBackup(settings *model.Settings) bool {
	ab := settings.AutoBackup
	if !ab.Enabled {
		return false
	}
	if ab.LastBackupDate == nil {
		return true
	}
	return s.clock.Now().Sub(*ab.LastBackupDate) >= ab.Interval.Threshold()
}

// CreateAutoBackup exports all data, stores the result as a new retained
// backup entry, trims the list to the configured maximum (keeping the most
// recent entries), records the backup time in settings, mirrors the file to
// the offsite destinations, and notifies if permission was already granted.
func (s *Scheduler) CreateAutoBackup(settings *model.Settings) (*model.AutoBackupFileInfo, error) {
	doc, err := s.engine.ExportAll()
	if err != nil {
		return nil, fmt.Errorf("exporting data: %w", err)
	}
	if !settings.AutoBackup.IncludeSettings {
		doc.Data.Settings = nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}

	now := s.clock.Now()
	info := &model.AutoBackupFileInfo{
		ID:        s.idgen.New(),
		Filename:  BackupFilename(settings.AutoBackup.FilenamePrefix, now),
		CreatedAt: now,
		Size:      int64(len(data)),
		Document:  *doc,
	}
	if err := s.store.SaveBackup(info); err != nil {
		return nil, fmt.Errorf("saving backup entry: %w", err)
	}

	if _, err := s.trimBackups(settings.AutoBackup.MaxBackupFiles); err != nil {
		return nil, fmt.Errorf("trimming old backups: %w", err)
	}

	settings.AutoBackup.LastBackupDate = &now
	if err := s.store.SaveSettings(settings); err != nil {
		return nil, fmt.Errorf("recording backup time: %w", err)
	}

	// Offsite mirroring is best effort; a destination failure never fails
	// the backup.
	for _, dest := range s.destinations {
		if err := dest.Put(info.Filename, data); err != nil {
			s.logger.Warn("offsite mirror failed", "destination", dest.Name(), "error", err)
		}
	}

	if s.notifier.Granted() {
		if err := s.notifier.Notify("Auto backup complete", info.Filename); err != nil {
			s.logger.Warn("notification failed", "error", err)
		}
	}

	s.logger.Info("auto backup created", "filename", info.Filename, "size", info.Size)
	return info, nil
}

// CleanupOldBackups trims the retained backup list to the configured maximum
// independent of the scheduled tick. Returns the number of entries deleted.
func (s *Scheduler) CleanupOldBackups() (int, error) {
	settings, err := s.currentSettings()
	if err != nil {
		return 0, fmt.Errorf("reading settings: %w", err)
	}
	deleted, err := s.trimBackups(settings.AutoBackup.MaxBackupFiles)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("old backups removed", "count", deleted)
	}
	return deleted, nil
}

// trimBackups keeps the max most recent backup entries and deletes the rest.
func (s *Scheduler) trimBackups(max int) (int, error) {
	if max <= 0 {
		max = model.DefaultSettings().AutoBackup.MaxBackupFiles
	}

	backups, err := s.store.ListBackups()
	if err != nil {
		return 0, fmt.Errorf("listing backups: %w", err)
	}
	if len(backups) <= max {
		return 0, nil
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	deleted := 0
	for _, old := range backups[max:] {
		if err := s.store.DeleteBackup(old.ID); err != nil {
			return deleted, fmt.Errorf("deleting backup %s: %w", old.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *Scheduler) currentSettings() (*model.Settings, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = model.DefaultSettings()
	}
	return settings, nil
}
