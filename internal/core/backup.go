package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"playbook/internal/model"
)

// importedSuffix disambiguates imported copies from originals when a fresh id
// is assigned.
const importedSuffix = " (imported)"

// sameName reports a display-name collision. The imported-copy suffix is
// considered part of the same name, so re-importing a document whose items
// were already imported once still detects them as duplicates.
func sameName(existing, incoming string) bool {
	return existing == incoming || existing == incoming+importedSuffix
}

// BackupEngine serializes the full data set to the portable backup document
// and merges such documents back into the store under configurable conflict
// policy.
type BackupEngine struct {
	store      Store
	logger     Logger
	clock      Clock
	idgen      IDGenerator
	appVersion string
}

// NewBackupEngine creates a BackupEngine with the provided dependencies.
func NewBackupEngine(store Store, logger Logger, clock Clock, idgen IDGenerator, appVersion string) *BackupEngine {
	return &BackupEngine{
		store:      store,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
		appVersion: appVersion,
	}
}

// ExportAll reads all four collections and wraps them in a BackupDocument
// with the fixed format version, the current timestamp, and per-collection
// counts.
func (e *BackupEngine) ExportAll() (*model.BackupDocument, error) {
	plays, err := e.store.ListPlays()
	if err != nil {
		return nil, fmt.Errorf("reading plays: %w", err)
	}
	playlists, err := e.store.ListPlaylists()
	if err != nil {
		return nil, fmt.Errorf("reading playlists: %w", err)
	}
	formations, err := e.store.ListFormations()
	if err != nil {
		return nil, fmt.Errorf("reading formations: %w", err)
	}
	settings, err := e.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if settings == nil {
		settings = model.DefaultSettings()
	}

	doc := &model.BackupDocument{
		Version:   model.BackupFormatVersion,
		Timestamp: e.clock.Now().UTC(),
		Data: model.BackupData{
			Plays:      plays,
			Playlists:  playlists,
			Formations: formations,
			Settings:   settings,
		},
		Metadata: model.BackupMetadata{
			TotalPlays:      len(plays),
			TotalPlaylists:  len(playlists),
			TotalFormations: len(formations),
			ExportedBy:      "playbook",
			AppVersion:      e.appVersion,
		},
	}

	e.logger.Info("export complete",
		"plays", len(plays), "playlists", len(playlists), "formations", len(formations))
	return doc, nil
}

// ValidationResult reports structural validation of a backup document.
// Valid is true only when Errors is empty.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate performs structural validation of a serialized backup document.
// Top-level failures (not a JSON object, missing or malformed data block)
// short-circuit with no further checks. Version, timestamp and per-play
// problems are collected without aborting validation of siblings.
func Validate(data []byte) ValidationResult {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return ValidationResult{Errors: []string{fmt.Sprintf("not valid JSON: %v", err)}}
	}
	return validateDecoded(decoded)
}

func validateDecoded(decoded any) ValidationResult {
	doc, ok := decoded.(map[string]any)
	if !ok {
		return ValidationResult{Errors: []string{"backup document must be a JSON object"}}
	}

	dataField, ok := doc["data"].(map[string]any)
	if !ok {
		return ValidationResult{Errors: []string{"data must be an object"}}
	}

	var structural []string
	plays, ok := dataField["plays"].([]any)
	if !ok {
		structural = append(structural, "data.plays must be an array")
	}
	if _, ok := dataField["playlists"].([]any); !ok {
		structural = append(structural, "data.playlists must be an array")
	}
	if _, ok := dataField["formations"].([]any); !ok {
		structural = append(structural, "data.formations must be an array")
	}
	if settings, present := dataField["settings"]; present && settings != nil {
		if _, ok := settings.(map[string]any); !ok {
			structural = append(structural, "data.settings must be an object")
		}
	}
	if len(structural) > 0 {
		return ValidationResult{Errors: structural}
	}

	var errs []string
	if version, ok := doc["version"].(string); !ok || version == "" {
		errs = append(errs, "version must be a non-empty string")
	}
	if timestamp, ok := doc["timestamp"].(string); !ok {
		errs = append(errs, "timestamp must be a string")
	} else if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		errs = append(errs, fmt.Sprintf("timestamp is not a valid date: %q", timestamp))
	}

	for i, entry := range plays {
		play, ok := entry.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("play %d: not an object", i+1))
			continue
		}
		var missing []string
		if id, ok := play["id"].(string); !ok || id == "" {
			missing = append(missing, "id")
		}
		if _, ok := play["metadata"].(map[string]any); !ok {
			missing = append(missing, "metadata")
		}
		if _, ok := play["field"].(map[string]any); !ok {
			missing = append(missing, "field")
		}
		if _, ok := play["players"].([]any); !ok {
			missing = append(missing, "players")
		}
		if len(missing) > 0 {
			errs = append(errs, fmt.Sprintf("play %d: missing or invalid %s", i+1, strings.Join(missing, ", ")))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ImportOptions controls conflict resolution during import.
type ImportOptions struct {
	// Overwrite replaces same-id entities in place, keeping their ids, and
	// also restores settings when the document carries them.
	Overwrite bool

	// SkipDuplicates silently omits name-colliding entities. When false, each
	// skipped duplicate is recorded as a non-fatal error instead.
	SkipDuplicates bool
}

// DefaultImportOptions returns the defaults: keep existing data, silently
// skip duplicates.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{SkipDuplicates: true}
}

// ImportResult reports the outcome of an import.
type ImportResult struct {
	Success bool
	Message string

	PlaysImported      int
	PlaylistsImported  int
	FormationsImported int
	Skipped            int
	SettingsRestored   bool

	// Errors holds non-fatal per-item problems. A populated Errors list does
	// not by itself mean the import failed.
	Errors []string
}

// Imported returns the total number of items written.
func (r ImportResult) Imported() int {
	return r.PlaysImported + r.PlaylistsImported + r.FormationsImported
}

// ImportAll validates a serialized backup document and merges its contents
// into the store. On structural validation failure nothing is written and the
// validation errors are returned. Per-item problems (duplicates without skip,
// write failures) are recorded and do not abort the rest of the batch.
func (e *BackupEngine) ImportAll(data []byte, opts ImportOptions) ImportResult {
	validation := Validate(data)
	if !validation.Valid {
		return ImportResult{
			Success: false,
			Message: "backup document failed validation",
			Errors:  validation.Errors,
		}
	}

	var doc model.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportResult{
			Success: false,
			Message: "backup document failed to decode",
			Errors:  []string{err.Error()},
		}
	}

	var result ImportResult
	now := e.clock.Now()

	e.importPlays(&doc, opts, now, &result)
	e.importPlaylists(&doc, opts, now, &result)
	e.importFormations(&doc, opts, now, &result)

	if opts.Overwrite && doc.Data.Settings != nil {
		if err := e.store.SaveSettings(doc.Data.Settings.Clone()); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("settings: %v", err))
		} else {
			result.SettingsRestored = true
		}
	}

	result.Success = result.Imported() > 0 || result.SettingsRestored
	switch {
	case result.Success:
		result.Message = fmt.Sprintf("%d imported, %d skipped as duplicates", result.Imported(), result.Skipped)
	case len(result.Errors) > 0:
		result.Message = "import failed"
	default:
		result.Message = "nothing imported: all items were duplicates or the backup was empty"
	}

	e.logger.Info("import finished",
		"imported", result.Imported(), "skipped", result.Skipped,
		"errors", len(result.Errors), "settingsRestored", result.SettingsRestored)
	return result
}

func (e *BackupEngine) importPlays(doc *model.BackupDocument, opts ImportOptions, now time.Time, result *ImportResult) {
	existing, err := e.store.ListPlays()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("reading existing plays: %v", err))
		return
	}

	for i := range doc.Data.Plays {
		incoming := doc.Data.Plays[i].Clone()
		duplicate := false
		for j := range existing {
			if sameName(existing[j].Metadata.Title, incoming.Metadata.Title) ||
				(opts.Overwrite && existing[j].ID == incoming.ID) {
				duplicate = true
				break
			}
		}

		if duplicate && !opts.Overwrite {
			result.Skipped++
			if !opts.SkipDuplicates {
				result.Errors = append(result.Errors,
					fmt.Sprintf("play %q already exists", incoming.Metadata.Title))
			}
			continue
		}

		if !opts.Overwrite {
			incoming.ID = e.idgen.New()
			incoming.Metadata.Title += importedSuffix
		}
		incoming.Metadata.UpdatedAt = now
		// CreatedAt stays as parsed from the incoming document.

		if err := e.store.SavePlay(incoming); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("play %q: %v", incoming.Metadata.Title, err))
			continue
		}
		result.PlaysImported++
	}
}

func (e *BackupEngine) importPlaylists(doc *model.BackupDocument, opts ImportOptions, now time.Time, result *ImportResult) {
	existing, err := e.store.ListPlaylists()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("reading existing playlists: %v", err))
		return
	}

	for i := range doc.Data.Playlists {
		incoming := doc.Data.Playlists[i].Clone()
		duplicate := false
		for j := range existing {
			if sameName(existing[j].Title, incoming.Title) ||
				(opts.Overwrite && existing[j].ID == incoming.ID) {
				duplicate = true
				break
			}
		}

		if duplicate && !opts.Overwrite {
			result.Skipped++
			if !opts.SkipDuplicates {
				result.Errors = append(result.Errors,
					fmt.Sprintf("playlist %q already exists", incoming.Title))
			}
			continue
		}

		if !opts.Overwrite {
			incoming.ID = e.idgen.New()
			incoming.Title += importedSuffix
		}
		incoming.UpdatedAt = now

		if err := e.store.SavePlaylist(incoming); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("playlist %q: %v", incoming.Title, err))
			continue
		}
		result.PlaylistsImported++
	}
}

func (e *BackupEngine) importFormations(doc *model.BackupDocument, opts ImportOptions, now time.Time, result *ImportResult) {
	existing, err := e.store.ListFormations()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("reading existing formations: %v", err))
		return
	}

	for i := range doc.Data.Formations {
		incoming := doc.Data.Formations[i].Clone()
		duplicate := false
		for j := range existing {
			if sameName(existing[j].Name, incoming.Name) ||
				(opts.Overwrite && existing[j].ID == incoming.ID) {
				duplicate = true
				break
			}
		}

		if duplicate && !opts.Overwrite {
			result.Skipped++
			if !opts.SkipDuplicates {
				result.Errors = append(result.Errors,
					fmt.Sprintf("formation %q already exists", incoming.Name))
			}
			continue
		}

		if !opts.Overwrite {
			incoming.ID = e.idgen.New()
			incoming.Name += importedSuffix
		}
		incoming.UpdatedAt = now

		if err := e.store.SaveFormation(incoming); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("formation %q: %v", incoming.Name, err))
			continue
		}
		result.FormationsImported++
	}
}

// ReadBackupFile reads a backup document from a user-selected file. The
// content type must identify JSON; anything else is rejected outright. The
// document is structurally validated before being returned.
func (e *BackupEngine) ReadBackupFile(contentType string, r io.Reader) (*model.BackupDocument, []byte, error) {
	if !strings.Contains(strings.ToLower(contentType), "json") {
		return nil, nil, fmt.Errorf("unsupported file type %q: expected a JSON backup file", contentType)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading backup file: %w", err)
	}

	validation := Validate(data)
	if !validation.Valid {
		return nil, nil, fmt.Errorf("invalid backup file: %s", strings.Join(validation.Errors, "; "))
	}

	var doc model.BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding backup file: %w", err)
	}
	return &doc, data, nil
}

// BackupFilename builds the download filename for an exported document:
// prefix plus the ISO timestamp with colons and dots replaced by dashes.
func BackupFilename(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = "playbook-backup"
	}
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("%s-%s.json", prefix, stamp)
}
