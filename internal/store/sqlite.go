package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"playbook/internal/core"
	"playbook/internal/model"
	"playbook/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements core.Store using SQLite. Each collection lives in
// its own table holding the entity as a JSON document column keyed by id, so
// the document shape can evolve without schema churn while timestamps stay
// queryable.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and brings the
// schema to the latest version. path can be ":memory:" for an in-memory
// database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. Exported for tools and tests that need a properly
// configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema is at the latest version.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// Play operations

func (s *SQLiteStore) ListPlays() ([]model.Play, error) {
	docs, err := s.listDocs("plays")
	if err != nil {
		return nil, err
	}
	out := make([]model.Play, 0, len(docs))
	for _, doc := range docs {
		var p model.Play
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decoding play: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *SQLiteStore) GetPlay(id string) (*model.Play, error) {
	doc, err := s.getDoc("plays", id)
	if err != nil || doc == nil {
		return nil, err
	}
	var p model.Play
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decoding play: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) SavePlay(play *model.Play) error {
	doc, err := json.Marshal(play)
	if err != nil {
		return fmt.Errorf("encoding play: %w", err)
	}
	return s.saveDoc("plays", play.ID, doc, play.Metadata.CreatedAt, play.Metadata.UpdatedAt)
}

func (s *SQLiteStore) DeletePlay(id string) error {
	return s.deleteDoc("plays", id)
}

// Playlist operations

func (s *SQLiteStore) ListPlaylists() ([]model.Playlist, error) {
	docs, err := s.listDocs("playlists")
	if err != nil {
		return nil, err
	}
	out := make([]model.Playlist, 0, len(docs))
	for _, doc := range docs {
		var p model.Playlist
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decoding playlist: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *SQLiteStore) GetPlaylist(id string) (*model.Playlist, error) {
	doc, err := s.getDoc("playlists", id)
	if err != nil || doc == nil {
		return nil, err
	}
	var p model.Playlist
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decoding playlist: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) SavePlaylist(playlist *model.Playlist) error {
	doc, err := json.Marshal(playlist)
	if err != nil {
		return fmt.Errorf("encoding playlist: %w", err)
	}
	return s.saveDoc("playlists", playlist.ID, doc, playlist.CreatedAt, playlist.UpdatedAt)
}

func (s *SQLiteStore) DeletePlaylist(id string) error {
	return s.deleteDoc("playlists", id)
}

// Formation template operations

func (s *SQLiteStore) ListFormations() ([]model.FormationTemplate, error) {
	docs, err := s.listDocs("formations")
	if err != nil {
		return nil, err
	}
	out := make([]model.FormationTemplate, 0, len(docs))
	for _, doc := range docs {
		var f model.FormationTemplate
		if err := json.Unmarshal(doc, &f); err != nil {
			return nil, fmt.Errorf("decoding formation: %w", err)
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *SQLiteStore) GetFormation(id string) (*model.FormationTemplate, error) {
	doc, err := s.getDoc("formations", id)
	if err != nil || doc == nil {
		return nil, err
	}
	var f model.FormationTemplate
	if err := json.Unmarshal(doc, &f); err != nil {
		return nil, fmt.Errorf("decoding formation: %w", err)
	}
	return &f, nil
}

func (s *SQLiteStore) SaveFormation(formation *model.FormationTemplate) error {
	doc, err := json.Marshal(formation)
	if err != nil {
		return fmt.Errorf("encoding formation: %w", err)
	}
	return s.saveDoc("formations", formation.ID, doc, formation.CreatedAt, formation.UpdatedAt)
}

func (s *SQLiteStore) DeleteFormation(id string) error {
	return s.deleteDoc("formations", id)
}

// Retained backup operations

func (s *SQLiteStore) ListBackups() ([]model.AutoBackupFileInfo, error) {
	rows, err := s.db.Query(`SELECT document FROM backups ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	defer rows.Close()

	var out []model.AutoBackupFileInfo
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning backup: %w", err)
		}
		var b model.AutoBackupFileInfo
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, fmt.Errorf("decoding backup: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveBackup(backup *model.AutoBackupFileInfo) error {
	doc, err := json.Marshal(backup)
	if err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO backups (id, filename, size, document, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			size = excluded.size,
			document = excluded.document`,
		backup.ID, backup.Filename, backup.Size, doc, backup.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving backup: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteBackup(id string) error {
	return s.deleteDoc("backups", id)
}

// Settings operations

func (s *SQLiteStore) GetSettings() (*model.Settings, error) {
	var doc []byte
	err := s.db.QueryRow(`SELECT document FROM settings WHERE id = 1`).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var settings model.Settings
	if err := json.Unmarshal(doc, &settings); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &settings, nil
}

func (s *SQLiteStore) SaveSettings(settings *model.Settings) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO settings (id, document) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document`, doc)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Shared document helpers. Table names come from the fixed set above, never
// from user input.

func (s *SQLiteStore) listDocs(table string) ([][]byte, error) {
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT document FROM %s ORDER BY created_at DESC, id`, table))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) getDoc(table, id string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRow(fmt.Sprintf(
		`SELECT document FROM %s WHERE id = ?`, table), id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s row: %w", table, err)
	}
	return doc, nil
}

func (s *SQLiteStore) saveDoc(table, id string, doc []byte, createdAt, updatedAt time.Time) error {
	_, err := s.db.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, document, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at`, table),
		id, doc, createdAt, updatedAt)
	if err != nil {
		return fmt.Errorf("saving %s row: %w", table, err)
	}
	return nil
}

func (s *SQLiteStore) deleteDoc(table, id string) error {
	_, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("deleting %s row: %w", table, err)
	}
	return nil
}

// Compile-time check that SQLiteStore implements core.Store
var _ core.Store = (*SQLiteStore)(nil)
