package core

import "playbook/internal/model"

// Store is the persistence collaborator: a simple keyed document store over
// four primary collections (plays, playlists, formations, settings) plus the
// retained-backup collection. Writes are upserts by id and atomic per item;
// there are no cross-collection transactions. Lookups return nil, nil when the
// item does not exist.
type Store interface {
	// Play operations

	ListPlays() ([]model.Play, error)
	GetPlay(id string) (*model.Play, error)
	SavePlay(play *model.Play) error
	DeletePlay(id string) error

	// Playlist operations

	ListPlaylists() ([]model.Playlist, error)
	GetPlaylist(id string) (*model.Playlist, error)
	SavePlaylist(playlist *model.Playlist) error
	DeletePlaylist(id string) error

	// Formation template operations

	ListFormations() ([]model.FormationTemplate, error)
	GetFormation(id string) (*model.FormationTemplate, error)
	SaveFormation(formation *model.FormationTemplate) error
	DeleteFormation(id string) error

	// Retained backup operations

	ListBackups() ([]model.AutoBackupFileInfo, error)
	SaveBackup(backup *model.AutoBackupFileInfo) error
	DeleteBackup(id string) error

	// Settings operations. GetSettings returns nil, nil when no settings have
	// been saved yet; callers fall back to model.DefaultSettings.

	GetSettings() (*model.Settings, error)
	SaveSettings(settings *model.Settings) error

	// Close closes the underlying storage.
	Close() error
}
