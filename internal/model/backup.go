package model

import "time"

// BackupFormatVersion is the wire format version written into every export.
const BackupFormatVersion = "1.0.0"

// BackupData carries the full contents of the three primary collections plus
// the settings blob.
type BackupData struct {
	Plays      []Play              `json:"plays"`
	Playlists  []Playlist          `json:"playlists"`
	Formations []FormationTemplate `json:"formations"`
	Settings   *Settings           `json:"settings,omitempty"`
}

// BackupMetadata describes an export. The counts reflect the array lengths at
// creation time; they are not revalidated against the arrays on import.
type BackupMetadata struct {
	TotalPlays      int    `json:"totalPlays"`
	TotalPlaylists  int    `json:"totalPlaylists"`
	TotalFormations int    `json:"totalFormations"`
	ExportedBy      string `json:"exportedBy"`
	AppVersion      string `json:"appVersion"`
}

// BackupDocument is the portable export/import wire format.
type BackupDocument struct {
	Version   string         `json:"version"`
	Timestamp time.Time      `json:"timestamp"`
	Data      BackupData     `json:"data"`
	Metadata  BackupMetadata `json:"metadata"`
}

// AutoBackupFileInfo is a retained backup entry produced by the scheduler or a
// manual trigger. It lives in its own collection, separate from the three
// primary ones, and is pruned most-recent-N.
type AutoBackupFileInfo struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	CreatedAt time.Time      `json:"createdAt"`
	Size      int64          `json:"size"`
	Document  BackupDocument `json:"document"`
}
