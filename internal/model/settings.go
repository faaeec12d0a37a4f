package model

import "time"

// BackupInterval is how often the auto-backup scheduler considers a backup due.
type BackupInterval string

const (
	IntervalDaily   BackupInterval = "daily"
	IntervalWeekly  BackupInterval = "weekly"
	IntervalMonthly BackupInterval = "monthly"
)

// Threshold returns the elapsed time after which a backup of this interval is
// due. Unknown intervals fall back to weekly.
func (i BackupInterval) Threshold() time.Duration {
	switch i {
	case IntervalDaily:
		return 24 * time.Hour
	case IntervalMonthly:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// AutoBackupSettings controls the auto-backup scheduler.
type AutoBackupSettings struct {
	Enabled         bool           `json:"enabled"`
	Interval        BackupInterval `json:"interval"`
	MaxBackupFiles  int            `json:"maxBackupFiles"`
	IncludeSettings bool           `json:"includeSettings"`
	FilenamePrefix  string         `json:"filenamePrefix,omitempty"`
	LastBackupDate  *time.Time     `json:"lastBackupDate"`
}

// Settings is the user-level settings blob persisted alongside the three
// primary collections.
type Settings struct {
	Theme      string             `json:"theme"`
	Language   string             `json:"language"`
	AutoBackup AutoBackupSettings `json:"autoBackup"`
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := *s
	if s.AutoBackup.LastBackupDate != nil {
		t := *s.AutoBackup.LastBackupDate
		c.AutoBackup.LastBackupDate = &t
	}
	return &c
}

// DefaultSettings returns the settings used when the store has none yet.
func DefaultSettings() *Settings {
	return &Settings{
		Theme:    "system",
		Language: "en",
		AutoBackup: AutoBackupSettings{
			Enabled:         false,
			Interval:        IntervalWeekly,
			MaxBackupFiles:  5,
			IncludeSettings: true,
		},
	}
}
