package model_test

import (
	"testing"
	"time"

	"playbook/internal/model"
)

func TestBackupInterval_Threshold(t *testing.T) {
	cases := []struct {
		interval model.BackupInterval
		want     time.Duration
	}{
		{model.IntervalDaily, 24 * time.Hour},
		{model.IntervalWeekly, 7 * 24 * time.Hour},
		{model.IntervalMonthly, 30 * 24 * time.Hour},
		{model.BackupInterval("bogus"), 7 * 24 * time.Hour},
	}
	for _, c := range cases {
		if got := c.interval.Threshold(); got != c.want {
			t.Errorf("Threshold(%q) = %v, want %v", c.interval, got, c.want)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	s := model.DefaultSettings()

	if s.Theme != "system" || s.Language != "en" {
		t.Errorf("defaults = %q/%q, want system/en", s.Theme, s.Language)
	}
	if s.AutoBackup.Enabled {
		t.Error("auto-backup enabled by default")
	}
	if s.AutoBackup.Interval != model.IntervalWeekly {
		t.Errorf("default interval = %q, want weekly", s.AutoBackup.Interval)
	}
	if s.AutoBackup.MaxBackupFiles != 5 {
		t.Errorf("default max files = %d, want 5", s.AutoBackup.MaxBackupFiles)
	}
	if !s.AutoBackup.IncludeSettings {
		t.Error("includeSettings false by default")
	}
	if s.AutoBackup.LastBackupDate != nil {
		t.Error("fresh defaults carry a last backup date")
	}
}

func TestSettings_Clone(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	original := model.DefaultSettings()
	original.AutoBackup.LastBackupDate = &at

	clone := original.Clone()
	moved := at.Add(time.Hour)
	*clone.AutoBackup.LastBackupDate = moved

	if !original.AutoBackup.LastBackupDate.Equal(at) {
		t.Error("last backup date mutation leaked into the original")
	}
}
