package store_test

import (
	"testing"
	"time"

	"playbook/internal/core"
	"playbook/internal/model"
	"playbook/internal/store"
)

// stores returns every core.Store implementation under test, so the whole
// contract suite runs against each.
func stores(t *testing.T) map[string]core.Store {
	t.Helper()

	sqlite, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]core.Store{
		"memory": store.NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func playAt(id, title string, createdAt time.Time) *model.Play {
	return &model.Play{
		ID: id,
		Metadata: model.PlayMetadata{
			Title:     title,
			Type:      model.PlayOffense,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		Field: model.Field{Width: 800, Height: 450},
	}
}

func TestStore_Plays(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("get returns nil for an unknown id", func(t *testing.T) {
				play, err := s.GetPlay("missing")
				if err != nil {
					t.Fatalf("GetPlay() error = %v", err)
				}
				if play != nil {
					t.Errorf("GetPlay() = %v, want nil", play)
				}
			})

			t.Run("save and get round-trip", func(t *testing.T) {
				if err := s.SavePlay(playAt("p1", "Slant Right", base)); err != nil {
					t.Fatalf("SavePlay() error = %v", err)
				}
				play, err := s.GetPlay("p1")
				if err != nil || play == nil {
					t.Fatalf("GetPlay() = %v, %v", play, err)
				}
				if play.Metadata.Title != "Slant Right" {
					t.Errorf("Title = %q", play.Metadata.Title)
				}
				if !play.Metadata.CreatedAt.Equal(base) {
					t.Errorf("CreatedAt = %v, want %v", play.Metadata.CreatedAt, base)
				}
			})

			t.Run("save with an existing id replaces", func(t *testing.T) {
				updated := playAt("p1", "Slant Left", base)
				if err := s.SavePlay(updated); err != nil {
					t.Fatalf("SavePlay() error = %v", err)
				}
				play, _ := s.GetPlay("p1")
				if play.Metadata.Title != "Slant Left" {
					t.Errorf("Title after upsert = %q, want %q", play.Metadata.Title, "Slant Left")
				}
				plays, _ := s.ListPlays()
				if len(plays) != 1 {
					t.Errorf("ListPlays() = %d entries after upsert, want 1", len(plays))
				}
			})

			t.Run("list orders newest first", func(t *testing.T) {
				s.SavePlay(playAt("p2", "Cover 2", base.Add(time.Hour)))
				s.SavePlay(playAt("p3", "Draw", base.Add(2*time.Hour)))

				plays, err := s.ListPlays()
				if err != nil {
					t.Fatalf("ListPlays() error = %v", err)
				}
				if len(plays) != 3 {
					t.Fatalf("ListPlays() = %d entries, want 3", len(plays))
				}
				if plays[0].ID != "p3" || plays[1].ID != "p2" || plays[2].ID != "p1" {
					t.Errorf("order = %s, %s, %s, want p3, p2, p1", plays[0].ID, plays[1].ID, plays[2].ID)
				}
			})

			t.Run("delete removes the play", func(t *testing.T) {
				if err := s.DeletePlay("p1"); err != nil {
					t.Fatalf("DeletePlay() error = %v", err)
				}
				play, _ := s.GetPlay("p1")
				if play != nil {
					t.Error("play still present after delete")
				}
			})

			t.Run("delete of an unknown id is a no-op", func(t *testing.T) {
				if err := s.DeletePlay("missing"); err != nil {
					t.Errorf("DeletePlay() error = %v, want nil", err)
				}
			})
		})
	}
}

func TestStore_Playlists(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			playlist := &model.Playlist{
				ID:        "l1",
				Title:     "Red Zone",
				PlayIDs:   []string{"p1", "p2"},
				CreatedAt: base,
				UpdatedAt: base,
			}
			if err := s.SavePlaylist(playlist); err != nil {
				t.Fatalf("SavePlaylist() error = %v", err)
			}

			got, err := s.GetPlaylist("l1")
			if err != nil || got == nil {
				t.Fatalf("GetPlaylist() = %v, %v", got, err)
			}
			if len(got.PlayIDs) != 2 || got.PlayIDs[0] != "p1" {
				t.Errorf("PlayIDs = %v, want order preserved", got.PlayIDs)
			}

			if err := s.DeletePlaylist("l1"); err != nil {
				t.Fatalf("DeletePlaylist() error = %v", err)
			}
			if got, _ := s.GetPlaylist("l1"); got != nil {
				t.Error("playlist still present after delete")
			}
		})
	}
}

func TestStore_Formations(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			formation := &model.FormationTemplate{
				ID:         "f1",
				Name:       "I-Form",
				Team:       model.TeamOffense,
				Placements: []model.Placement{{X: 400, Y: 380, Shape: "circle", Size: 20}},
				Center:     &model.Point{X: 400, Y: 300},
				CreatedAt:  base,
				UpdatedAt:  base,
			}
			if err := s.SaveFormation(formation); err != nil {
				t.Fatalf("SaveFormation() error = %v", err)
			}

			got, err := s.GetFormation("f1")
			if err != nil || got == nil {
				t.Fatalf("GetFormation() = %v, %v", got, err)
			}
			if len(got.Placements) != 1 || got.Center == nil || got.Center.Y != 300 {
				t.Errorf("formation round-trip lost placements or center: %+v", got)
			}

			formations, err := s.ListFormations()
			if err != nil || len(formations) != 1 {
				t.Fatalf("ListFormations() = %d, %v", len(formations), err)
			}

			if err := s.DeleteFormation("f1"); err != nil {
				t.Fatalf("DeleteFormation() error = %v", err)
			}
			if got, _ := s.GetFormation("f1"); got != nil {
				t.Error("formation still present after delete")
			}
		})
	}
}

func TestStore_Backups(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i, id := range []string{"b1", "b2", "b3"} {
				err := s.SaveBackup(&model.AutoBackupFileInfo{
					ID:        id,
					Filename:  id + ".json",
					CreatedAt: base.Add(time.Duration(i) * time.Hour),
					Size:      int64(100 + i),
					Document:  model.BackupDocument{Version: model.BackupFormatVersion},
				})
				if err != nil {
					t.Fatalf("SaveBackup(%s) error = %v", id, err)
				}
			}

			backups, err := s.ListBackups()
			if err != nil {
				t.Fatalf("ListBackups() error = %v", err)
			}
			if len(backups) != 3 {
				t.Fatalf("ListBackups() = %d entries, want 3", len(backups))
			}
			if backups[0].ID != "b3" || backups[2].ID != "b1" {
				t.Errorf("order = %s ... %s, want newest first", backups[0].ID, backups[2].ID)
			}
			if backups[0].Filename != "b3.json" || backups[0].Size != 102 {
				t.Errorf("entry = %q/%d, want b3.json/102", backups[0].Filename, backups[0].Size)
			}
			if backups[0].Document.Version != model.BackupFormatVersion {
				t.Errorf("document version = %q", backups[0].Document.Version)
			}

			if err := s.DeleteBackup("b2"); err != nil {
				t.Fatalf("DeleteBackup() error = %v", err)
			}
			backups, _ = s.ListBackups()
			if len(backups) != 2 {
				t.Errorf("ListBackups() = %d entries after delete, want 2", len(backups))
			}
		})
	}
}

func TestStore_Settings(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("unset settings read as nil", func(t *testing.T) {
				settings, err := s.GetSettings()
				if err != nil {
					t.Fatalf("GetSettings() error = %v", err)
				}
				if settings != nil {
					t.Errorf("GetSettings() = %v, want nil", settings)
				}
			})

			t.Run("save and get round-trip", func(t *testing.T) {
				at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
				in := model.DefaultSettings()
				in.Theme = "dark"
				in.AutoBackup.Enabled = true
				in.AutoBackup.LastBackupDate = &at

				if err := s.SaveSettings(in); err != nil {
					t.Fatalf("SaveSettings() error = %v", err)
				}
				got, err := s.GetSettings()
				if err != nil || got == nil {
					t.Fatalf("GetSettings() = %v, %v", got, err)
				}
				if got.Theme != "dark" || !got.AutoBackup.Enabled {
					t.Errorf("settings = %+v", got)
				}
				if got.AutoBackup.LastBackupDate == nil || !got.AutoBackup.LastBackupDate.Equal(at) {
					t.Errorf("LastBackupDate = %v, want %v", got.AutoBackup.LastBackupDate, at)
				}
			})

			t.Run("save replaces the single slot", func(t *testing.T) {
				in := model.DefaultSettings()
				in.Theme = "light"
				if err := s.SaveSettings(in); err != nil {
					t.Fatalf("SaveSettings() error = %v", err)
				}
				got, _ := s.GetSettings()
				if got.Theme != "light" {
					t.Errorf("Theme = %q after overwrite, want light", got.Theme)
				}
			})
		})
	}
}

func TestMemoryStore_Isolation(t *testing.T) {
	s := store.NewMemoryStore()

	original := playAt("p1", "Slant Right", time.Now())
	original.Players = []model.Player{{ID: "pl1", X: 400, Y: 380}}
	if err := s.SavePlay(original); err != nil {
		t.Fatal(err)
	}

	// Mutating the saved document must not reach the store.
	original.Players[0].X = 999
	got, _ := s.GetPlay("p1")
	if got.Players[0].X != 400 {
		t.Error("mutation of the saved document leaked into the store")
	}

	// Mutating a fetched document must not reach the store either.
	got.Players[0].X = 999
	again, _ := s.GetPlay("p1")
	if again.Players[0].X != 400 {
		t.Error("mutation of a fetched document leaked into the store")
	}
}

func TestSQLiteStore_Migrations(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()

	if err := s.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() error = %v", err)
	}
}
