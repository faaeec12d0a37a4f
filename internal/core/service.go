package core

import (
	"fmt"

	"playbook/internal/model"
)

// Service is the orchestration layer over the store for everything outside
// the editing session: play/playlist/formation management, playlist
// resolution, and formation application.
type Service struct {
	store  Store
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{store: store, logger: logger, clock: clock, idgen: idgen}
}

// ListPlays returns all stored plays.
func (s *Service) ListPlays() ([]model.Play, error) {
	return s.store.ListPlays()
}

// GetPlay returns a play by id, nil if it does not exist.
func (s *Service) GetPlay(id string) (*model.Play, error) {
	return s.store.GetPlay(id)
}

// SavePlay upserts a play, assigning an id and creation time on first save
// and refreshing updatedAt on every save.
func (s *Service) SavePlay(play *model.Play) error {
	now := s.clock.Now()
	if play.ID == "" {
		play.ID = s.idgen.New()
	}
	if play.Metadata.CreatedAt.IsZero() {
		play.Metadata.CreatedAt = now
	}
	play.Metadata.UpdatedAt = now
	if err := s.store.SavePlay(play); err != nil {
		return fmt.Errorf("saving play: %w", err)
	}
	return nil
}

// DeletePlay removes a play. Playlists referencing it keep their reference;
// ResolvePlaylist surfaces it as missing.
func (s *Service) DeletePlay(id string) error {
	if err := s.store.DeletePlay(id); err != nil {
		return fmt.Errorf("deleting play: %w", err)
	}
	s.logger.Info("play deleted", "play", id)
	return nil
}

// ListPlaylists returns all stored playlists.
func (s *Service) ListPlaylists() ([]model.Playlist, error) {
	return s.store.ListPlaylists()
}

// SavePlaylist upserts a playlist, assigning an id and creation time on first
// save and refreshing updatedAt on every save.
func (s *Service) SavePlaylist(playlist *model.Playlist) error {
	now := s.clock.Now()
	if playlist.ID == "" {
		playlist.ID = s.idgen.New()
	}
	if playlist.CreatedAt.IsZero() {
		playlist.CreatedAt = now
	}
	playlist.UpdatedAt = now
	if err := s.store.SavePlaylist(playlist); err != nil {
		return fmt.Errorf("saving playlist: %w", err)
	}
	return nil
}

// DeletePlaylist removes a playlist.
func (s *Service) DeletePlaylist(id string) error {
	if err := s.store.DeletePlaylist(id); err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	return nil
}

// PlaylistEntry is one resolved playlist position. Missing marks a dangling
// reference to a play that no longer exists; the entry is kept so the reader
// can show it instead of silently dropping it.
type PlaylistEntry struct {
	PlayID  string
	Play    *model.Play
	Missing bool
}

// ResolvePlaylist loads a playlist and resolves its play references in order.
// Dangling references are tolerated and returned with Missing set.
func (s *Service) ResolvePlaylist(id string) (*model.Playlist, []PlaylistEntry, error) {
	playlist, err := s.store.GetPlaylist(id)
	if err != nil {
		return nil, nil, fmt.Errorf("loading playlist: %w", err)
	}
	if playlist == nil {
		return nil, nil, fmt.Errorf("playlist not found: %s", id)
	}

	plays, err := s.store.ListPlays()
	if err != nil {
		return nil, nil, fmt.Errorf("loading plays: %w", err)
	}
	byID := make(map[string]*model.Play, len(plays))
	for i := range plays {
		byID[plays[i].ID] = &plays[i]
	}

	entries := make([]PlaylistEntry, 0, len(playlist.PlayIDs))
	for _, playID := range playlist.PlayIDs {
		play, ok := byID[playID]
		if !ok {
			entries = append(entries, PlaylistEntry{PlayID: playID, Missing: true})
			continue
		}
		entries = append(entries, PlaylistEntry{PlayID: playID, Play: play.Clone()})
	}
	return playlist, entries, nil
}

// ListFormations returns all stored formation templates.
func (s *Service) ListFormations() ([]model.FormationTemplate, error) {
	return s.store.ListFormations()
}

// GetFormation returns a formation template by id, nil if it does not exist.
func (s *Service) GetFormation(id string) (*model.FormationTemplate, error) {
	return s.store.GetFormation(id)
}

// SaveFormation upserts a formation template, assigning an id and creation
// time on first save and refreshing updatedAt on every save.
func (s *Service) SaveFormation(formation *model.FormationTemplate) error {
	now := s.clock.Now()
	if formation.ID == "" {
		formation.ID = s.idgen.New()
	}
	if formation.CreatedAt.IsZero() {
		formation.CreatedAt = now
	}
	formation.UpdatedAt = now
	if err := s.store.SaveFormation(formation); err != nil {
		return fmt.Errorf("saving formation: %w", err)
	}
	return nil
}

// DeleteFormation removes a formation template.
func (s *Service) DeleteFormation(id string) error {
	if err := s.store.DeleteFormation(id); err != nil {
		return fmt.Errorf("deleting formation: %w", err)
	}
	return nil
}

// ApplyFormation replaces the players of the template's team on the play with
// the template's placements. Placements receive fresh ids and are run through
// the position constraints; when the template carries a saved center point
// the play adopts it before the constraint pass.
func (s *Service) ApplyFormation(play *model.Play, formation *model.FormationTemplate) {
	if formation.Center != nil {
		center := *formation.Center
		play.Center = &center
	}

	kept := play.Players[:0:0]
	for _, p := range play.Players {
		if p.Team != formation.Team {
			kept = append(kept, p)
		}
	}

	for _, placement := range formation.Placements {
		x, y := ConstrainPosition(placement.X, placement.Y, formation.Team,
			play.Field.Width, play.Field.Height, play.Center, placement.Size)
		kept = append(kept, model.Player{
			ID:    s.idgen.New(),
			X:     x,
			Y:     y,
			Team:  formation.Team,
			Shape: placement.Shape,
			Size:  placement.Size,
			Color: placement.Color,
			Label: placement.Label,
		})
	}
	play.Players = kept

	s.logger.Info("formation applied",
		"formation", formation.ID, "team", string(formation.Team), "players", len(formation.Placements))
}

// Settings returns the stored settings, falling back to defaults when none
// have been saved yet.
func (s *Service) Settings() (*model.Settings, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if settings == nil {
		settings = model.DefaultSettings()
	}
	return settings, nil
}

// SaveSettings persists the settings blob.
func (s *Service) SaveSettings(settings *model.Settings) error {
	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
