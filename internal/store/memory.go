package store

import (
	"sort"
	"sync"

	"playbook/internal/core"
	"playbook/internal/model"
)

// MemoryStore is an in-memory implementation of core.Store. It clones on the
// way in and out, so callers never share memory with stored documents. Safe
// for concurrent use. Useful for tests and throwaway sessions.
type MemoryStore struct {
	mu         sync.RWMutex
	plays      map[string]*model.Play
	playlists  map[string]*model.Playlist
	formations map[string]*model.FormationTemplate
	backups    map[string]*model.AutoBackupFileInfo
	settings   *model.Settings
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plays:      make(map[string]*model.Play),
		playlists:  make(map[string]*model.Playlist),
		formations: make(map[string]*model.FormationTemplate),
		backups:    make(map[string]*model.AutoBackupFileInfo),
	}
}

func (m *MemoryStore) ListPlays() ([]model.Play, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Play, 0, len(m.plays))
	for _, p := range m.plays {
		out = append(out, *p.Clone())
	}
	sortByCreated(out, func(p model.Play) (string, int64) {
		return p.ID, p.Metadata.CreatedAt.UnixNano()
	})
	return out, nil
}

func (m *MemoryStore) GetPlay(id string) (*model.Play, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plays[id].Clone(), nil
}

func (m *MemoryStore) SavePlay(play *model.Play) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays[play.ID] = play.Clone()
	return nil
}

func (m *MemoryStore) DeletePlay(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plays, id)
	return nil
}

func (m *MemoryStore) ListPlaylists() ([]model.Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Playlist, 0, len(m.playlists))
	for _, p := range m.playlists {
		out = append(out, *p.Clone())
	}
	sortByCreated(out, func(p model.Playlist) (string, int64) {
		return p.ID, p.CreatedAt.UnixNano()
	})
	return out, nil
}

func (m *MemoryStore) GetPlaylist(id string) (*model.Playlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playlists[id].Clone(), nil
}

func (m *MemoryStore) SavePlaylist(playlist *model.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playlists[playlist.ID] = playlist.Clone()
	return nil
}

func (m *MemoryStore) DeletePlaylist(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.playlists, id)
	return nil
}

func (m *MemoryStore) ListFormations() ([]model.FormationTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.FormationTemplate, 0, len(m.formations))
	for _, f := range m.formations {
		out = append(out, *f.Clone())
	}
	sortByCreated(out, func(f model.FormationTemplate) (string, int64) {
		return f.ID, f.CreatedAt.UnixNano()
	})
	return out, nil
}

func (m *MemoryStore) GetFormation(id string) (*model.FormationTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.formations[id].Clone(), nil
}

func (m *MemoryStore) SaveFormation(formation *model.FormationTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formations[formation.ID] = formation.Clone()
	return nil
}

func (m *MemoryStore) DeleteFormation(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.formations, id)
	return nil
}

func (m *MemoryStore) ListBackups() ([]model.AutoBackupFileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.AutoBackupFileInfo, 0, len(m.backups))
	for _, b := range m.backups {
		out = append(out, *b)
	}
	sortByCreated(out, func(b model.AutoBackupFileInfo) (string, int64) {
		return b.ID, b.CreatedAt.UnixNano()
	})
	return out, nil
}

func (m *MemoryStore) SaveBackup(backup *model.AutoBackupFileInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *backup
	m.backups[backup.ID] = &copied
	return nil
}

func (m *MemoryStore) DeleteBackup(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.backups, id)
	return nil
}

func (m *MemoryStore) GetSettings() (*model.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Clone(), nil
}

func (m *MemoryStore) SaveSettings(settings *model.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings.Clone()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// sortByCreated orders newest first, falling back to id for a stable order
// when timestamps collide.
func sortByCreated[T any](items []T, key func(T) (string, int64)) {
	sort.Slice(items, func(i, j int) bool {
		idI, tsI := key(items[i])
		idJ, tsJ := key(items[j])
		if tsI != tsJ {
			return tsI > tsJ
		}
		return idI < idJ
	})
}

// Compile-time check that MemoryStore implements core.Store
var _ core.Store = (*MemoryStore)(nil)
