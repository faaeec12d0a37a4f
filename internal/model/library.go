package model

import "time"

// Playlist is a named, ordered list of play references. Plays are referenced
// by id only; a deleted play leaves a dangling reference that readers must
// tolerate and surface as missing rather than fail on.
type Playlist struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PlayIDs     []string  `json:"playIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the playlist.
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	c := *p
	if p.PlayIDs != nil {
		c.PlayIDs = make([]string, len(p.PlayIDs))
		copy(c.PlayIDs, p.PlayIDs)
	}
	return &c
}

// Placement is a player position within a formation template. Placements have
// no identifier; they get fresh ids when the template is applied to a play.
type Placement struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shape string  `json:"shape"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// FormationTemplate is a reusable, named arrangement of players for one team side.
type FormationTemplate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Team        Team        `json:"team"`
	Placements  []Placement `json:"placements"`
	Center      *Point      `json:"center,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Clone returns a deep copy of the formation template.
func (f *FormationTemplate) Clone() *FormationTemplate {
	if f == nil {
		return nil
	}
	c := *f
	if f.Placements != nil {
		c.Placements = make([]Placement, len(f.Placements))
		copy(c.Placements, f.Placements)
	}
	if f.Center != nil {
		center := *f.Center
		c.Center = &center
	}
	return &c
}
