package model

import "time"

// Team identifies which side of the ball a player or formation belongs to.
type Team string

const (
	TeamOffense Team = "offense"
	TeamDefense Team = "defense"
)

// PlayType categorizes a play.
type PlayType string

const (
	PlayOffense PlayType = "offense"
	PlayDefense PlayType = "defense"
	PlaySpecial PlayType = "special"
)

// Point is a coordinate on the field, in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayMetadata holds the descriptive attributes of a play.
type PlayMetadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        PlayType  `json:"type"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Field describes the drawing surface a play is diagrammed on.
type Field struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	FieldColor    string  `json:"fieldColor"`
	LineColor     string  `json:"lineColor"`
	ShowYardLines bool    `json:"showYardLines"`
	ShowHashMarks bool    `json:"showHashMarks"`
}

// Player is a single marker placed on the field.
type Player struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Team  Team    `json:"team"`
	Shape string  `json:"shape"` // "circle", "square" or "triangle"
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// Arrow is a route line drawn through one or more path points.
type Arrow struct {
	ID        string  `json:"id"`
	Points    []Point `json:"points"`
	HeadStyle string  `json:"headStyle"` // "arrow", "tee" or "none"
	LineStyle string  `json:"lineStyle"` // "solid", "dashed" or "dotted"
	Color     string  `json:"color"`
	Width     float64 `json:"width"`
}

// TextAnnotation is a free-form text label placed on the field.
type TextAnnotation struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"`
}

// NoteSlots is the number of auxiliary note entries every play carries.
const NoteSlots = 8

// NoteEntry is one auxiliary note slot: a short code with a longer description.
type NoteEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Play is a single football diagram document, the unit of editing.
type Play struct {
	ID       string               `json:"id"`
	Metadata PlayMetadata         `json:"metadata"`
	Field    Field                `json:"field"`
	Players  []Player             `json:"players"`
	Arrows   []Arrow              `json:"arrows"`
	Texts    []TextAnnotation     `json:"texts"`
	Center   *Point               `json:"center,omitempty"`
	Notes    [NoteSlots]NoteEntry `json:"notes"`
}

// Clone returns a deep, independent copy of the play. History snapshots and
// autosave writes always go through Clone so that no two owners share slices
// or the center pointer.
func (p *Play) Clone() *Play {
	if p == nil {
		return nil
	}
	c := *p

	if p.Metadata.Tags != nil {
		c.Metadata.Tags = make([]string, len(p.Metadata.Tags))
		copy(c.Metadata.Tags, p.Metadata.Tags)
	}

	if p.Players != nil {
		c.Players = make([]Player, len(p.Players))
		copy(c.Players, p.Players)
	}

	if p.Arrows != nil {
		c.Arrows = make([]Arrow, len(p.Arrows))
		for i, a := range p.Arrows {
			c.Arrows[i] = a
			if a.Points != nil {
				c.Arrows[i].Points = make([]Point, len(a.Points))
				copy(c.Arrows[i].Points, a.Points)
			}
		}
	}

	if p.Texts != nil {
		c.Texts = make([]TextAnnotation, len(p.Texts))
		copy(c.Texts, p.Texts)
	}

	if p.Center != nil {
		center := *p.Center
		c.Center = &center
	}

	// Notes is a fixed-size array of value types, copied with the struct.
	return &c
}
