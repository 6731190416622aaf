package domain

import "time"

// NoteType classifies an explanatory note block.
type NoteType string

const (
	NoteOverview         NoteType = "overview"
	NotePolicyBackground NoteType = "policy_background"
	NoteLegalBackground  NoteType = "legal_background"
	NoteExtent           NoteType = "extent"
	NoteProvisions       NoteType = "provisions"
	NoteCommencement     NoteType = "commencement"
)

// SectionType is the structural unit an explanatory note annotates.
type SectionType string

const (
	SectionTypeSection  SectionType = "section"
	SectionTypeSchedule SectionType = "schedule"
	SectionTypePart     SectionType = "part"
)

// ExplanatoryNote is one ordered note block attached to a piece of
// legislation. Route is the breadcrumb of titles from the document root
// down to this block; Order is monotonically increasing within a parent.
type ExplanatoryNote struct {
	ID            string
	LegislationID string
	NoteType      NoteType
	SectionType   SectionType
	SectionNumber int
	Route         []string
	Order         int
	Text          string
	CreatedAt     time.Time
}

func (n ExplanatoryNote) URI() string       { return n.ID }
func (n ExplanatoryNote) RecordKind() Kind  { return KindExplanatoryNote }
func (n ExplanatoryNote) EmbedText() string { return n.Text }

func (n ExplanatoryNote) ToPayload() map[string]any {
	return map[string]any{
		"id":             n.ID,
		"legislation_id": n.LegislationID,
		"note_type":      string(n.NoteType),
		"section_type":   string(n.SectionType),
		"section_number": n.SectionNumber,
		"route":          n.Route,
		"order":          n.Order,
		"text":           n.Text,
		"created_at":     formatTime(n.CreatedAt),
	}
}

// ExplanatoryNoteFromPayload is the inverse of ToPayload.
func ExplanatoryNoteFromPayload(p map[string]any) ExplanatoryNote {
	return ExplanatoryNote{
		ID:            payloadString(p, "id"),
		LegislationID: payloadString(p, "legislation_id"),
		NoteType:      NoteType(payloadString(p, "note_type")),
		SectionType:   SectionType(payloadString(p, "section_type")),
		SectionNumber: payloadInt(p, "section_number"),
		Route:         payloadStrings(p, "route"),
		Order:         payloadInt(p, "order"),
		Text:          payloadString(p, "text"),
		CreatedAt:     payloadTime(p, "created_at"),
	}
}
