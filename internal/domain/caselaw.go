package domain

import "time"

// Court is a judgments-archive court code.
type Court string

const (
	CourtUKSC  Court = "uksc"  // Supreme Court
	CourtUKPC  Court = "ukpc"  // Privy Council
	CourtEWCA  Court = "ewca"  // Court of Appeal
	CourtEWHC  Court = "ewhc"  // High Court
	CourtEWCOP Court = "ewcop" // Court of Protection
	CourtEWFC  Court = "ewfc"  // Family Court
	CourtUKUT  Court = "ukut"  // Upper Tribunal
	CourtUKEAT Court = "ukeat" // Employment Appeal Tribunal
	CourtUKFTT Court = "ukftt" // First-tier Tribunal
	CourtEWCC  Court = "ewcc"  // County Court
	CourtEWCR  Court = "ewcr"  // Crown Court
)

// AllCourts returns every known court code.
func AllCourts() []Court {
	return []Court{
		CourtUKSC, CourtUKPC, CourtEWCA, CourtEWHC, CourtEWCOP, CourtEWFC,
		CourtUKUT, CourtUKEAT, CourtUKFTT, CourtEWCC, CourtEWCR,
	}
}

// Division is a within-court division code.
type Division string

const (
	DivisionCivil      Division = "civ"
	DivisionCriminal   Division = "crim"
	DivisionKB         Division = "kb"
	DivisionQB         Division = "qb"
	DivisionChancery   Division = "ch"
	DivisionFamily     Division = "fam"
	DivisionAdmin      Division = "admin"
	DivisionCommercial Division = "comm"
	DivisionAdmiralty  Division = "admlty"
	DivisionTCC        Division = "tcc"
	DivisionPatents    Division = "pat"
	DivisionIPEC       Division = "ipec"
	DivisionSCCO       Division = "scco"
	DivisionMercantile Division = "mercantile"
)

// Caselaw is one judgment. Immutable after scrape except for summary
// attachment, which lives in its own collection.
type Caselaw struct {
	ID                    string
	Court                 Court
	Division              Division
	Year                  int
	Number                int
	Name                  string
	CiteAs                string
	Date                  time.Time
	Text                  string
	CaselawReferences     []string
	LegislationReferences []string
	CreatedAt             time.Time
}

func (c Caselaw) URI() string      { return c.ID }
func (c Caselaw) RecordKind() Kind { return KindCaselaw }

func (c Caselaw) EmbedText() string {
	return c.Name + "\n" + c.Text
}

func (c Caselaw) ToPayload() map[string]any {
	return map[string]any{
		"id":                     c.ID,
		"court":                  string(c.Court),
		"division":               string(c.Division),
		"year":                   c.Year,
		"number":                 c.Number,
		"name":                   c.Name,
		"cite_as":                c.CiteAs,
		"date":                   formatDate(c.Date),
		"text":                   c.Text,
		"caselaw_references":     c.CaselawReferences,
		"legislation_references": c.LegislationReferences,
		"created_at":             formatTime(c.CreatedAt),
	}
}

// CaselawFromPayload is the inverse of ToPayload.
func CaselawFromPayload(p map[string]any) Caselaw {
	return Caselaw{
		ID:                    payloadString(p, "id"),
		Court:                 Court(payloadString(p, "court")),
		Division:              Division(payloadString(p, "division")),
		Year:                  payloadInt(p, "year"),
		Number:                payloadInt(p, "number"),
		Name:                  payloadString(p, "name"),
		CiteAs:                payloadString(p, "cite_as"),
		Date:                  payloadDate(p, "date"),
		Text:                  payloadString(p, "text"),
		CaselawReferences:     payloadStrings(p, "caselaw_references"),
		LegislationReferences: payloadStrings(p, "legislation_references"),
		CreatedAt:             payloadTime(p, "created_at"),
	}
}

// CaselawSection is one ordered block of a judgment.
type CaselawSection struct {
	ID        string
	CaselawID string
	Court     Court
	Division  Division
	Year      int
	Number    int
	CiteAs    string
	Route     []string
	Order     int
	Text      string
	CreatedAt time.Time
}

func (s CaselawSection) URI() string       { return s.ID }
func (s CaselawSection) RecordKind() Kind  { return KindCaselawSection }
func (s CaselawSection) EmbedText() string { return s.Text }

func (s CaselawSection) ToPayload() map[string]any {
	return map[string]any{
		"id":         s.ID,
		"caselaw_id": s.CaselawID,
		"court":      string(s.Court),
		"division":   string(s.Division),
		"year":       s.Year,
		"number":     s.Number,
		"cite_as":    s.CiteAs,
		"route":      s.Route,
		"order":      s.Order,
		"text":       s.Text,
		"created_at": formatTime(s.CreatedAt),
	}
}

// CaselawSectionFromPayload is the inverse of ToPayload.
func CaselawSectionFromPayload(p map[string]any) CaselawSection {
	return CaselawSection{
		ID:        payloadString(p, "id"),
		CaselawID: payloadString(p, "caselaw_id"),
		Court:     Court(payloadString(p, "court")),
		Division:  Division(payloadString(p, "division")),
		Year:      payloadInt(p, "year"),
		Number:    payloadInt(p, "number"),
		CiteAs:    payloadString(p, "cite_as"),
		Route:     payloadStrings(p, "route"),
		Order:     payloadInt(p, "order"),
		Text:      payloadString(p, "text"),
		CreatedAt: payloadTime(p, "created_at"),
	}
}

// CaselawSummary is the stage-2 AI summary of a judgment, denormalised so
// summary search never joins back to the parent.
type CaselawSummary struct {
	ID                  string
	CaselawID           string
	Court               Court
	Division            Division
	Year                int
	Number              int
	Name                string
	CiteAs              string
	Date                time.Time
	Text                string
	AIModel             string
	AITimestamp         time.Time
	SourceTextLength    int
	SourceTextTruncated bool
	CreatedAt           time.Time
}

// SummaryID derives the summary identity from its parent judgment.
func SummaryID(caselawID string) string { return caselawID + "-summary" }

func (s CaselawSummary) URI() string       { return s.ID }
func (s CaselawSummary) RecordKind() Kind  { return KindCaselawSummary }
func (s CaselawSummary) EmbedText() string { return s.Text }

func (s CaselawSummary) ToPayload() map[string]any {
	return map[string]any{
		"id":                    s.ID,
		"caselaw_id":            s.CaselawID,
		"court":                 string(s.Court),
		"division":              string(s.Division),
		"year":                  s.Year,
		"number":                s.Number,
		"name":                  s.Name,
		"cite_as":               s.CiteAs,
		"date":                  formatDate(s.Date),
		"text":                  s.Text,
		"ai_model":              s.AIModel,
		"ai_timestamp":          formatTime(s.AITimestamp),
		"source_text_length":    s.SourceTextLength,
		"source_text_truncated": s.SourceTextTruncated,
		"created_at":            formatTime(s.CreatedAt),
	}
}

// CaselawSummaryFromPayload is the inverse of ToPayload.
func CaselawSummaryFromPayload(p map[string]any) CaselawSummary {
	return CaselawSummary{
		ID:                  payloadString(p, "id"),
		CaselawID:           payloadString(p, "caselaw_id"),
		Court:               Court(payloadString(p, "court")),
		Division:            Division(payloadString(p, "division")),
		Year:                payloadInt(p, "year"),
		Number:              payloadInt(p, "number"),
		Name:                payloadString(p, "name"),
		CiteAs:              payloadString(p, "cite_as"),
		Date:                payloadDate(p, "date"),
		Text:                payloadString(p, "text"),
		AIModel:             payloadString(p, "ai_model"),
		AITimestamp:         payloadTime(p, "ai_timestamp"),
		SourceTextLength:    payloadInt(p, "source_text_length"),
		SourceTextTruncated: payloadBool(p, "source_text_truncated"),
		CreatedAt:           payloadTime(p, "created_at"),
	}
}
