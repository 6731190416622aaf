package domain

import "time"

// LegislationType is one of the legislation.gov.uk document type codes.
type LegislationType string

const (
	TypeUKPGA LegislationType = "ukpga" // UK Public General Acts
	TypeUKLA  LegislationType = "ukla"  // UK Local Acts
	TypeUKPPA LegislationType = "ukppa" // UK Private and Personal Acts
	TypeASP   LegislationType = "asp"   // Acts of the Scottish Parliament
	TypeASC   LegislationType = "asc"   // Acts of Senedd Cymru
	TypeANAW  LegislationType = "anaw"  // Acts of the National Assembly for Wales
	TypeMWA   LegislationType = "mwa"   // Measures of the National Assembly for Wales
	TypeUKCM  LegislationType = "ukcm"  // UK Church Measures
	TypeNIA   LegislationType = "nia"   // Acts of the Northern Ireland Assembly
	TypeAOSP  LegislationType = "aosp"  // Acts of the Old Scottish Parliament
	TypeAEP   LegislationType = "aep"   // Acts of the English Parliament
	TypeAIP   LegislationType = "aip"   // Acts of the Old Irish Parliament
	TypeAPGB  LegislationType = "apgb"  // Acts of the Parliament of Great Britain
	TypeGBLA  LegislationType = "gbla"  // Local Acts of the Parliament of Great Britain
	TypeGBPPA LegislationType = "gbppa" // Private and Personal Acts of the Parliament of Great Britain
	TypeMNIA  LegislationType = "mnia"  // Measures of the Northern Ireland Assembly
	TypeAPNI  LegislationType = "apni"  // Acts of the Northern Ireland Parliament
	TypeUKSI  LegislationType = "uksi"  // UK Statutory Instruments
	TypeWSI   LegislationType = "wsi"   // Wales Statutory Instruments
	TypeSSI   LegislationType = "ssi"   // Scottish Statutory Instruments
	TypeNISI  LegislationType = "nisi"  // Northern Ireland Orders in Council
	TypeNISR  LegislationType = "nisr"  // Northern Ireland Statutory Rules
	TypeUKCI  LegislationType = "ukci"  // Church Instruments
	TypeUKMD  LegislationType = "ukmd"  // UK Ministerial Directions
	TypeUKMO  LegislationType = "ukmo"  // UK Ministerial Orders
	TypeUKSRO LegislationType = "uksro" // UK Statutory Rules and Orders
	TypeNISRO LegislationType = "nisro" // Northern Ireland Statutory Rules and Orders
	TypeUKDSI LegislationType = "ukdsi" // UK Draft Statutory Instruments
)

// PrimaryTypes are the acts-of-parliament style types; the "primary"
// shorthand in type selections expands to this set.
func PrimaryTypes() []LegislationType {
	return []LegislationType{
		TypeUKPGA, TypeASP, TypeASC, TypeANAW, TypeMWA, TypeUKCM, TypeNIA, TypeAPNI,
	}
}

// SecondaryTypes are the statutory-instrument style types; the
// "secondary" shorthand in type selections expands to this set.
func SecondaryTypes() []LegislationType {
	return []LegislationType{
		TypeUKSI, TypeWSI, TypeSSI, TypeNISI, TypeNISR, TypeUKCI, TypeUKMO, TypeUKDSI,
	}
}

// AllLegislationTypes returns every known type code.
func AllLegislationTypes() []LegislationType {
	return []LegislationType{
		TypeUKPGA, TypeUKLA, TypeUKPPA, TypeASP, TypeASC, TypeANAW, TypeMWA,
		TypeUKCM, TypeNIA, TypeAOSP, TypeAEP, TypeAIP, TypeAPGB, TypeGBLA,
		TypeGBPPA, TypeMNIA, TypeAPNI, TypeUKSI, TypeWSI, TypeSSI, TypeNISI,
		TypeNISR, TypeUKCI, TypeUKMD, TypeUKMO, TypeUKSRO, TypeNISRO, TypeUKDSI,
	}
}

// Legislation is one act or statutory instrument.
type Legislation struct {
	ID                 string
	Type               LegislationType
	Year               int
	Number             int
	Title              string
	Description        string
	EnactmentDate      time.Time
	ModifiedDate       time.Time
	Status             string
	Extent             string
	NumberOfProvisions int
	CreatedAt          time.Time
}

func (l Legislation) URI() string      { return l.ID }
func (l Legislation) RecordKind() Kind { return KindLegislation }

func (l Legislation) EmbedText() string {
	if l.Description != "" {
		return l.Title + "\n" + l.Description
	}
	return l.Title
}

func (l Legislation) ToPayload() map[string]any {
	return map[string]any{
		"id":                   l.ID,
		"legislation_type":     string(l.Type),
		"year":                 l.Year,
		"number":               l.Number,
		"title":                l.Title,
		"description":          l.Description,
		"enactment_date":       formatDate(l.EnactmentDate),
		"modified_date":        formatDate(l.ModifiedDate),
		"status":               l.Status,
		"extent":               l.Extent,
		"number_of_provisions": l.NumberOfProvisions,
		"created_at":           formatTime(l.CreatedAt),
	}
}

// LegislationFromPayload is the inverse of ToPayload.
func LegislationFromPayload(p map[string]any) Legislation {
	return Legislation{
		ID:                 payloadString(p, "id"),
		Type:               LegislationType(payloadString(p, "legislation_type")),
		Year:               payloadInt(p, "year"),
		Number:             payloadInt(p, "number"),
		Title:              payloadString(p, "title"),
		Description:        payloadString(p, "description"),
		EnactmentDate:      payloadDate(p, "enactment_date"),
		ModifiedDate:       payloadDate(p, "modified_date"),
		Status:             payloadString(p, "status"),
		Extent:             payloadString(p, "extent"),
		NumberOfProvisions: payloadInt(p, "number_of_provisions"),
		CreatedAt:          payloadTime(p, "created_at"),
	}
}

// LegislationSection is one provision of a parent act.
type LegislationSection struct {
	ID              string
	LegislationID   string
	LegislationType LegislationType
	Year            int
	Number          int
	ProvisionType   string
	Title           string
	Text            string
	Extent          string
	CreatedAt       time.Time
}

func (s LegislationSection) URI() string      { return s.ID }
func (s LegislationSection) RecordKind() Kind { return KindLegislationSection }

func (s LegislationSection) EmbedText() string {
	if s.Title != "" {
		return s.Title + "\n" + s.Text
	}
	return s.Text
}

func (s LegislationSection) ToPayload() map[string]any {
	return map[string]any{
		"id":               s.ID,
		"legislation_id":   s.LegislationID,
		"legislation_type": string(s.LegislationType),
		"year":             s.Year,
		"number":           s.Number,
		"provision_type":   s.ProvisionType,
		"title":            s.Title,
		"text":             s.Text,
		"extent":           s.Extent,
		"created_at":       formatTime(s.CreatedAt),
	}
}

// LegislationSectionFromPayload is the inverse of ToPayload.
func LegislationSectionFromPayload(p map[string]any) LegislationSection {
	return LegislationSection{
		ID:              payloadString(p, "id"),
		LegislationID:   payloadString(p, "legislation_id"),
		LegislationType: LegislationType(payloadString(p, "legislation_type")),
		Year:            payloadInt(p, "year"),
		Number:          payloadInt(p, "number"),
		ProvisionType:   payloadString(p, "provision_type"),
		Title:           payloadString(p, "title"),
		Text:            payloadString(p, "text"),
		Extent:          payloadString(p, "extent"),
		CreatedAt:       payloadTime(p, "created_at"),
	}
}
