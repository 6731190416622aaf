package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrAmendmentURL is returned when an amendment row is missing either the
// changed or the affecting URL. The id format embeds both, so an empty URL
// would collide with every other amendment sharing the remaining URL.
var ErrAmendmentURL = errors.New("amendment requires both changed and affecting URLs")

// Amendment is one edge in the bipartite legislation-change graph. Two runs
// that see the same changes-table row construct the same id.
type Amendment struct {
	ID string

	ChangedLegislation  string
	ChangedYear         int
	ChangedNumber       int
	ChangedURL          string
	ChangedProvision    string
	ChangedProvisionURL string

	AffectingLegislation  string
	AffectingYear         int
	AffectingNumber       int
	AffectingURL          string
	AffectingProvision    string
	AffectingProvisionURL string

	TypeOfEffect  string
	AIExplanation string
	CreatedAt     time.Time
}

// NewAmendment constructs an amendment with its deterministic id. Both URLs
// are mandatory.
func NewAmendment(changedURL, affectingURL string) (Amendment, error) {
	if changedURL == "" || affectingURL == "" {
		return Amendment{}, ErrAmendmentURL
	}
	return Amendment{
		ID:           AmendmentID(changedURL, affectingURL),
		ChangedURL:   changedURL,
		AffectingURL: affectingURL,
	}, nil
}

// AmendmentID is the symmetric-under-rescrape identity for an amendment row.
func AmendmentID(changedURL, affectingURL string) string {
	return fmt.Sprintf("changed-%s-affecting-%s", changedURL, affectingURL)
}

func (a Amendment) URI() string      { return a.ID }
func (a Amendment) RecordKind() Kind { return KindAmendment }

func (a Amendment) EmbedText() string {
	return fmt.Sprintf("%s %s %s affected by %s %s",
		a.ChangedLegislation, a.ChangedProvision, a.TypeOfEffect,
		a.AffectingLegislation, a.AffectingProvision)
}

func (a Amendment) ToPayload() map[string]any {
	return map[string]any{
		"id":                      a.ID,
		"changed_legislation":     a.ChangedLegislation,
		"changed_year":            a.ChangedYear,
		"changed_number":          a.ChangedNumber,
		"changed_url":             a.ChangedURL,
		"changed_provision":       a.ChangedProvision,
		"changed_provision_url":   a.ChangedProvisionURL,
		"affecting_legislation":   a.AffectingLegislation,
		"affecting_year":          a.AffectingYear,
		"affecting_number":        a.AffectingNumber,
		"affecting_url":           a.AffectingURL,
		"affecting_provision":     a.AffectingProvision,
		"affecting_provision_url": a.AffectingProvisionURL,
		"type_of_effect":          a.TypeOfEffect,
		"ai_explanation":          a.AIExplanation,
		"created_at":              formatTime(a.CreatedAt),
	}
}

// AmendmentFromPayload is the inverse of ToPayload.
func AmendmentFromPayload(p map[string]any) Amendment {
	return Amendment{
		ID:                    payloadString(p, "id"),
		ChangedLegislation:    payloadString(p, "changed_legislation"),
		ChangedYear:           payloadInt(p, "changed_year"),
		ChangedNumber:         payloadInt(p, "changed_number"),
		ChangedURL:            payloadString(p, "changed_url"),
		ChangedProvision:      payloadString(p, "changed_provision"),
		ChangedProvisionURL:   payloadString(p, "changed_provision_url"),
		AffectingLegislation:  payloadString(p, "affecting_legislation"),
		AffectingYear:         payloadInt(p, "affecting_year"),
		AffectingNumber:       payloadInt(p, "affecting_number"),
		AffectingURL:          payloadString(p, "affecting_url"),
		AffectingProvision:    payloadString(p, "affecting_provision"),
		AffectingProvisionURL: payloadString(p, "affecting_provision_url"),
		TypeOfEffect:          payloadString(p, "type_of_effect"),
		AIExplanation:         payloadString(p, "ai_explanation"),
		CreatedAt:             payloadTime(p, "created_at"),
	}
}
