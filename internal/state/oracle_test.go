package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lexingest/internal/domain"
)

func TestIsStale(t *testing.T) {
	asOf := time.Date(2026, 1, 10, 15, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		modified time.Time
		maxYear  int
		want     bool
	}{
		"never modified":          {time.Time{}, 2025, true},
		"modified before year":    {time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 2025, true},
		"modified after year":     {time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 2025, false},
		"same year, earlier date": {time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 2026, true},
		"same year, today":        {time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), 2026, false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, isStale(tc.modified, tc.maxYear, asOf))
		})
	}
}

func TestMaxAffectingYears(t *testing.T) {
	amendments := []domain.Amendment{
		{ChangedURL: "http://www.legislation.gov.uk/id/ukpga/2004/34", AffectingYear: 2023},
		{ChangedURL: "http://www.legislation.gov.uk/id/ukpga/2004/34", AffectingYear: 2025},
		{ChangedURL: "http://www.legislation.gov.uk/id/ukpga/2004/34", AffectingYear: 2024},
		{ChangedURL: "http://www.legislation.gov.uk/id/ukpga/1985/70", AffectingYear: 2024},
	}

	byURL := maxAffectingYears(amendments)

	assert.Equal(t, map[string]int{
		"http://www.legislation.gov.uk/id/ukpga/2004/34": 2025,
		"http://www.legislation.gov.uk/id/ukpga/1985/70": 2024,
	}, byURL)
}

func TestModifiedDate(t *testing.T) {
	assert.Equal(t,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		modifiedDate(map[string]any{"modified_date": "2024-06-01"}))

	assert.True(t, modifiedDate(map[string]any{}).IsZero())
	assert.True(t, modifiedDate(map[string]any{"modified_date": "not a date"}).IsZero())
}
