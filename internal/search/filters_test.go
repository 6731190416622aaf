package search

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexingest/internal/domain"
)

func conditionByKey(t *testing.T, filter *qdrant.Filter, key string) *qdrant.FieldCondition {
	t.Helper()
	for _, c := range filter.GetMust() {
		if fc := c.GetField(); fc != nil && fc.GetKey() == key {
			return fc
		}
	}
	t.Fatalf("no condition on %q", key)
	return nil
}

func TestBuildFilterEmptyOptionsYieldsNil(t *testing.T) {
	assert.Nil(t, buildFilter(Options{Query: "frustration of contract", Limit: 10}))
}

func TestBuildFilterConditions(t *testing.T) {
	filter := buildFilter(Options{
		Courts:           []domain.Court{"ewhc", "ewca"},
		Divisions:        []domain.Division{domain.DivisionKB},
		LegislationTypes: []domain.LegislationType{"ukpga"},
		YearFrom:         2020,
		YearTo:           2024,
		LegislationID:    "http://www.legislation.gov.uk/id/ukpga/2004/34",
	})

	require.NotNil(t, filter)
	require.Len(t, filter.GetMust(), 5)

	court := conditionByKey(t, filter, "court")
	assert.Equal(t, []string{"ewhc", "ewca"}, court.GetMatch().GetKeywords().GetStrings())

	division := conditionByKey(t, filter, "division")
	assert.Equal(t, []string{"kb"}, division.GetMatch().GetKeywords().GetStrings())

	year := conditionByKey(t, filter, "year")
	require.NotNil(t, year.GetRange())
	assert.Equal(t, float64(2020), year.GetRange().GetGte())
	assert.Equal(t, float64(2024), year.GetRange().GetLte())

	legID := conditionByKey(t, filter, "legislation_id")
	assert.Equal(t, "http://www.legislation.gov.uk/id/ukpga/2004/34", legID.GetMatch().GetKeyword())
}

func TestBuildFilterOpenEndedYearRange(t *testing.T) {
	filter := buildFilter(Options{YearFrom: 2019})

	require.NotNil(t, filter)
	year := conditionByKey(t, filter, "year")
	require.NotNil(t, year.GetRange().Gte)
	assert.Nil(t, year.GetRange().Lte)
}

func TestBuildFilterReferenceField(t *testing.T) {
	leg := buildFilter(Options{ReferenceID: "http://www.legislation.gov.uk/id/ukpga/1985/70"})
	require.NotNil(t, leg)
	assert.Equal(t, "legislation_references", leg.GetMust()[0].GetField().GetKey())

	caselaw := buildFilter(Options{ReferenceID: "https://caselaw.nationalarchives.gov.uk/id/uksc/2020/1"})
	require.NotNil(t, caselaw)
	assert.Equal(t, "caselaw_references", caselaw.GetMust()[0].GetField().GetKey())
}
