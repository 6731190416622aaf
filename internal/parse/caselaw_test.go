package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexingest/internal/domain"
)

const judgmentXML = `<?xml version="1.0" encoding="UTF-8"?>
<akomaNtoso xmlns="http://docs.oasis-open.org/legaldocml/ns/akn/3.0"
            xmlns:uk="https://caselaw.nationalarchives.gov.uk/akn">
  <judgment name="judgment">
    <meta>
      <identification>
        <FRBRWork>
          <FRBRthis value="https://caselaw.nationalarchives.gov.uk/id/ewhc/kb/2024/123"/>
          <FRBRdate date="2024-03-15" name="judgment"/>
          <FRBRname value="Smith v Jones"/>
        </FRBRWork>
      </identification>
      <proprietary>
        <uk:court>EWHC-KB</uk:court>
        <uk:cite>[2024] EWHC 123 (KB)</uk:cite>
        <uk:year>2024</uk:year>
        <uk:number>123</uk:number>
      </proprietary>
    </meta>
    <judgmentBody>
      <level>
        <heading>Introduction</heading>
        <paragraph>
          <content><p>The claimant seeks damages for breach of a tenancy agreement,
          relying on <ref href="http://www.legislation.gov.uk/id/ukpga/1985/70">the 1985 Act</ref>.</p></content>
        </paragraph>
        <paragraph>
          <content><p>The defendant relies on
          <ref href="https://caselaw.nationalarchives.gov.uk/id/uksc/2020/1">an earlier appeal</ref> and again on
          <ref href="http://www.legislation.gov.uk/id/ukpga/1985/70">the 1985 Act</ref>.</p></content>
        </paragraph>
      </level>
      <decision>
        <paragraph>
          <content><p>The claim succeeds.</p></content>
        </paragraph>
      </decision>
    </judgmentBody>
  </judgment>
</akomaNtoso>`

func TestCaselawParsesMetadata(t *testing.T) {
	c, sections, err := Caselaw("https://example.invalid/fallback", []byte(judgmentXML))

	require.NoError(t, err)
	// FRBRthis wins over the fetch URL.
	assert.Equal(t, "https://caselaw.nationalarchives.gov.uk/id/ewhc/kb/2024/123", c.ID)
	assert.Equal(t, "Smith v Jones", c.Name)
	assert.Equal(t, domain.Court("ewhc"), c.Court)
	assert.Equal(t, domain.DivisionKB, c.Division)
	assert.Equal(t, "[2024] EWHC 123 (KB)", c.CiteAs)
	assert.Equal(t, 2024, c.Year)
	assert.Equal(t, 123, c.Number)
	assert.Equal(t, "2024-03-15", c.Date.Format("2006-01-02"))

	require.Len(t, sections, 3)
	assert.Equal(t, c.ID+"/section/1", sections[0].ID)
	assert.Equal(t, []string{"Introduction"}, sections[0].Route)
	assert.Equal(t, 1, sections[0].Order)
	assert.Contains(t, sections[0].Text, "breach of a tenancy agreement")
	assert.Equal(t, c.ID, sections[0].CaselawID)

	// The decision paragraph has no heading; its route falls back to the
	// case name.
	assert.Equal(t, []string{"Smith v Jones"}, sections[2].Route)
	assert.Contains(t, sections[2].Text, "The claim succeeds.")

	assert.Contains(t, c.Text, "breach of a tenancy agreement")
	assert.Contains(t, c.Text, "The claim succeeds.")
}

func TestCaselawReferencesAreDeduplicated(t *testing.T) {
	c, _, err := Caselaw("https://example.invalid/x", []byte(judgmentXML))

	require.NoError(t, err)
	assert.Equal(t, []string{"http://www.legislation.gov.uk/id/ukpga/1985/70"}, c.LegislationReferences)
	assert.Equal(t, []string{"https://caselaw.nationalarchives.gov.uk/id/uksc/2020/1"}, c.CaselawReferences)
}

func TestSplitCourt(t *testing.T) {
	tests := map[string]struct {
		in           domain.Court
		wantCourt    domain.Court
		wantDivision domain.Division
	}{
		"hyphenated":     {"EWHC-KB", "ewhc", domain.DivisionKB},
		"slash":          {"ewca/civ", "ewca", domain.DivisionCivil},
		"space":          {"ewhc admin", "ewhc", domain.DivisionAdmin},
		"no division":    {"UKSC", "uksc", ""},
		"unknown suffix": {"ewhc-misc", "ewhc", "misc"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			court, division := splitCourt(tc.in)
			assert.Equal(t, tc.wantCourt, court)
			assert.Equal(t, tc.wantDivision, division)
		})
	}
}
