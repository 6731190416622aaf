package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexingest/internal/domain"
)

const legislationXML = `<?xml version="1.0" encoding="UTF-8"?>
<Legislation xmlns="http://www.legislation.gov.uk/namespaces/legislation" RestrictExtent="E+W">
  <ukm:Metadata xmlns:ukm="http://www.legislation.gov.uk/namespaces/metadata">
    <dc:title xmlns:dc="http://purl.org/dc/elements/1.1/">Housing Act 2024</dc:title>
    <dc:description xmlns:dc="http://purl.org/dc/elements/1.1/">An Act about housing.</dc:description>
    <dc:modified xmlns:dc="http://purl.org/dc/elements/1.1/">2024-06-01</dc:modified>
    <ukm:PrimaryMetadata>
      <ukm:DocumentClassification>
        <ukm:DocumentCategory Value="primary"/>
        <ukm:DocumentMainType Value="UnitedKingdomPublicGeneralAct"/>
        <ukm:DocumentStatus Value="revised"/>
      </ukm:DocumentClassification>
      <ukm:Year Value="2024"/>
      <ukm:Number Value="7"/>
      <ukm:EnactmentDate Date="2024-05-20"/>
      <ukm:NumberOfProvisions Value="2"/>
    </ukm:PrimaryMetadata>
  </ukm:Metadata>
  <Primary>
    <Body>
      <P1group>
        <Title>Licensing of rented dwellings</Title>
        <P1>
          <Pnumber>1</Pnumber>
          <P1para>
            <Text>A dwelling must be licensed before it is let.</Text>
          </P1para>
        </P1>
      </P1group>
      <P1group>
        <Title>Penalties</Title>
        <P1>
          <Pnumber>2</Pnumber>
          <P1para>
            <Text>A person who lets an unlicensed dwelling commits an offence.</Text>
          </P1para>
        </P1>
      </P1group>
    </Body>
  </Primary>
</Legislation>`

const pdfOnlyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Legislation xmlns="http://www.legislation.gov.uk/namespaces/legislation">
  <ukm:Metadata xmlns:ukm="http://www.legislation.gov.uk/namespaces/metadata" xmlns:atom="http://www.w3.org/2005/Atom">
    <dc:title xmlns:dc="http://purl.org/dc/elements/1.1/">Inclosure Act 1773</dc:title>
    <atom:link rel="alternate" type="application/pdf" title="Original PDF" href="http://www.legislation.gov.uk/ukpga/1773/81/pdfs/ukpga_17730081_en.pdf"/>
  </ukm:Metadata>
</Legislation>`

func TestLegislationParsesMetadataAndSections(t *testing.T) {
	uri := "http://www.legislation.gov.uk/id/ukpga/2024/7"

	leg, sections, err := Legislation(uri, []byte(legislationXML))

	require.NoError(t, err)
	assert.Equal(t, uri, leg.ID)
	assert.Equal(t, "Housing Act 2024", leg.Title)
	assert.Equal(t, "An Act about housing.", leg.Description)
	assert.Equal(t, domain.LegislationType("ukpga"), leg.Type)
	assert.Equal(t, "revised", leg.Status)
	assert.Equal(t, 2024, leg.Year)
	assert.Equal(t, 7, leg.Number)
	assert.Equal(t, "E+W", leg.Extent)
	assert.Equal(t, "2024-05-20", leg.EnactmentDate.Format("2006-01-02"))
	assert.Equal(t, "2024-06-01", leg.ModifiedDate.Format("2006-01-02"))
	assert.Equal(t, 2, leg.NumberOfProvisions)

	require.Len(t, sections, 2)
	assert.Equal(t, uri+"/section/1", sections[0].ID)
	assert.Equal(t, uri+"/section/2", sections[1].ID)
	assert.Equal(t, "Licensing of rented dwellings", sections[0].Title)
	assert.Contains(t, sections[0].Text, "A dwelling must be licensed")
	assert.Equal(t, uri, sections[0].LegislationID)
}

func TestLegislationWithoutBodySignalsPDFOnly(t *testing.T) {
	leg, sections, err := Legislation("http://www.legislation.gov.uk/id/ukpga/1773/81", []byte(pdfOnlyXML))

	assert.ErrorIs(t, err, ErrNoBody)
	assert.Empty(t, sections)
	// Metadata survives so the caller can still log the title.
	assert.Equal(t, "Inclosure Act 1773", leg.Title)
}

func TestPDFLink(t *testing.T) {
	assert.Equal(t,
		"http://www.legislation.gov.uk/ukpga/1773/81/pdfs/ukpga_17730081_en.pdf",
		PDFLink([]byte(pdfOnlyXML)))

	assert.Empty(t, PDFLink([]byte(legislationXML)))
}

func TestLegislationRejectsGarbage(t *testing.T) {
	_, _, err := Legislation("http://x", []byte("not xml at all <<<"))
	assert.Error(t, err)
}
