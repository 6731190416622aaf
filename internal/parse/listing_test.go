package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const judgmentListingHTML = `<html><body>
<ul>
  <li class="judgment-listing__judgment">
    <a href="/ewhc/kb/2024/123">Smith v Jones</a>
  </li>
  <li class="judgment-listing__judgment">
    <a href="https://caselaw.nationalarchives.gov.uk/ewca/civ/2024/45">R v Brown</a>
  </li>
  <li class="judgment-listing__judgment">
    <a href="/ewhc/kb/2024/123">Smith v Jones (duplicate link)</a>
  </li>
</ul>
<nav><a rel="next" href="/judgments/search?page=3">Next</a></nav>
</body></html>`

func TestJudgmentsListing(t *testing.T) {
	listing, err := Judgments([]byte(judgmentListingHTML), "https://caselaw.nationalarchives.gov.uk")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://caselaw.nationalarchives.gov.uk/ewhc/kb/2024/123",
		"https://caselaw.nationalarchives.gov.uk/ewca/civ/2024/45",
	}, listing.DocumentURLs, "relative links resolved, absolute kept, duplicates dropped")
	assert.Equal(t, "https://caselaw.nationalarchives.gov.uk/judgments/search?page=3", listing.NextPage)
}

func TestJudgmentsListingLastPage(t *testing.T) {
	listing, err := Judgments([]byte(`<html><body>
<li class="judgment-listing__judgment"><a href="/uksc/2024/9">Final case</a></li>
</body></html>`), "https://caselaw.nationalarchives.gov.uk")

	require.NoError(t, err)
	assert.Len(t, listing.DocumentURLs, 1)
	assert.Empty(t, listing.NextPage, "no next link means the walk is done")
}

const legislationFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Search Results</title>
  <link rel="self" href="http://www.legislation.gov.uk/ukpga/2024/data.feed?page=1"/>
  <link rel="next" href="http://www.legislation.gov.uk/ukpga/2024/data.feed?page=2"/>
  <entry>
    <id>http://www.legislation.gov.uk/id/ukpga/2024/7</id>
    <title>Housing Act 2024</title>
  </entry>
  <entry>
    <id>  http://www.legislation.gov.uk/id/ukpga/2024/8  </id>
    <title>Finance Act 2024</title>
  </entry>
  <entry>
    <title>Entry with no id is skipped</title>
  </entry>
</feed>`

func TestLegislationFeed(t *testing.T) {
	listing, err := LegislationFeed([]byte(legislationFeedXML))

	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://www.legislation.gov.uk/id/ukpga/2024/7",
		"http://www.legislation.gov.uk/id/ukpga/2024/8",
	}, listing.DocumentURIs)
	assert.True(t, listing.MorePages)
}

func TestLegislationFeedLastPage(t *testing.T) {
	listing, err := LegislationFeed([]byte(`<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <link rel="self" href="http://www.legislation.gov.uk/ukpga/1267/data.feed"/>
  <entry><id>http://www.legislation.gov.uk/id/ukpga/1267/1</id></entry>
</feed>`))

	require.NoError(t, err)
	assert.Len(t, listing.DocumentURIs, 1)
	assert.False(t, listing.MorePages)
}
