package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexingest/internal/domain"
)

const changesPageHTML = `<html><body>
<table>
<tbody>
<tr>
  <td><a href="http://www.legislation.gov.uk/id/ukpga/2004/34">Housing Act 2004</a></td>
  <td>2004 c. 34</td>
  <td><a href="http://www.legislation.gov.uk/id/ukpga/2004/34/section/72">s. 72</a></td>
  <td>words substituted</td>
  <td><a href="http://www.legislation.gov.uk/id/ukpga/2025/3">Renters Act 2025</a></td>
  <td>2025 c. 3</td>
  <td><a href="http://www.legislation.gov.uk/id/ukpga/2025/3/schedule/2">Sch. 2 para. 5</a></td>
</tr>
<tr>
  <td>Row missing its links</td>
  <td>1999 c. 8</td>
  <td>s. 1</td>
  <td>repealed</td>
  <td>No anchor here either</td>
  <td>2025 c. 3</td>
  <td>s. 2</td>
</tr>
<tr>
  <td>Too few cells</td>
  <td>2000 c. 1</td>
</tr>
</tbody>
</table>
</body></html>`

func TestAmendmentsParsesRowsAndDropsInvalid(t *testing.T) {
	amendments, err := Amendments([]byte(changesPageHTML))

	require.NoError(t, err)
	require.Len(t, amendments, 1, "rows without both URLs must be dropped, not fatal")

	a := amendments[0]
	assert.Equal(t, domain.AmendmentID(
		"http://www.legislation.gov.uk/id/ukpga/2004/34",
		"http://www.legislation.gov.uk/id/ukpga/2025/3"), a.ID)
	assert.Equal(t, "Housing Act 2004", a.ChangedLegislation)
	assert.Equal(t, 2004, a.ChangedYear)
	assert.Equal(t, 34, a.ChangedNumber)
	assert.Equal(t, "s. 72", a.ChangedProvision)
	assert.Equal(t, "words substituted", a.TypeOfEffect)
	assert.Equal(t, "Renters Act 2025", a.AffectingLegislation)
	assert.Equal(t, 2025, a.AffectingYear)
	assert.Equal(t, 3, a.AffectingNumber)
	assert.Equal(t, "http://www.legislation.gov.uk/id/ukpga/2025/3/schedule/2", a.AffectingProvisionURL)
}

func TestHasResultsTable(t *testing.T) {
	assert.True(t, HasResultsTable([]byte(changesPageHTML)))
	assert.False(t, HasResultsTable([]byte(`<html><body><p>No changes found.</p></body></html>`)))
	assert.False(t, HasResultsTable([]byte(`<html><body><table><tbody></tbody></table></body></html>`)))
}

func TestSplitYearNumber(t *testing.T) {
	tests := map[string]struct {
		in         string
		wantYear   int
		wantNumber int
	}{
		"chapter":           {"2004 c. 34", 2004, 34},
		"instrument":        {"2020 No. 1563", 2020, 1563},
		"scottish":          {"2016 asp 14", 2016, 14},
		"year only":         {"1998", 1998, 0},
		"empty":             {"", 0, 0},
		"surrounding space": {"  2004 c. 34  ", 2004, 34},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			year, number := splitYearNumber(tc.in)
			assert.Equal(t, tc.wantYear, year)
			assert.Equal(t, tc.wantNumber, number)
		})
	}
}
