package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTree(t *testing.T, xml string) *Node {
	t.Helper()
	root, err := ParseTree([]byte(xml))
	require.NoError(t, err)
	return root
}

func TestProvisionToMarkdownSectionHeading(t *testing.T) {
	root := mustTree(t, `<P1group>
  <Title>Duty to repair</Title>
  <P1>
    <Pnumber>11</Pnumber>
    <P1para><Text>The landlord must keep the structure in repair.</Text></P1para>
  </P1>
</P1group>`)

	md := ProvisionToMarkdown(root)

	assert.Contains(t, md, "Section 11) **Duty to repair**")
	assert.Contains(t, md, "The landlord must keep the structure in repair.")
	// The Pnumber that fed the heading must not render a second time.
	assert.NotContains(t, md, "\n11) ")
}

func TestProvisionToMarkdownArticleNumberKeepsPlainForm(t *testing.T) {
	root := mustTree(t, `<P1group>
  <Title>Scope</Title>
  <P1>
    <Pnumber>Article 3</Pnumber>
    <P1para><Text>This Order applies to England.</Text></P1para>
  </P1>
</P1group>`)

	md := ProvisionToMarkdown(root)

	assert.NotContains(t, md, "Section Article")
	assert.Contains(t, md, "Article 3) ")
}

func TestProvisionToMarkdownNestedIndentation(t *testing.T) {
	root := mustTree(t, `<P1>
  <Pnumber>1</Pnumber>
  <P1para>
    <Text>Intro.</Text>
    <P2>
      <Pnumber>2</Pnumber>
      <P2para>
        <Text>Nested once.</Text>
        <P3>
          <Pnumber>a</Pnumber>
          <P3para><Text>Nested twice.</Text></P3para>
        </P3>
      </P2para>
    </P2>
  </P1para>
</P1>`)

	md := ProvisionToMarkdown(root)

	// Level 1 and 2 sit at the margin; level 3 gets one tab.
	assert.Contains(t, md, "\n2) ")
	assert.Contains(t, md, "\n\ta) ")
}

func TestProvisionToMarkdownPartHeaders(t *testing.T) {
	root := mustTree(t, `<Part>
  <Number>Part 2</Number>
  <Title>Enforcement</Title>
  <Pblock>
    <Title>Penalty notices</Title>
    <P1><Pnumber>5</Pnumber><P1para><Text>Notice content.</Text></P1para></P1>
  </Pblock>
</Part>`)

	md := ProvisionToMarkdown(root)

	assert.Contains(t, md, "## Part 2\n")
	assert.Contains(t, md, "## Enforcement\n")
	assert.Contains(t, md, "*Penalty notices*")
}

func TestProvisionToMarkdownBlockAmendmentIndents(t *testing.T) {
	root := mustTree(t, `<P1>
  <Pnumber>3</Pnumber>
  <P1para>
    <Text>After section 20 insert—</Text>
    <BlockAmendment>
      <P1><Pnumber>20A</Pnumber><P1para><Text>Inserted duty.</Text></P1para></P1>
    </BlockAmendment>
  </P1para>
</P1>`)

	md := ProvisionToMarkdown(root)

	assert.Contains(t, md, "After section 20 insert—")
	// Quoted material renders one level deeper than its anchor.
	assert.Contains(t, md, "\n\t20A) Inserted duty.")
}

func TestProvisionToMarkdownNormalisesCurlyQuotes(t *testing.T) {
	root := mustTree(t, `<P1para><Text>for “ the tenant ” substitute “ the occupier ”</Text></P1para>`)

	md := ProvisionToMarkdown(root)

	assert.Contains(t, md, "“the tenant”")
	assert.Contains(t, md, "“the occupier”")
}
