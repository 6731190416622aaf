package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTreeDropsNamespacePrefixes(t *testing.T) {
	root, err := ParseTree([]byte(legislationXML))

	require.NoError(t, err)
	assert.Equal(t, "Legislation", root.Name)
	// ukm:Metadata is reachable by its local name.
	assert.NotNil(t, root.Child("Metadata"))
	assert.Equal(t, "Housing Act 2024", root.Find("title").InnerText())
}

func TestParseTreeRejectsTruncatedDocument(t *testing.T) {
	// Cut off mid-element, leaving Body, Primary and Legislation open.
	idx := strings.Index(legislationXML, "</Body>")
	require.Positive(t, idx)
	truncated := legislationXML[:idx]

	root, err := ParseTree([]byte(truncated))

	require.Error(t, err)
	assert.Nil(t, root)
}

func TestParseTreeRejectsEmptyInput(t *testing.T) {
	_, err := ParseTree(nil)
	assert.Error(t, err)
}
