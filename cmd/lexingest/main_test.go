package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexingest/internal/domain"
)

func TestRootCmdRegistersAllSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "ingest")
	assert.Contains(t, names, "search")
	assert.Contains(t, names, "citations")
	assert.Contains(t, names, "ocr-batch")
}

func TestParseTypes(t *testing.T) {
	tests := map[string]struct {
		codes []string
		want  []domain.LegislationType
	}{
		"plain codes": {
			codes: []string{"ukpga", "asp"},
			want:  []domain.LegislationType{"ukpga", "asp"},
		},
		"primary shorthand": {
			codes: []string{"primary"},
			want:  domain.PrimaryTypes(),
		},
		"secondary shorthand": {
			codes: []string{"secondary"},
			want:  domain.SecondaryTypes(),
		},
		"mixed": {
			codes: []string{"primary", "uksi"},
			want:  append(domain.PrimaryTypes(), "uksi"),
		},
		"empty": {
			codes: nil,
			want:  []domain.LegislationType{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseTypes(tc.codes))
		})
	}
}

func TestCitationsRequiresDocumentID(t *testing.T) {
	cmd := newCitationsCmd()
	require.NotNil(t, cmd.Args)

	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"https://caselaw.nationalarchives.gov.uk/uksc/2021/5"}))
}
