package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRanges(t *testing.T) {
	tests := map[string]struct {
		pageCount int
		chunkSize int
		want      []string
	}{
		"splits with remainder": {84, 40, []string{"1-40", "41-80", "81-84"}},
		"exact multiple":        {80, 40, []string{"1-40", "41-80"}},
		"under one chunk":       {12, 40, []string{"1-12"}},
		"single page":           {1, 40, []string{"1-1"}},
		"zero pages":            {0, 40, nil},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, pageRanges(tc.pageCount, tc.chunkSize))
		})
	}
}
