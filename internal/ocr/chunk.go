package ocr

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Chunk is one page-range slice of a source PDF.
type Chunk struct {
	// Range is the 1-based inclusive page selection, e.g. "41-80".
	Range string
	// Index is the chunk's position within the document, from 0.
	Index int
	Data  []byte
}

// pageRanges splits a page count into inclusive 1-based ranges of at
// most chunkSize pages: 84 pages at size 40 gives 1-40, 41-80, 81-84.
func pageRanges(pageCount, chunkSize int) []string {
	if pageCount <= 0 {
		return nil
	}
	var ranges []string
	for start := 1; start <= pageCount; start += chunkSize {
		end := start + chunkSize - 1
		if end > pageCount {
			end = pageCount
		}
		ranges = append(ranges, fmt.Sprintf("%d-%d", start, end))
	}
	return ranges
}

// SplitPDF cuts a PDF into page-range chunks. A document at or under the
// chunk size comes back as a single chunk of the original bytes.
func SplitPDF(data []byte, chunkSize int) ([]Chunk, error) {
	conf := model.NewDefaultConfiguration()

	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to count pdf pages: %w", err)
	}
	if pageCount <= chunkSize {
		return []Chunk{{Range: fmt.Sprintf("1-%d", pageCount), Index: 0, Data: data}}, nil
	}

	ranges := pageRanges(pageCount, chunkSize)
	chunks := make([]Chunk, 0, len(ranges))
	for i, r := range ranges {
		var buf bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &buf, []string{r}, conf); err != nil {
			return nil, fmt.Errorf("failed to trim pdf to pages %s: %w", r, err)
		}
		chunks = append(chunks, Chunk{Range: r, Index: i, Data: buf.Bytes()})
	}
	return chunks, nil
}

// PageCount reads the page count without splitting.
func PageCount(r io.ReadSeeker) (int, error) {
	n, err := api.PageCount(r, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("failed to count pdf pages: %w", err)
	}
	return n, nil
}
