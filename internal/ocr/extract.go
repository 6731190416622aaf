package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// promptVersion tags every extraction so output from older prompts can
// be found and redone.
const promptVersion = "2026-02"

const systemPrompt = "You transcribe scanned UK legal documents. " +
	"Reproduce the document text as markdown, preserving section numbering, " +
	"headings and tables. Transcribe only what is on the page; never summarise " +
	"and never add commentary."

const chunkPrompt = "Transcribe this document section to markdown."

// documentDeadline bounds one document end to end, uploads included.
const documentDeadline = 20 * time.Minute

const maxOutputTokens = 32000

// ChunkResult is the transcription of one page range, with the token
// accounting for that request.
type ChunkResult struct {
	PageRange    string
	Markdown     string
	RequestID    string
	InputTokens  int64
	OutputTokens int64
	CachedTokens int64
}

// ExtractionResult is a fully transcribed document plus provenance.
type ExtractionResult struct {
	SourceURL     string
	Markdown      string
	PageCount     int
	Chunks        []ChunkResult
	Model         string
	PromptVersion string
	StartedAt     time.Time
	CompletedAt   time.Time
	InputTokens   int64
	OutputTokens  int64
	CachedTokens  int64
}

// Extractor transcribes PDF-only documents through a vision model. PDFs
// over the chunk size are split so each request stays within model
// limits.
type Extractor struct {
	client     anthropic.Client
	blobs      *BlobStore
	model      string
	chunkPages int
	logger     *slog.Logger
}

type ExtractorOptions struct {
	APIKey string
	Model  string
	// ChunkPages is the page budget per model request.
	ChunkPages int
	Blobs      *BlobStore
	Logger     *slog.Logger
}

func NewExtractor(opts ExtractorOptions) *Extractor {
	chunkPages := opts.ChunkPages
	if chunkPages <= 0 {
		chunkPages = 40
	}
	return &Extractor{
		client:     anthropic.NewClient(option.WithAPIKey(opts.APIKey)),
		blobs:      opts.Blobs,
		model:      opts.Model,
		chunkPages: chunkPages,
		logger:     opts.Logger,
	}
}

// Extract transcribes one PDF: split into page ranges, upload each
// range, transcribe in order, join. Chunks are processed sequentially so
// one document never monopolises the model quota.
func (e *Extractor) Extract(ctx context.Context, sourceURL string, pdf []byte) (ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, documentDeadline)
	defer cancel()

	result := ExtractionResult{
		SourceURL:     sourceURL,
		Model:         e.model,
		PromptVersion: promptVersion,
		StartedAt:     time.Now().UTC(),
	}

	chunks, err := SplitPDF(pdf, e.chunkPages)
	if err != nil {
		return result, err
	}
	if n, err := PageCount(bytes.NewReader(pdf)); err == nil {
		result.PageCount = n
	}

	var parts []string
	for _, chunk := range chunks {
		key := blobKey(sourceURL, chunk.Index)
		signed, err := e.blobs.UploadSigned(ctx, key, chunk.Data)
		if err != nil {
			return result, err
		}

		cr, err := e.transcribe(ctx, signed, chunk.Range)
		if err != nil {
			return result, fmt.Errorf("failed to transcribe pages %s of %s: %w", chunk.Range, sourceURL, err)
		}
		result.Chunks = append(result.Chunks, cr)
		result.InputTokens += cr.InputTokens
		result.OutputTokens += cr.OutputTokens
		result.CachedTokens += cr.CachedTokens
		parts = append(parts, cr.Markdown)

		e.logger.Debug("chunk transcribed",
			"source", sourceURL,
			"pages", chunk.Range,
			"output_tokens", cr.OutputTokens)
	}

	result.Markdown = strings.Join(parts, "\n\n")
	result.CompletedAt = time.Now().UTC()
	return result, nil
}

func (e *Extractor) transcribe(ctx context.Context, signedURL, pageRange string) (ChunkResult, error) {
	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: maxOutputTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewDocumentBlock(anthropic.URLPDFSourceParam{URL: signedURL}),
				anthropic.NewTextBlock(chunkPrompt),
			),
		},
	})
	if err != nil {
		return ChunkResult{}, err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}

	return ChunkResult{
		PageRange:    pageRange,
		Markdown:     text.String(),
		RequestID:    msg.ID,
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
		CachedTokens: msg.Usage.CacheReadInputTokens,
	}, nil
}

// blobKey derives a stable object key from the source URL so reruns
// overwrite rather than accumulate.
func blobKey(sourceURL string, chunkIndex int) string {
	key := strings.NewReplacer("https://", "", "http://", "", "/", "_").Replace(sourceURL)
	return fmt.Sprintf("%s.chunk%d.pdf", key, chunkIndex)
}
