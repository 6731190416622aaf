package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/errgroup"

	"lexingest/internal/domain"
	"lexingest/internal/embed"
	"lexingest/internal/store"
)

// summaryMinChars is the shortest judgment text worth summarising.
const summaryMinChars = 500

// summaryMaxChars caps LLM input; longer judgments are truncated and
// flagged.
const summaryMaxChars = 900000

const enrichPageSize = 256

const summarySystemPrompt = "You are a UK legal analyst. Summarise the judgment " +
	"in plain English: the parties, the issues, the court's reasoning and the " +
	"outcome. Be factual and concise."

const explainSystemPrompt = "You are a UK legislation analyst. Explain in one " +
	"short paragraph what this amendment changes and its practical effect."

// Enricher runs stage-2 LLM enrichment against records stage 1 already
// put in the store.
type Enricher struct {
	client   anthropic.Client
	store    *store.Store
	embedder *embed.HybridEmbedder
	model    string
	workers  int
	logger   *slog.Logger
}

type EnricherOptions struct {
	APIKey   string
	Model    string
	Workers  int
	Store    *store.Store
	Embedder *embed.HybridEmbedder
	Logger   *slog.Logger
}

func NewEnricher(opts EnricherOptions) *Enricher {
	workers := opts.Workers
	if workers <= 0 {
		workers = 25
	}
	return &Enricher{
		client:   anthropic.NewClient(option.WithAPIKey(opts.APIKey)),
		store:    opts.Store,
		embedder: opts.Embedder,
		model:    opts.Model,
		workers:  workers,
		logger:   opts.Logger,
	}
}

// SummariseCaselaw creates a summary record for every judgment that has
// none yet. Individual failures are logged and skipped; the judgment
// stays eligible for the next run.
func (e *Enricher) SummariseCaselaw(ctx context.Context) (int, error) {
	var created atomic.Int64

	for offset := uint64(0); ; offset += enrichPageSize {
		points, err := e.store.QueryFilter(ctx, domain.KindCaselaw, nil, enrichPageSize, offset)
		if err != nil {
			return int(created.Load()), err
		}
		if len(points) == 0 {
			break
		}

		pending, err := e.withoutExistingSummaries(ctx, points)
		if err != nil {
			return int(created.Load()), err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for _, judgment := range pending {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if e.summariseOne(gctx, judgment) {
					created.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(created.Load()), err
		}
		if len(points) < enrichPageSize {
			break
		}
	}
	return int(created.Load()), nil
}

// withoutExistingSummaries drops judgments that already have a summary
// point, so reruns only fill gaps.
func (e *Enricher) withoutExistingSummaries(ctx context.Context, points []store.StoredPoint) ([]domain.Caselaw, error) {
	judgments := make([]domain.Caselaw, 0, len(points))
	summaryIDs := make([]string, 0, len(points))
	for _, p := range points {
		judgment := domain.CaselawFromPayload(p.Payload)
		if judgment.ID == "" {
			continue
		}
		judgments = append(judgments, judgment)
		summaryIDs = append(summaryIDs, domain.PointID(domain.SummaryID(judgment.ID)))
	}

	existing, err := e.store.Retrieve(ctx, domain.KindCaselawSummary, summaryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing summaries: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.ID] = true
	}

	pending := make([]domain.Caselaw, 0, len(judgments))
	for i, judgment := range judgments {
		if !have[summaryIDs[i]] {
			pending = append(pending, judgment)
		}
	}
	return pending, nil
}

func (e *Enricher) summariseOne(ctx context.Context, judgment domain.Caselaw) bool {
	if len(judgment.Text) < summaryMinChars {
		return false
	}

	text, truncated := truncateSource(judgment.Text)

	summaryText, err := e.complete(ctx, summarySystemPrompt,
		fmt.Sprintf("Summarise this judgment (%s, %s):\n\n%s", judgment.Name, judgment.CiteAs, text))
	if err != nil {
		e.logger.Warn("summary generation failed", "caselaw_id", judgment.ID, "error", err)
		return false
	}

	now := time.Now().UTC()
	summary := domain.CaselawSummary{
		ID:                  domain.SummaryID(judgment.ID),
		CaselawID:           judgment.ID,
		Court:               judgment.Court,
		Division:            judgment.Division,
		Year:                judgment.Year,
		Number:              judgment.Number,
		Name:                judgment.Name,
		CiteAs:              judgment.CiteAs,
		Date:                judgment.Date,
		Text:                summaryText,
		AIModel:             e.model,
		AITimestamp:         now,
		SourceTextLength:    len(judgment.Text),
		SourceTextTruncated: truncated,
		CreatedAt:           now,
	}

	if err := e.upsertRecord(ctx, summary); err != nil {
		e.logger.Warn("summary upsert failed", "caselaw_id", judgment.ID, "error", err)
		return false
	}
	return true
}

// truncateSource caps judgment text at the LLM input limit on a rune
// boundary, reporting whether anything was cut.
func truncateSource(text string) (string, bool) {
	if len(text) <= summaryMaxChars {
		return text, false
	}
	cut := summaryMaxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}

// ExplainAmendments backfills the AI explanation on amendment records
// that have none.
func (e *Enricher) ExplainAmendments(ctx context.Context) (int, error) {
	var created atomic.Int64

	for offset := uint64(0); ; offset += enrichPageSize {
		points, err := e.store.QueryFilter(ctx, domain.KindAmendment, nil, enrichPageSize, offset)
		if err != nil {
			return int(created.Load()), err
		}
		if len(points) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for _, p := range points {
			amendment := domain.AmendmentFromPayload(p.Payload)
			if amendment.ID == "" || amendment.AIExplanation != "" {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if e.explainOne(gctx, amendment) {
					created.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return int(created.Load()), err
		}
		if len(points) < enrichPageSize {
			break
		}
	}
	return int(created.Load()), nil
}

func (e *Enricher) explainOne(ctx context.Context, amendment domain.Amendment) bool {
	prompt := fmt.Sprintf("%s, %s: %s by %s, %s",
		amendment.ChangedLegislation, amendment.ChangedProvision,
		amendment.TypeOfEffect,
		amendment.AffectingLegislation, amendment.AffectingProvision)

	explanation, err := e.complete(ctx, explainSystemPrompt, prompt)
	if err != nil {
		e.logger.Warn("amendment explanation failed", "amendment_id", amendment.ID, "error", err)
		return false
	}

	amendment.AIExplanation = explanation
	if err := e.upsertRecord(ctx, amendment); err != nil {
		e.logger.Warn("amendment upsert failed", "amendment_id", amendment.ID, "error", err)
		return false
	}
	return true
}

func (e *Enricher) complete(ctx context.Context, system, user string) (string, error) {
	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 2048,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(user))},
	})
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("model returned no text")
	}
	return text.String(), nil
}

func (e *Enricher) upsertRecord(ctx context.Context, r domain.Record) error {
	vectors := e.embedder.Embed(ctx, r.EmbedText())
	return e.store.Upsert(ctx, r.RecordKind(), []store.Point{store.PointFromRecord(r, vectors)})
}
