package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lexingest/internal/domain"
	"lexingest/internal/metrics"
	"lexingest/internal/ocr"
	"lexingest/internal/pipeline"
	"lexingest/internal/ratelimit"
)

// exitInterrupted is the conventional code for SIGINT termination.
const exitInterrupted = 130

func newIngestCmd() *cobra.Command {
	var (
		mode        string
		limit       int
		years       []int
		yearsBack   int
		types       []string
		courts      []string
		pdfFallback bool
		summaries   bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run a corpus ingest (daily, full or amendments-led)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(ctx, a, pdfFallback, summaries)
			if err != nil {
				return err
			}

			go serveMetrics(a)

			opts := pipeline.RunOptions{
				Mode:              pipeline.Mode(mode),
				Limit:             limit,
				Years:             years,
				YearsBack:         yearsBack,
				Types:             parseTypes(types),
				Courts:            parseCourts(courts),
				EnablePDFFallback: pdfFallback,
				EnableSummaries:   summaries,
			}

			stats, err := p.Run(ctx, opts)
			fmt.Println(stats.JSON())

			if errors.Is(err, context.Canceled) {
				a.log.Warn("ingest interrupted")
				os.Exit(exitInterrupted)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(pipeline.ModeDaily), "ingest mode: daily, full or amendments-led")
	cmd.Flags().IntVar(&limit, "limit", 0, "max documents per scraper, 0 for unlimited")
	cmd.Flags().IntSliceVar(&years, "years", nil, "explicit year list (full mode)")
	cmd.Flags().IntVar(&yearsBack, "years-back", 2, "amendments-led lookback window in years")
	cmd.Flags().StringSliceVar(&types, "types", nil, "legislation type codes or primary/secondary, default all")
	cmd.Flags().StringSliceVar(&courts, "courts", nil, "court codes, default all")
	cmd.Flags().BoolVar(&pdfFallback, "pdf-fallback", false, "OCR documents that exist only as PDFs")
	cmd.Flags().BoolVar(&summaries, "summaries", false, "run stage-2 LLM enrichment")
	return cmd
}

func buildPipeline(ctx context.Context, a *app, pdfFallback, summaries bool) (*pipeline.Pipeline, error) {
	if err := a.store.EnsureCollections(ctx); err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{
		Fetcher:            a.newFetcher(ratelimit.LegislationProfile()),
		CaselawFetcher:     a.newFetcher(ratelimit.CaselawProfile()),
		Embedder:           a.embedder,
		Store:              a.store,
		Oracle:             a.oracle,
		LegislationBaseURL: a.cfg.LegislationBaseURL,
		CaselawBaseURL:     a.cfg.CaselawBaseURL,
		TrackingDir:        a.cfg.TrackingDir,
		Logger:             a.log,
	}

	if summaries {
		p.Enricher = pipeline.NewEnricher(pipeline.EnricherOptions{
			APIKey:   a.cfg.AnthropicAPIKey,
			Model:    a.cfg.SummaryModel,
			Workers:  a.cfg.SummaryWorkers,
			Store:    a.store,
			Embedder: a.embedder,
			Logger:   a.log,
		})
	}

	if pdfFallback {
		blobs, err := ocr.NewBlobStore(ocr.BlobOptions{
			Endpoint:  a.cfg.MinioEndpoint,
			AccessKey: a.cfg.MinioAccessKey,
			SecretKey: a.cfg.MinioSecretKey,
			Bucket:    a.cfg.OCRBucket,
			UseSSL:    a.cfg.MinioUseSSL,
			Expiry:    time.Duration(a.cfg.SignedURLMinutes) * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		if err := blobs.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		extractor := ocr.NewExtractor(ocr.ExtractorOptions{
			APIKey:     a.cfg.AnthropicAPIKey,
			Model:      a.cfg.OCRModel,
			ChunkPages: a.cfg.OCRChunkPages,
			Blobs:      blobs,
			Logger:     a.log,
		})
		p.OCR = ocr.NewBatchRunner(extractor, nil, a.cfg.OCRWorkers, a.log)
	}

	return p, nil
}

func serveMetrics(a *app) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	if err := http.ListenAndServe(a.cfg.MetricsAddr, mux); err != nil {
		a.log.Warn("metrics endpoint stopped", "error", err)
	}
}

// parseTypes maps type codes to legislation types, expanding the
// "primary" and "secondary" shorthands.
func parseTypes(codes []string) []domain.LegislationType {
	out := make([]domain.LegislationType, 0, len(codes))
	for _, c := range codes {
		switch c {
		case "primary":
			out = append(out, domain.PrimaryTypes()...)
		case "secondary":
			out = append(out, domain.SecondaryTypes()...)
		default:
			out = append(out, domain.LegislationType(c))
		}
	}
	return out
}

func parseCourts(codes []string) []domain.Court {
	out := make([]domain.Court, 0, len(codes))
	for _, c := range codes {
		out = append(out, domain.Court(c))
	}
	return out
}
