package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lexingest/internal/embed"
	"lexingest/internal/fetch"
	"lexingest/internal/infra/config"
	"lexingest/internal/infra/httpclient"
	"lexingest/internal/infra/logger"
	"lexingest/internal/ratelimit"
	"lexingest/internal/search"
	"lexingest/internal/state"
	"lexingest/internal/store"
)

const userAgent = "lexingest/1.0 (legal corpus ingestion)"

// app holds the wired dependencies every command shares.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    *store.Store
	embedder *embed.HybridEmbedder
	oracle   *state.Oracle
	searcher *search.Searcher
}

func newApp() (*app, error) {
	// 1. Config and logger.
	cfg := config.Load()
	log := logger.NewWithOTel(cfg.OTelLogs)
	slog.SetDefault(log)

	// 2. Vector store.
	st, err := store.New(store.Options{
		Host:   cfg.QdrantHost,
		Port:   cfg.QdrantPort,
		APIKey: cfg.QdrantAPIKey,
		UseTLS: cfg.QdrantUseTLS,
		Logger: log,
	})
	if err != nil {
		return nil, err
	}

	// 3. Embedder with the store-backed query cache.
	dense := embed.NewDenseEmbedder(cfg.EmbeddingURL, cfg.EmbeddingModel,
		httpclient.NewPooledClient(time.Duration(cfg.EmbeddingTimeoutSeconds)*time.Second), log)
	embedder := embed.NewHybridEmbedder(dense, store.NewVectorCache(st), cfg.EmbeddingWorkers, log)

	return &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		embedder: embedder,
		oracle:   state.NewOracle(st, log),
		searcher: search.NewSearcher(st, embedder, log),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close failed", "error", err)
	}
}

// newFetcher builds one rate-limited gateway to a canonical source.
func (a *app) newFetcher(profile ratelimit.Profile) *fetch.Fetcher {
	limiter := ratelimit.New(profile, a.log)
	return fetch.New(fetch.Options{
		Client:     httpclient.NewPooledClient(time.Duration(a.cfg.FetchTimeoutSeconds) * time.Second),
		Limiter:    limiter,
		MaxRetries: a.cfg.FetchMaxRetries,
		CacheSize:  a.cfg.FetchCacheSize,
		CacheTTL:   time.Duration(a.cfg.FetchCacheTTL) * time.Second,
		UserAgent:  userAgent,
	}, a.log)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lexingest",
		Short:         "UK legal corpus ingestion and hybrid search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newIngestCmd(), newSearchCmd(), newCitationsCmd(), newOCRBatchCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
