package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lexingest/internal/ocr"
)

func newOCRBatchCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "ocr-batch",
		Short: "Transcribe a list of PDF-only documents",
		Long: "Reads PDF URLs from the input file (one per line), transcribes each " +
			"through the OCR model and appends one JSONL result per document. " +
			"Rerunning with the same output file resumes where the last run stopped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			urls, err := readURLList(inputPath)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URLs in %s", inputPath)
			}

			blobs, err := ocr.NewBlobStore(ocr.BlobOptions{
				Endpoint:  a.cfg.MinioEndpoint,
				AccessKey: a.cfg.MinioAccessKey,
				SecretKey: a.cfg.MinioSecretKey,
				Bucket:    a.cfg.OCRBucket,
				UseSSL:    a.cfg.MinioUseSSL,
				Expiry:    time.Duration(a.cfg.SignedURLMinutes) * time.Minute,
			})
			if err != nil {
				return err
			}
			if err := blobs.EnsureBucket(cmd.Context()); err != nil {
				return err
			}

			extractor := ocr.NewExtractor(ocr.ExtractorOptions{
				APIKey:     a.cfg.AnthropicAPIKey,
				Model:      a.cfg.OCRModel,
				ChunkPages: a.cfg.OCRChunkPages,
				Blobs:      blobs,
				Logger:     a.log,
			})
			runner := ocr.NewBatchRunner(extractor, nil, a.cfg.OCRWorkers, a.log)
			return runner.Run(cmd.Context(), urls, outputPath)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "file of PDF URLs, one per line")
	cmd.Flags().StringVar(&outputPath, "output", "ocr_results.jsonl", "JSONL output file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
