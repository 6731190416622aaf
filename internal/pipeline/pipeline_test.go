package pipeline

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexingest/internal/domain"
)

func TestRunOptionsNormalizeDailyDefaults(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	opts := RunOptions{Mode: ModeDaily}
	opts.normalize(now)

	assert.NotEmpty(t, opts.RunID)
	assert.Equal(t, 2, opts.YearsBack)
	assert.Equal(t, []int{2025, 2026}, opts.Years)
	assert.Equal(t, domain.AllLegislationTypes(), opts.Types)
	assert.Equal(t, domain.AllCourts(), opts.Courts)
}

func TestRunOptionsNormalizeFullSpansStatuteBook(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	opts := RunOptions{Mode: ModeFull}
	opts.normalize(now)

	require.NotEmpty(t, opts.Years)
	assert.Equal(t, 1267, opts.Years[0])
	assert.Equal(t, 2026, opts.Years[len(opts.Years)-1])
}

func TestRunOptionsNormalizeKeepsExplicitValues(t *testing.T) {
	opts := RunOptions{
		Mode:      ModeFull,
		RunID:     "run-7",
		Years:     []int{2004},
		YearsBack: 5,
		Types:     []domain.LegislationType{"ukpga"},
	}
	opts.normalize(time.Now())

	assert.Equal(t, "run-7", opts.RunID)
	assert.Equal(t, []int{2004}, opts.Years)
	assert.Equal(t, 5, opts.YearsBack)
	assert.Equal(t, []domain.LegislationType{"ukpga"}, opts.Types)
}

func TestStatsConcurrentCountsAndJSON(t *testing.T) {
	stats := NewStats("run-1", "daily")

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.AddScraped(1)
			stats.AddUpserted(2)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, stats.Scraped)
	assert.Equal(t, 20, stats.Upserted)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stats.JSON()), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.Equal(t, float64(10), decoded["scraped"])
	assert.NotEmpty(t, decoded["duration"])
}

func TestStatsStoreCountsInReport(t *testing.T) {
	stats := NewStats("run-2", "full")
	stats.SetStoreCounts(map[domain.Kind]uint64{
		domain.KindLegislation: 120,
		domain.KindCaselaw:     45,
	})

	var decoded struct {
		StoreCounts map[string]uint64 `json:"store_counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(stats.JSON()), &decoded))
	assert.Equal(t, uint64(120), decoded.StoreCounts[domain.KindLegislation.Collection()])
	assert.Equal(t, uint64(45), decoded.StoreCounts[domain.KindCaselaw.Collection()])
}

func TestTruncateSource(t *testing.T) {
	short, truncated := truncateSource("a short judgment")
	assert.Equal(t, "a short judgment", short)
	assert.False(t, truncated)

	long := strings.Repeat("x", summaryMaxChars+100)
	cut, truncated := truncateSource(long)
	assert.Len(t, cut, summaryMaxChars)
	assert.True(t, truncated)
}

func TestTruncateSourceKeepsRuneBoundary(t *testing.T) {
	// summaryMaxChars is a multiple of 3, so one leading ASCII byte
	// forces the cap to land inside a three-byte rune.
	long := "a" + strings.Repeat("“", summaryMaxChars/3)

	cut, truncated := truncateSource(long)

	assert.True(t, truncated)
	assert.True(t, utf8.ValidString(cut))
	assert.Less(t, len(cut), summaryMaxChars)
}
