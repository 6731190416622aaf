package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexingest/internal/domain"
	"lexingest/internal/fetch"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newLegislationServer serves a one-page ukpga/2024 feed with two entries:
// one with XML and one that exists only as a PDF.
func newLegislationServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ukpga/2024/data.feed":
			fmt.Fprintf(w, `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry><id>%s/id/ukpga/2024/7</id></entry>
  <entry><id>%s/id/ukpga/2024/8</id></entry>
</feed>`, srv.URL, srv.URL)
		case "/id/ukpga/2024/7/data.xml":
			_, _ = w.Write([]byte(`<Legislation><Body/></Legislation>`))
		case "/id/ukpga/2024/8/data.xml":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv
}

func TestLegislationScraperEmitsDocumentsAndPDFOnlySkips(t *testing.T) {
	srv := newLegislationServer(t)
	defer srv.Close()

	s := &LegislationScraper{
		Fetcher: fetch.New(fetch.Options{MaxRetries: 1, UserAgent: "test-agent"}, testLogger()),
		BaseURL: srv.URL,
		Types:   []domain.LegislationType{"ukpga"},
		Years:   []int{2024},
		Logger:  testLogger(),
	}

	var items []Item
	err := s.Scrape(context.Background(), func(item Item) bool {
		items = append(items, item)
		return true
	})

	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, srv.URL+"/id/ukpga/2024/7", items[0].URI)
	assert.NotEmpty(t, items[0].Body)
	assert.Empty(t, items[0].Skip)
	assert.Equal(t, 2024, items[0].Year)
	assert.Equal(t, "ukpga", items[0].TypeValue)

	assert.Equal(t, srv.URL+"/id/ukpga/2024/8", items[1].URI)
	assert.Equal(t, domain.ReasonPDFOnly, items[1].Skip)
	assert.Empty(t, items[1].Body)
}

func TestLegislationScraperHonoursLimit(t *testing.T) {
	srv := newLegislationServer(t)
	defer srv.Close()

	s := &LegislationScraper{
		Fetcher: fetch.New(fetch.Options{MaxRetries: 1, UserAgent: "test-agent"}, testLogger()),
		BaseURL: srv.URL,
		Types:   []domain.LegislationType{"ukpga"},
		Years:   []int{2024},
		Limit:   1,
		Logger:  testLogger(),
	}

	var items []Item
	err := s.Scrape(context.Background(), func(item Item) bool {
		items = append(items, item)
		return true
	})

	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestLegislationScraperSkipsKnownURIsWithoutFetching(t *testing.T) {
	var documentFetches int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ukpga/2024/data.feed":
			fmt.Fprint(w, `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry><id>http://x/id/ukpga/2024/7</id></entry>
  <entry><id>http://x/id/ukpga/2024/8</id></entry>
</feed>`)
		default:
			documentFetches++
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := &LegislationScraper{
		Fetcher: fetch.New(fetch.Options{MaxRetries: 1, UserAgent: "test-agent"}, testLogger()),
		BaseURL: srv.URL,
		Types:   []domain.LegislationType{"ukpga"},
		Years:   []int{2024},
		FilterNew: func(_ context.Context, uris []string) ([]string, error) {
			// Everything is already in the store.
			return nil, nil
		},
		Logger: testLogger(),
	}

	var items []Item
	err := s.Scrape(context.Background(), func(item Item) bool {
		items = append(items, item)
		return true
	})

	require.NoError(t, err)
	assert.Zero(t, documentFetches)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, domain.ReasonExists, item.Skip)
		assert.Empty(t, item.Body)
	}
}

func TestLegislationScraperFilterNewSparesTheBudget(t *testing.T) {
	srv := newLegislationServer(t)
	defer srv.Close()

	s := &LegislationScraper{
		Fetcher: fetch.New(fetch.Options{MaxRetries: 1, UserAgent: "test-agent"}, testLogger()),
		BaseURL: srv.URL,
		Types:   []domain.LegislationType{"ukpga"},
		Years:   []int{2024},
		Limit:   1,
		FilterNew: func(_ context.Context, uris []string) ([]string, error) {
			// Only the second document is new.
			return uris[1:], nil
		},
		Logger: testLogger(),
	}

	var items []Item
	err := s.Scrape(context.Background(), func(item Item) bool {
		items = append(items, item)
		return true
	})

	require.NoError(t, err)
	require.Len(t, items, 2)
	// The known document did not consume the one-document budget.
	assert.Equal(t, domain.ReasonExists, items[0].Skip)
	assert.Equal(t, domain.ReasonPDFOnly, items[1].Skip)
}

func TestConsecutiveRuns(t *testing.T) {
	tests := map[string]struct {
		years []int
		want  [][2]int
	}{
		"single year":     {[]int{2024}, [][2]int{{2024, 2024}}},
		"one run":         {[]int{2022, 2023, 2024}, [][2]int{{2022, 2024}}},
		"unsorted input":  {[]int{2024, 2022, 2023}, [][2]int{{2022, 2024}}},
		"gap splits":      {[]int{2019, 2020, 2023, 2024}, [][2]int{{2019, 2020}, {2023, 2024}}},
		"duplicates fold": {[]int{2024, 2024, 2025}, [][2]int{{2024, 2025}}},
		"empty":           {nil, nil},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, consecutiveRuns(tc.years))
		})
	}
}

func TestYearFromURL(t *testing.T) {
	tests := map[string]struct {
		url  string
		want int
	}{
		"court and division":  {"https://caselaw.nationalarchives.gov.uk/ewca/civ/2023/1234", 2023},
		"court only":          {"https://caselaw.nationalarchives.gov.uk/uksc/2021/15", 2021},
		"four-digit case num": {"https://caselaw.nationalarchives.gov.uk/ewhc/ch/2022/4879", 2022},
		"no year segment":     {"https://caselaw.nationalarchives.gov.uk/unknown", 2024},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, yearFromURL(tc.url, 2024))
		})
	}
}

func TestCaselawScraperYearFollowsJudgmentURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/judgments/search":
			fmt.Fprint(w, `<html><body><ul>
<li class="judgment"><a href="/uksc/2021/5">A v B</a></li>
<li class="judgment"><a href="/uksc/2022/9">C v D</a></li>
</ul></body></html>`)
		case r.URL.Path == "/uksc/2021/5/data.xml" || r.URL.Path == "/uksc/2022/9/data.xml":
			_, _ = w.Write([]byte(`<akomaNtoso><judgment/></akomaNtoso>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := &CaselawScraper{
		Fetcher: fetch.New(fetch.Options{MaxRetries: 1, UserAgent: "test-agent"}, testLogger()),
		BaseURL: srv.URL,
		Courts:  []domain.Court{domain.CourtUKSC},
		Years:   []int{2021, 2022},
		Logger:  testLogger(),
	}

	var years []int
	err := s.Scrape(context.Background(), func(item Item) bool {
		years = append(years, item.Year)
		return true
	})

	require.NoError(t, err)
	// Both came back from one 2021-2022 query; each keeps its own year.
	assert.Equal(t, []int{2021, 2022}, years)
}

func TestLimiterBudget(t *testing.T) {
	l := newLimiter(2)

	assert.True(t, l.take())
	assert.False(t, l.exhausted())
	assert.True(t, l.take())
	assert.True(t, l.exhausted())
	assert.False(t, l.take())
}

func TestLimiterUnbounded(t *testing.T) {
	l := newLimiter(0)

	for range 1000 {
		assert.True(t, l.take())
	}
	assert.False(t, l.exhausted())
}
