package parse

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lexingest/internal/domain"
)

var yearNumberRe = regexp.MustCompile(`(\d{4})\s*(?:c\.|No\.|no\.|asp|anaw|asc)?\s*(\d+)?`)

// Amendments parses one page of the changes-to-legislation table. Rows that
// cannot produce a valid amendment id are dropped, not fatal: a parse
// failure on one row must not abort the batch.
func Amendments(data []byte) ([]domain.Amendment, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("amendments page: %w", err)
	}

	var amendments []domain.Amendment

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		changedTitle := cells.Eq(0)
		changedYearNum := cells.Eq(1)
		changedProv := cells.Eq(2)
		effect := cells.Eq(3)
		affectingTitle := cells.Eq(4)
		affectingYearNum := cells.Eq(5)
		affectingProv := cells.Eq(6)

		changedURL, _ := changedTitle.Find("a").First().Attr("href")
		affectingURL, _ := affectingTitle.Find("a").First().Attr("href")

		amendment, err := domain.NewAmendment(changedURL, affectingURL)
		if err != nil {
			return
		}

		amendment.ChangedLegislation = strings.TrimSpace(changedTitle.Text())
		amendment.ChangedYear, amendment.ChangedNumber = splitYearNumber(changedYearNum.Text())
		amendment.ChangedProvision = strings.TrimSpace(changedProv.Text())
		amendment.ChangedProvisionURL, _ = changedProv.Find("a").First().Attr("href")

		amendment.AffectingLegislation = strings.TrimSpace(affectingTitle.Text())
		amendment.AffectingYear, amendment.AffectingNumber = splitYearNumber(affectingYearNum.Text())
		amendment.AffectingProvision = strings.TrimSpace(affectingProv.Text())
		amendment.AffectingProvisionURL, _ = affectingProv.Find("a").First().Attr("href")

		amendment.TypeOfEffect = strings.TrimSpace(effect.Text())
		amendment.CreatedAt = time.Now().UTC()

		amendments = append(amendments, amendment)
	})

	return amendments, nil
}

// HasResultsTable reports whether a changes page contains any result rows.
// The amendments scraper walks pages descending until this turns false.
func HasResultsTable(data []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return doc.Find("table tbody tr").Length() > 0
}

func splitYearNumber(s string) (int, int) {
	m := yearNumberRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0
	}
	year, _ := strconv.Atoi(m[1])
	number := 0
	if len(m) > 2 && m[2] != "" {
		number, _ = strconv.Atoi(m[2])
	}
	return year, number
}
