package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexingest/internal/domain"
)

// Caselaw parses a LegalDocML judgment into its record and ordered section
// records. Pure; never performs I/O.
func Caselaw(uri string, data []byte) (domain.Caselaw, []domain.CaselawSection, error) {
	root, err := ParseTree(data)
	if err != nil {
		return domain.Caselaw{}, nil, fmt.Errorf("caselaw %s: %w", uri, err)
	}

	c := domain.Caselaw{
		ID:        uri,
		CreatedAt: time.Now().UTC(),
	}

	if work := root.Find("FRBRWork"); work != nil {
		if this := work.Child("FRBRthis"); this != nil && this.Attr("value") != "" {
			c.ID = this.Attr("value")
		}
		if date := work.Child("FRBRdate"); date != nil {
			c.Date = parseDate(date.Attr("date"))
		}
		if name := work.Child("FRBRname"); name != nil {
			c.Name = name.Attr("value")
		}
	}

	if court := root.Find("court"); court != nil {
		c.Court = domain.Court(strings.ToLower(court.InnerText()))
	}
	if cite := root.Find("cite"); cite != nil {
		c.CiteAs = cite.InnerText()
	}
	if year := root.Find("year"); year != nil {
		c.Year, _ = strconv.Atoi(year.InnerText())
	}
	if number := root.Find("number"); number != nil {
		c.Number, _ = strconv.Atoi(number.InnerText())
	}
	c.Court, c.Division = splitCourt(c.Court)

	c.CaselawReferences, c.LegislationReferences = judgmentReferences(root)

	sections := caselawSections(&c, root)

	var body strings.Builder
	for _, s := range sections {
		body.WriteString(s.Text)
		body.WriteString("\n\n")
	}
	c.Text = strings.TrimSpace(body.String())
	if c.Text == "" {
		if jb := root.Find("judgmentBody"); jb != nil {
			c.Text = jb.InnerText()
		}
	}

	return c, sections, nil
}

// splitCourt separates a combined code like "ewhc-kb" or "EWCA-Civil" into
// court and division.
func splitCourt(court domain.Court) (domain.Court, domain.Division) {
	s := strings.ToLower(string(court))
	for _, sep := range []string{"-", "/", " "} {
		if idx := strings.Index(s, sep); idx > 0 {
			return domain.Court(s[:idx]), normalizeDivision(s[idx+1:])
		}
	}
	return domain.Court(s), ""
}

func normalizeDivision(s string) domain.Division {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "civil", "civ":
		return domain.DivisionCivil
	case "criminal", "crim":
		return domain.DivisionCriminal
	case "kb", "kbd", "king's bench", "kings bench":
		return domain.DivisionKB
	case "qb", "qbd", "queen's bench", "queens bench":
		return domain.DivisionQB
	case "ch", "chancery":
		return domain.DivisionChancery
	case "fam", "family":
		return domain.DivisionFamily
	case "admin", "administrative":
		return domain.DivisionAdmin
	case "comm", "commercial":
		return domain.DivisionCommercial
	case "admlty", "admiralty":
		return domain.DivisionAdmiralty
	case "tcc":
		return domain.DivisionTCC
	case "pat", "patents":
		return domain.DivisionPatents
	case "ipec":
		return domain.DivisionIPEC
	case "scco", "costs":
		return domain.DivisionSCCO
	case "mercantile":
		return domain.DivisionMercantile
	}
	return domain.Division(strings.ToLower(strings.TrimSpace(s)))
}

func judgmentReferences(root *Node) (caselaw []string, legislation []string) {
	seen := make(map[string]bool)
	for _, ref := range root.FindAll("ref") {
		href := ref.Attr("href")
		if href == "" || seen[href] {
			continue
		}
		seen[href] = true
		switch {
		case strings.Contains(href, "legislation.gov.uk"):
			legislation = append(legislation, href)
		case strings.Contains(href, "caselaw.nationalarchives.gov.uk"):
			caselaw = append(caselaw, href)
		}
	}
	return caselaw, legislation
}

func caselawSections(c *domain.Caselaw, root *Node) []domain.CaselawSection {
	body := root.Find("judgmentBody")
	if body == nil {
		return nil
	}

	var sections []domain.CaselawSection
	order := 0
	var walk func(n *Node, route []string)
	walk = func(n *Node, route []string) {
		switch n.Name {
		case "level", "section", "decision":
			heading := ""
			if h := n.Child("heading"); h != nil {
				heading = h.InnerText()
			}
			next := route
			if heading != "" {
				next = append(append([]string{}, route...), heading)
			}
			for _, child := range n.Children {
				if child.Name == "heading" {
					continue
				}
				walk(child, next)
			}
		case "paragraph":
			text := n.InnerText()
			if text == "" {
				return
			}
			order++
			r := route
			if len(r) == 0 {
				r = []string{c.Name}
			}
			sections = append(sections, domain.CaselawSection{
				ID:        fmt.Sprintf("%s/section/%d", c.ID, order),
				CaselawID: c.ID,
				Court:     c.Court,
				Division:  c.Division,
				Year:      c.Year,
				Number:    c.Number,
				CiteAs:    c.CiteAs,
				Route:     r,
				Order:     order,
				Text:      text,
				CreatedAt: time.Now().UTC(),
			})
		default:
			for _, child := range n.Children {
				walk(child, route)
			}
		}
	}
	walk(body, nil)
	return sections
}
