package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexingest/internal/domain"
)

// ErrNoBody marks a data.xml response with no Body element: the document
// exists only as a scanned PDF and is handed to the OCR fallback.
var ErrNoBody = errors.New("legislation has no body element")

// Legislation parses a data.xml document into its metadata record and
// ordered section records. Pure; never performs I/O.
func Legislation(uri string, data []byte) (domain.Legislation, []domain.LegislationSection, error) {
	root, err := ParseTree(data)
	if err != nil {
		return domain.Legislation{}, nil, fmt.Errorf("legislation %s: %w", uri, err)
	}

	leg := legislationMetadata(uri, root)

	body := root.Find("Body")
	if body == nil {
		return leg, nil, fmt.Errorf("legislation %s: %w", uri, ErrNoBody)
	}

	sections := legislationSections(leg, body)
	leg.NumberOfProvisions = max(leg.NumberOfProvisions, len(sections))
	return leg, sections, nil
}

// PDFLink extracts the Original PDF link from legislation metadata, if the
// document carries one.
func PDFLink(data []byte) string {
	root, err := ParseTree(data)
	if err != nil {
		return ""
	}
	for _, link := range root.FindAll("link") {
		if link.Attr("title") == "Original PDF" && link.Attr("type") == "application/pdf" {
			return link.Attr("href")
		}
	}
	return ""
}

func legislationMetadata(uri string, root *Node) domain.Legislation {
	leg := domain.Legislation{
		ID:        uri,
		CreatedAt: time.Now().UTC(),
	}

	meta := root.Find("Metadata")
	if meta == nil {
		meta = root
	}

	if t := meta.Find("title"); t != nil {
		leg.Title = t.InnerText()
	}
	if d := meta.Find("description"); d != nil {
		leg.Description = d.InnerText()
	}
	if m := meta.Find("modified"); m != nil {
		leg.ModifiedDate = parseDate(m.InnerText())
	}

	if cls := meta.Find("DocumentClassification"); cls != nil {
		if mt := cls.Child("DocumentMainType"); mt != nil {
			v := strings.ToLower(mt.Attr("Value"))
			// Some documents carry the long form, e.g.
			// "UnitedKingdomPublicGeneralAct"; others the short code.
			if code, ok := mainTypeCodes[v]; ok {
				v = code
			}
			leg.Type = domain.LegislationType(v)
		}
		if st := cls.Child("DocumentStatus"); st != nil {
			leg.Status = st.Attr("Value")
		}
	}
	if y := meta.Find("Year"); y != nil {
		leg.Year, _ = strconv.Atoi(y.Attr("Value"))
	}
	if n := meta.Find("Number"); n != nil {
		leg.Number, _ = strconv.Atoi(n.Attr("Value"))
	}
	if e := meta.Find("EnactmentDate"); e != nil {
		leg.EnactmentDate = parseDate(e.Attr("Date"))
	}
	if np := meta.Find("NumberOfProvisions"); np != nil {
		leg.NumberOfProvisions, _ = strconv.Atoi(np.Attr("Value"))
		if leg.NumberOfProvisions == 0 {
			leg.NumberOfProvisions, _ = strconv.Atoi(np.InnerText())
		}
	}
	if ext := root.Attr("RestrictExtent"); ext != "" {
		leg.Extent = ext
	}

	return leg
}

func legislationSections(leg domain.Legislation, body *Node) []domain.LegislationSection {
	groups := body.FindAll("P1group")
	sections := make([]domain.LegislationSection, 0, len(groups))

	for i, group := range groups {
		text := ProvisionToMarkdown(group)
		if text == "" {
			continue
		}

		number := i + 1
		if pnum := group.Find("Pnumber"); pnum != nil {
			if n, err := strconv.Atoi(strings.TrimSpace(pnum.InnerText())); err == nil {
				number = n
			}
		}

		section := domain.LegislationSection{
			ID:              fmt.Sprintf("%s/section/%d", leg.ID, number),
			LegislationID:   leg.ID,
			LegislationType: leg.Type,
			Year:            leg.Year,
			Number:          leg.Number,
			ProvisionType:   "section",
			Extent:          leg.Extent,
			Text:            text,
			CreatedAt:       time.Now().UTC(),
		}
		if title := group.Child("Title"); title != nil {
			section.Title = title.InnerText()
		}
		sections = append(sections, section)
	}
	return sections
}

var mainTypeCodes = map[string]string{
	"unitedkingdompublicgeneralact":         "ukpga",
	"unitedkingdomlocalact":                 "ukla",
	"scottishact":                           "asp",
	"welshparliamentact":                    "asc",
	"welshnationalassemblyact":              "anaw",
	"welshassemblymeasure":                  "mwa",
	"ukchurchmeasure":                       "ukcm",
	"northernirelandact":                    "nia",
	"northernirelandparliamentact":          "apni",
	"unitedkingdomstatutoryinstrument":      "uksi",
	"welshstatutoryinstrument":              "wsi",
	"scottishstatutoryinstrument":           "ssi",
	"northernirelandorderincouncil":         "nisi",
	"northernirelandstatutoryrule":          "nisr",
	"ukchurchinstrument":                    "ukci",
	"unitedkingdomministerialorder":         "ukmo",
	"unitedkingdomdraftstatutoryinstrument": "ukdsi",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
