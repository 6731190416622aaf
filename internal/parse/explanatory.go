package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexingest/internal/domain"
)

// ExplanatoryNotes parses an explanatory notes document into ordered note
// records. Top-level divisions are classified by their headings; provision
// commentary keeps a breadcrumb route from the document root down.
func ExplanatoryNotes(legislationID string, data []byte) ([]domain.ExplanatoryNote, error) {
	root, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("explanatory notes %s: %w", legislationID, err)
	}

	body := root.Find("EnactingText")
	if body == nil {
		body = root.Find("Body")
	}
	if body == nil {
		body = root
	}

	var notes []domain.ExplanatoryNote
	order := 0

	emit := func(noteType domain.NoteType, sectionType domain.SectionType, sectionNumber int, route []string, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		order++
		notes = append(notes, domain.ExplanatoryNote{
			ID:            fmt.Sprintf("%s/notes/%d", legislationID, order),
			LegislationID: legislationID,
			NoteType:      noteType,
			SectionType:   sectionType,
			SectionNumber: sectionNumber,
			Route:         route,
			Order:         order,
			Text:          text,
			CreatedAt:     time.Now().UTC(),
		})
	}

	var walk func(n *Node, route []string, noteType domain.NoteType)
	walk = func(n *Node, route []string, noteType domain.NoteType) {
		switch n.Name {
		case "Part", "Pblock", "P1group", "Division":
			title := ""
			if t := n.Child("Title"); t != nil {
				title = t.InnerText()
			}
			nt := noteType
			if classified := classifyNote(title); classified != "" {
				nt = classified
			}
			next := route
			if title != "" {
				next = append(append([]string{}, route...), title)
			}
			sectionType, sectionNumber := sectionRef(title)
			var text strings.Builder
			for _, child := range n.Children {
				if child.Name == "Title" {
					continue
				}
				if hasStructure(child) {
					walk(child, next, nt)
				} else {
					text.WriteString(child.InnerText())
					text.WriteString("\n")
				}
			}
			if sectionType != "" || !hasStructuredChildren(n) {
				emit(nt, sectionType, sectionNumber, next, text.String())
			}
		default:
			for _, child := range n.Children {
				walk(child, route, noteType)
			}
		}
	}
	walk(body, nil, domain.NoteOverview)

	return notes, nil
}

func classifyNote(title string) domain.NoteType {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "overview"):
		return domain.NoteOverview
	case strings.Contains(t, "policy background"):
		return domain.NotePolicyBackground
	case strings.Contains(t, "legal background"):
		return domain.NoteLegalBackground
	case strings.Contains(t, "extent"):
		return domain.NoteExtent
	case strings.Contains(t, "commentary on provisions"), strings.Contains(t, "provisions"):
		return domain.NoteProvisions
	case strings.Contains(t, "commencement"):
		return domain.NoteCommencement
	}
	return ""
}

// sectionRef recognises headings like "Section 12: ..." or "Schedule 3".
func sectionRef(title string) (domain.SectionType, int) {
	t := strings.ToLower(strings.TrimSpace(title))
	for prefix, st := range map[string]domain.SectionType{
		"section ":  domain.SectionTypeSection,
		"schedule ": domain.SectionTypeSchedule,
		"part ":     domain.SectionTypePart,
	} {
		if strings.HasPrefix(t, prefix) {
			rest := strings.TrimPrefix(t, prefix)
			digits := ""
			for _, r := range rest {
				if r < '0' || r > '9' {
					break
				}
				digits += string(r)
			}
			if n, err := strconv.Atoi(digits); err == nil {
				return st, n
			}
		}
	}
	return "", 0
}

func hasStructure(n *Node) bool {
	switch n.Name {
	case "Part", "Pblock", "P1group", "Division":
		return true
	}
	return false
}

func hasStructuredChildren(n *Node) bool {
	for _, child := range n.Children {
		if hasStructure(child) {
			return true
		}
	}
	return false
}
