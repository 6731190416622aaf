package parse

import (
	"regexp"
	"strings"
)

var pLevelRe = regexp.MustCompile(`^P(\d)$`)

// ProvisionToMarkdown renders one CLML provision tree as markdown. The
// rendering rules mirror how the source nests numbered paragraphs:
//
//   - each Pn element is a nesting level; indent depth is max(0, level-2) tabs
//   - Pnumber renders as "<n>) " on a fresh line at the current indent
//   - BlockAmendment indents its whole body one extra level
//   - Pblock titles render as *title*, Part numbers and titles as ## headers
//   - a P1group with a non-Article Pnumber collapses into a
//     "Section <n>) **<title>**" heading, suppressing the next Pnumber
func ProvisionToMarkdown(n *Node) string {
	c := &markdownConverter{}
	var sb strings.Builder
	c.walk(n, 0, &sb)
	return strings.TrimSpace(normalizeQuotes(sb.String()))
}

type markdownConverter struct {
	// skipNextPnumber survives recursion frames within one parse and is
	// reset after it fires once.
	skipNextPnumber bool
}

func (c *markdownConverter) walk(n *Node, level int, sb *strings.Builder) {
	if n == nil {
		return
	}

	switch {
	case n.Name == "Part":
		if num := n.Child("Number"); num != nil {
			sb.WriteString("## " + num.InnerText() + "\n")
		}
		if title := n.Child("Title"); title != nil {
			sb.WriteString("## " + title.InnerText() + "\n")
		}
		for _, child := range n.Children {
			if child.Name == "Number" || child.Name == "Title" {
				continue
			}
			c.walk(child, level, sb)
		}

	case n.Name == "P1group":
		title := n.Child("Title")
		pnum := n.Find("Pnumber")
		if title != nil && pnum != nil && !strings.Contains(pnum.InnerText(), "Article") {
			sb.WriteString("Section " + pnum.InnerText() + ") **" + title.InnerText() + "**\n")
			c.skipNextPnumber = true
		}
		for _, child := range n.Children {
			if child.Name == "Title" {
				continue
			}
			c.walk(child, level, sb)
		}

	case n.Name == "Pblock":
		if title := n.Child("Title"); title != nil {
			sb.WriteString("*" + title.InnerText() + "*\n")
		}
		for _, child := range n.Children {
			if child.Name == "Title" {
				continue
			}
			c.walk(child, level, sb)
		}

	case n.Name == "Pnumber":
		if c.skipNextPnumber {
			c.skipNextPnumber = false
			return
		}
		indent := level - 2
		if indent < 0 {
			indent = 0
		}
		sb.WriteString("\n" + strings.Repeat("\t", indent) + n.InnerText() + ") ")

	case n.Name == "BlockAmendment":
		var inner strings.Builder
		for _, child := range n.Children {
			c.walk(child, level+1, &inner)
		}
		// Rewrite internal newlines so quoted text keeps its nesting.
		body := strings.ReplaceAll(strings.TrimRight(inner.String(), "\n"), "\n", "\n\t")
		sb.WriteString("\t" + strings.TrimLeft(body, "\t") + "\n")

	case n.Name == "Text":
		sb.WriteString(n.InnerText() + "\n")

	case pLevelRe.MatchString(n.Name):
		childLevel := int(n.Name[1] - '0')
		for _, child := range n.Children {
			c.walk(child, childLevel, sb)
		}

	default:
		for _, child := range n.Children {
			c.walk(child, level, sb)
		}
	}
}

// normalizeQuotes removes the stray spaces the source leaves inside curly
// quote pairs.
func normalizeQuotes(s string) string {
	s = strings.ReplaceAll(s, "“ ", "“")
	s = strings.ReplaceAll(s, " ”", "”")
	return s
}
