package i18n

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Span marks a styled byte range of Rich.Plain.
type Span struct {
	Start, End int
	Strong     bool // ** emphasis; otherwise single * emphasis
}

// Rich is localized text with markdown stripped and emphasis kept as spans.
type Rich struct {
	Plain string
	Spans []Span
}

var inlineParser = goldmark.New().Parser()

// ParseInline converts a localized string with inline markdown into plain
// text and emphasis spans. Paragraph breaks become newlines.
func ParseInline(s string) Rich {
	src := []byte(s)
	doc := inlineParser.Parse(gmtext.NewReader(src))

	var (
		plain  []byte
		spans  []Span
		starts []int
		paras  int
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Paragraph, *ast.Heading:
			if entering {
				if paras > 0 {
					plain = append(plain, '\n')
				}
				paras++
			}
		case *ast.Emphasis:
			if entering {
				starts = append(starts, len(plain))
			} else {
				start := starts[len(starts)-1]
				starts = starts[:len(starts)-1]
				spans = append(spans, Span{Start: start, End: len(plain), Strong: node.Level >= 2})
			}
		case *ast.Text:
			if entering {
				plain = append(plain, util.UnescapePunctuations(node.Segment.Value(src))...)
				if node.SoftLineBreak() || node.HardLineBreak() {
					plain = append(plain, ' ')
				}
			}
		case *ast.String:
			if entering {
				plain = append(plain, node.Value...)
			}
		}
		return ast.WalkContinue, nil
	})

	return Rich{Plain: string(plain), Spans: spans}
}
