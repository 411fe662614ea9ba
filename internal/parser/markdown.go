package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/paramdocs/internal/page"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles page definitions written in Markdown using goldmark.
//
// The first level-1 heading is the title and the first list is the
// description. A paragraph starting with "Default:" holds the default value,
// preferably as a code span. Items of the list following an "Example" or
// "Examples" heading become examples: the first code span is the command and
// the remaining text is the note.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*page.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	pg := &page.Page{}
	inExamples := false
	haveDescription := false

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(inlineText(node, src))
			if node.Level == 1 && pg.Title == "" {
				pg.Title = title
				continue
			}
			switch strings.ToLower(strings.TrimSuffix(title, ":")) {
			case "example", "examples":
				inExamples = true
			default:
				inExamples = false
			}

		case *ast.List:
			if inExamples {
				for item := node.FirstChild(); item != nil; item = item.NextSibling() {
					if ex, ok := exampleFromItem(item, src); ok {
						pg.Examples = append(pg.Examples, ex)
					}
				}
				continue
			}
			if haveDescription {
				continue
			}
			haveDescription = true
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				pg.Description = append(pg.Description, inlineText(item, src))
			}

		case *ast.Paragraph:
			if v, ok := defaultFromParagraph(node, src); ok {
				pg.Default = v
			}
		}
	}

	return pg, nil
}

func defaultFromParagraph(n *ast.Paragraph, src []byte) (string, bool) {
	full := strings.TrimSpace(inlineText(n, src))
	if !strings.HasPrefix(strings.ToLower(full), "default:") {
		return "", false
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if cs, ok := c.(*ast.CodeSpan); ok {
			return inlineText(cs, src), true
		}
	}
	return strings.TrimSpace(full[len("default:"):]), true
}

func exampleFromItem(item ast.Node, src []byte) (page.Example, bool) {
	var ex page.Example
	var note bytes.Buffer
	for block := item.FirstChild(); block != nil; block = block.NextSibling() {
		for c := block.FirstChild(); c != nil; c = c.NextSibling() {
			if cs, ok := c.(*ast.CodeSpan); ok && ex.Command == "" {
				ex.Command = inlineText(cs, src)
				continue
			}
			note.WriteString(inlineText(c, src))
		}
	}
	ex.Note = strings.Trim(strings.TrimSpace(note.String()), "-:— ")
	return ex, ex.Command != ""
}

// inlineText concatenates the text of n and its inline descendants.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	switch t := n.(type) {
	case *ast.Text:
		buf.Write(t.Segment.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			buf.WriteByte(' ')
		}
		return buf.String()
	case *ast.String:
		return string(t.Value)
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		buf.WriteString(inlineText(c, src))
	}
	return buf.String()
}
