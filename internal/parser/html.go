package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/paramdocs/internal/page"
	"golang.org/x/net/html"
)

// DefaultTitlePrefix precedes the parameter name in page headings.
const DefaultTitlePrefix = "Comet parameter: "

var defaultValuePattern = regexp.MustCompile(`(?i)default value is\s+"([^"]*)"`)

// HTMLParser imports hand-authored legacy parameter pages. Server-side
// include directives are ignored; the page body supplies an <h2> title, <li>
// description bullets and <tt>/<i> example pairs.
type HTMLParser struct {
	TitlePrefix string
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*page.Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	pg := &page.Page{}
	if h := findElement(doc, "h2"); h != nil {
		pg.Title = strings.TrimSpace(strings.TrimPrefix(textContent(h), p.TitlePrefix))
	}

	if ul := findElement(doc, "ul"); ul != nil {
		for c := ul.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				pg.Description = append(pg.Description, textContent(c))
			}
		}
	}
	for _, d := range pg.Description {
		if m := defaultValuePattern.FindStringSubmatch(d); m != nil {
			pg.Default = m[1]
			break
		}
	}

	pg.Examples = examples(doc)
	return pg, nil
}

// examples collects <tt> commands in document order, attaching the first <i>
// that follows each one before the next <tt> as its note.
func examples(doc *html.Node) []page.Example {
	var out []page.Example
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "tt", "code":
				out = append(out, page.Example{Command: textContent(n)})
				return
			case "i", "em":
				if len(out) > 0 && out[len(out)-1].Note == "" {
					out[len(out)-1].Note = textContent(n)
				}
				return
			case "script", "style", "head":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if e := findElement(c, tag); e != nil {
			return e
		}
	}
	return nil
}
