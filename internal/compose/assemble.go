package compose

import (
	"bytes"
	"strings"
)

// Fragments holds the shared markup blocks for one document.
type Fragments struct {
	Head    string
	TopMenu string
	ImgBar  string
	Footer  string
}

const (
	htmlOpen  = "<html>\n<body>\n"
	pageOpen  = "\n<div id=\"page\">\n   <div id=\"content_full\">\n      <div class=\"post hr\">\n"
	pageClose = "      </div>\n   </div>\n   <div style=\"clear: both;\">&nbsp;</div>\n</div>\n\n"
	htmlClose = "</body>\n</html>\n"
)

// Assemble concatenates a document in the fixed order: head, html/body open,
// topmenu, imgbar, page wrapper open, content, page wrapper close, footer,
// body/html close. Fragments are inserted verbatim.
func Assemble(f Fragments, content string) []byte {
	var buf bytes.Buffer
	buf.Grow(len(f.Head) + len(f.TopMenu) + len(f.ImgBar) + len(f.Footer) + len(content) + 256)

	writeLine(&buf, f.Head)
	buf.WriteString(htmlOpen)
	writeLine(&buf, f.TopMenu)
	writeLine(&buf, f.ImgBar)
	buf.WriteString(pageOpen)
	writeLine(&buf, content)
	buf.WriteString(pageClose)
	writeLine(&buf, f.Footer)
	buf.WriteString(htmlClose)
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	if s != "" && !strings.HasSuffix(s, "\n") {
		buf.WriteByte('\n')
	}
}
