package compose

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dgallion1/paramdocs/internal/page"
)

var contentTemplates = template.Must(template.New("content").Parse(`
{{- define "page" }}
         <h2>{{ .Prefix }}{{ .Page.Title }}</h2>
{{- if .Page.Description }}

         <ul>
{{- range .Page.Description }}
         <li>{{ . }}</li>
{{- end }}
         </ul>
{{- end }}
{{- if .Page.Examples }}

         <p>Example:
{{- range .Page.Examples }}
         <br><tt>{{ .Command }}</tt>{{ if .Note }} &nbsp; &nbsp; <i>{{ .Note }}</i>{{ end }}
{{- end }}
         </p>
{{- end }}
{{ end }}

{{- define "index" }}
         <h2>{{ .Heading }}</h2>

         <table class="params">
         <tr><th>Parameter</th><th>Default</th></tr>
{{- range .Pages }}
         <tr><td><a href="{{ .ID }}{{ $.LinkSuffix }}">{{ .Title }}</a></td><td><tt>{{ .Default }}</tt></td></tr>
{{- end }}
         </table>
{{ end }}
`))

type pageData struct {
	Prefix string
	Page   *page.Page
}

type indexData struct {
	Heading    string
	LinkSuffix string
	Pages      []*page.Page
}

// RenderContent renders the page-specific block: heading, description list
// and example lines. All page text is HTML escaped.
func RenderContent(prefix string, p *page.Page) (string, error) {
	var buf bytes.Buffer
	if err := contentTemplates.ExecuteTemplate(&buf, "page", pageData{Prefix: prefix, Page: p}); err != nil {
		return "", fmt.Errorf("render content %s: %w", p.ID, err)
	}
	return buf.String(), nil
}

func renderIndexContent(heading, linkSuffix string, pages []*page.Page) (string, error) {
	var buf bytes.Buffer
	data := indexData{Heading: heading, LinkSuffix: linkSuffix, Pages: pages}
	if err := contentTemplates.ExecuteTemplate(&buf, "index", data); err != nil {
		return "", fmt.Errorf("render index: %w", err)
	}
	return buf.String(), nil
}
