// Package web holds the server-rendered upload form.
package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"label": func(k models.DocumentKind) string { return k.Label() },
}).ParseFS(templateFiles, "templates/*.html"))

type Upload struct {
	Kind  models.DocumentKind
	Field string
}

// PageData is what index.html renders: the form, and optionally an error or
// a generated appeal.
type PageData struct {
	Uploads []Upload
	Error   string
	Result  *models.AppealResponse
}

func NewPageData() PageData {
	uploads := make([]Upload, 0, len(models.DocumentKinds))
	for _, kind := range models.DocumentKinds {
		uploads = append(uploads, Upload{Kind: kind, Field: string(kind)})
	}
	return PageData{Uploads: uploads}
}

func RenderIndex(w io.Writer, data PageData) error {
	return pages.ExecuteTemplate(w, "index.html", data)
}
