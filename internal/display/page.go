package display

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Page holds the static parts of the HTML board.
type Page struct {
	Title string
	// Intro is Markdown shown above the stat cards.
	Intro string
	Year  int
	// LivePath is the WebSocket path for slot updates; empty disables them.
	LivePath string
}

type pageData struct {
	Page
	IntroHTML template.HTML
	Sources   []SourceView
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// RenderHTML writes the board page for snap.
func RenderHTML(w io.Writer, page Page, snap Snapshot) error {
	var intro bytes.Buffer
	if err := md.Convert([]byte(page.Intro), &intro); err != nil {
		return fmt.Errorf("rendering intro: %w", err)
	}

	data := pageData{
		Page:      page,
		IntroHTML: template.HTML(intro.String()),
		Sources:   snap.Sources,
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
