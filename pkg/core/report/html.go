package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

const page = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>%s</title></head>
<body>
%s</body></html>
`

// HTML converts a Markdown report into a standalone HTML page.
func HTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return fmt.Sprintf(page, html.EscapeString(title), body.String()), nil
}
