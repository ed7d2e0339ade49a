package mail

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Converter turns an HTML body into line-oriented plaintext.
type Converter interface {
	Convert(html string) (string, error)
}

// HTMLConverter implements Converter with HTMLToText.
type HTMLConverter struct{}

// Convert implements Converter.
func (HTMLConverter) Convert(html string) (string, error) {
	return HTMLToText(html)
}

var (
	skipElements = map[string]bool{
		"head": true, "title": true, "script": true, "style": true, "noscript": true, "#comment": true,
	}
	blockElements = map[string]bool{
		"address": true, "article": true, "blockquote": true, "body": true, "center": true,
		"div": true, "dl": true, "dt": true, "dd": true, "footer": true, "form": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"header": true, "hr": true, "li": true, "main": true, "ol": true, "p": true,
		"pre": true, "section": true, "table": true, "tbody": true, "thead": true,
		"tfoot": true, "tr": true, "ul": true,
	}
	cellElements = map[string]bool{"td": true, "th": true}
)

// HTMLToText renders html as plaintext: block elements and <br> end a line,
// whitespace inside a line collapses to one space, and blank lines are dropped.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	w := &lineWriter{}
	w.walk(doc.Selection)
	w.newline()
	return strings.Join(w.lines, "\n"), nil
}

type lineWriter struct {
	lines   []string
	current strings.Builder
}

func (w *lineWriter) walk(sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			w.current.WriteString(s.Text())
		case name == "br":
			w.newline()
		case skipElements[name]:
		case blockElements[name]:
			w.newline()
			w.walk(s)
			w.newline()
		case cellElements[name]:
			w.current.WriteString(" ")
			w.walk(s)
			w.current.WriteString(" ")
		default:
			w.walk(s)
		}
	})
}

func (w *lineWriter) newline() {
	line := strings.Join(strings.Fields(w.current.String()), " ")
	w.current.Reset()
	if line != "" {
		w.lines = append(w.lines, line)
	}
}
