package receipt

import "strings"

// Document is the line-split plaintext body of one email.
// Lines keep the order produced by the HTML-to-text conversion.
type Document struct {
	lines []string
}

// NewDocument splits text on "\n". Empty lines are kept so positions are stable.
func NewDocument(text string) Document {
	return Document{lines: strings.Split(text, "\n")}
}

// Len returns the number of lines.
func (d Document) Len() int {
	return len(d.lines)
}

// Line returns the line at index or an *OutOfRangeError.
func (d Document) Line(index int) (string, error) {
	if index < 0 || index >= len(d.lines) {
		return "", &OutOfRangeError{Index: index, Lines: len(d.lines)}
	}
	return d.lines[index], nil
}
