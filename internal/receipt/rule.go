package receipt

import (
	"errors"
	"fmt"
	"strings"
)

// FieldRule derives one named field from one line of a Document.
type FieldRule struct {
	Field  string   // output key
	Line   int      // zero-based line index
	Remove []string // literal substrings stripped in order, every occurrence
}

// Apply fetches the rule's line, strips each pattern and trims whitespace.
// A line containing none of the patterns passes through trimmed.
func (r FieldRule) Apply(doc Document) (string, error) {
	line, err := doc.Line(r.Line)
	if err != nil {
		return "", err
	}
	for _, pattern := range r.Remove {
		line = strings.ReplaceAll(line, pattern, "")
	}
	return strings.TrimSpace(line), nil
}

// Validate rejects rules that could never be applied meaningfully.
func (r FieldRule) Validate() error {
	if r.Field == "" {
		return errors.New("field name is required")
	}
	if r.Line < 0 {
		return fmt.Errorf("field %s: line index %d is negative", r.Field, r.Line)
	}
	for i, pattern := range r.Remove {
		if pattern == "" {
			return fmt.Errorf("field %s: removal pattern %d is empty", r.Field, i)
		}
	}
	return nil
}
