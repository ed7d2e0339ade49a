package receipt

import "fmt"

// GrabRules is the positional grammar of the Grab e-receipt plaintext layout.
// Line 0 is the receipt header; the amount sits on line 1 and every
// following field occupies the next line.
var GrabRules = []FieldRule{
	{Field: FieldAmount, Line: 1, Remove: []string{"P", "|", "TIME", "DATE"}},
	{Field: FieldPickupTime, Line: 2, Remove: []string{"Pick-up time: ", "+0800", "Booking Details", "Vehicle type:"}},
	{Field: FieldBookingType, Line: 3, Remove: []string{"Issued by driver"}},
	{Field: FieldDriverName, Line: 4, Remove: []string{"Issued to"}},
	{Field: FieldPassengerName, Line: 5, Remove: []string{"Booking code"}},
	{Field: FieldBookingCode, Line: 6, Remove: []string{"Pick up location:"}},
	{Field: FieldPickupAddress, Line: 7, Remove: []string{"Drop off location:"}},
	{Field: FieldDropoffAddress, Line: 8, Remove: []string{"Tag:", "Profile:"}},
}

// Extractor applies an ordered rule table to a Document.
type Extractor struct {
	rules []FieldRule
}

// NewExtractor validates rules and returns an Extractor that applies them in order.
// The table must define every record field exactly once.
func NewExtractor(rules []FieldRule) (*Extractor, error) {
	seen := make(map[string]bool, len(rules))
	var probe Record
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("invalid rule: %w", err)
		}
		if !probe.set(rule.Field, "") {
			return nil, fmt.Errorf("invalid rule: unknown field %s", rule.Field)
		}
		if seen[rule.Field] {
			return nil, fmt.Errorf("invalid rule: duplicate field %s", rule.Field)
		}
		seen[rule.Field] = true
	}
	for _, field := range RecordFields {
		if !seen[field] {
			return nil, fmt.Errorf("invalid rule table: no rule for field %s", field)
		}
	}

	copied := make([]FieldRule, len(rules))
	for i, rule := range rules {
		rule.Remove = append([]string(nil), rule.Remove...)
		copied[i] = rule
	}
	return &Extractor{rules: copied}, nil
}

// NewGrabExtractor returns an Extractor for GrabRules.
func NewGrabExtractor() *Extractor {
	e, err := NewExtractor(GrabRules)
	if err != nil {
		panic(err)
	}
	return e
}

// Rules returns a copy of the rule table.
func (e *Extractor) Rules() []FieldRule {
	return append([]FieldRule(nil), e.rules...)
}

// Extract builds a Record from doc. It stops at the first rule that fails
// and returns a *FieldExtractionError naming that field.
func (e *Extractor) Extract(doc Document) (Record, error) {
	var record Record
	for _, rule := range e.rules {
		value, err := rule.Apply(doc)
		if err != nil {
			return Record{}, &FieldExtractionError{Field: rule.Field, Line: rule.Line, Err: err}
		}
		record.set(rule.Field, value)
	}
	return record, nil
}

// ExtractText splits text into a Document and extracts it.
func (e *Extractor) ExtractText(text string) (Record, error) {
	return e.Extract(NewDocument(text))
}
