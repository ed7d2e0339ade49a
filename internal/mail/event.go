package mail

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Expected tags on an SES receipt notification record.
const (
	EventSource  = "aws:ses"
	EventVersion = "1.0"
)

// Event is the SES receipt notification delivered to the pipeline.
type Event struct {
	Records []EventRecord `json:"Records" validate:"len=1,dive"`
}

// EventRecord is one notification record.
type EventRecord struct {
	EventSource  string    `json:"eventSource" validate:"eq=aws:ses"`
	EventVersion string    `json:"eventVersion" validate:"eq=1.0"`
	SES          SESRecord `json:"ses"`
}

// SESRecord holds the SES payload of a record.
type SESRecord struct {
	Mail Mail `json:"mail"`
}

// Mail is the delivered message metadata.
type Mail struct {
	MessageID     string        `json:"messageId" validate:"required"`
	Source        string        `json:"source"`
	Destination   []string      `json:"destination"`
	CommonHeaders CommonHeaders `json:"commonHeaders"`
}

// CommonHeaders are the headers SES copies into the notification.
type CommonHeaders struct {
	From    []string `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
}

// InvalidEventError reports a trigger payload that is not a single SES record.
type InvalidEventError struct {
	Reason string
	Err    error
}

func (e *InvalidEventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid SES message: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid SES message: %s", e.Reason)
}

func (e *InvalidEventError) Unwrap() error {
	return e.Err
}

var validate = validator.New()

// ParseEvent decodes and validates a raw SES notification and returns its mail metadata.
func ParseEvent(raw []byte) (*Mail, error) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, &InvalidEventError{Reason: "malformed JSON", Err: err}
	}

	if err := validate.Struct(&event); err != nil {
		return nil, &InvalidEventError{Reason: describeValidation(err)}
	}

	mail := event.Records[0].SES.Mail
	return &mail, nil
}

// describeValidation turns validator errors into a short reason string.
func describeValidation(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	reasons := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "len":
			reasons = append(reasons, fmt.Sprintf("expected exactly %s record, got %d", e.Param(), lenOf(e.Value())))
		case "eq":
			reasons = append(reasons, fmt.Sprintf("%s is %q, expected %q", e.Field(), e.Value(), e.Param()))
		case "required":
			reasons = append(reasons, fmt.Sprintf("%s is required", e.Field()))
		default:
			reasons = append(reasons, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
		}
	}
	return strings.Join(reasons, "; ")
}

func lenOf(v any) int {
	if records, ok := v.([]EventRecord); ok {
		return len(records)
	}
	return 0
}
