package pipeline

import (
	"errors"
	"fmt"

	"github.com/zombor/receipt-hook/internal/mail"
	"github.com/zombor/receipt-hook/internal/receipt"
	"github.com/zombor/receipt-hook/internal/webhook"
)

// Step names, in execution order.
const (
	StepParseEvent   = "parse_event"
	StepFetch        = "fetch"
	StepParseMessage = "parse_message"
	StepConvert      = "convert"
	StepExtract      = "extract"
	StepDeliver      = "deliver"
)

// StepError identifies the step that ended an invocation.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Invocation statuses.
const (
	StatusDelivered        = "delivered"
	StatusDeliveryFailed   = "delivery_failed"
	StatusExtractionFailed = "extraction_failed"
	StatusInvalidEvent     = "invalid_event"
	StatusFailed           = "failed"
)

// statusOf classifies an invocation error.
func statusOf(err error) string {
	var (
		invalid    *mail.InvalidEventError
		extraction *receipt.FieldExtractionError
		delivery   *webhook.DeliveryError
	)
	switch {
	case err == nil:
		return StatusDelivered
	case errors.As(err, &invalid):
		return StatusInvalidEvent
	case errors.As(err, &extraction):
		return StatusExtractionFailed
	case errors.As(err, &delivery):
		return StatusDeliveryFailed
	default:
		return StatusFailed
	}
}
