package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DeliveryPolicy decides what a failed webhook call does to the invocation.
type DeliveryPolicy string

const (
	// DeliveryFail fails the invocation with the DeliveryError.
	DeliveryFail DeliveryPolicy = "fail"
	// DeliveryReport logs the failure, records hook status "ERROR" and succeeds.
	DeliveryReport DeliveryPolicy = "report"
)

// Config holds the pipeline settings.
type Config struct {
	FromEmail      string         `validate:"omitempty,email"` // reserved
	SubjectPrefix  string         // reserved
	EmailBucket    string         `validate:"required"`
	EmailKeyPrefix string         // prepended to the message id
	WebhookURL     string         `validate:"required,url"`
	DeliveryPolicy DeliveryPolicy `validate:"oneof=fail report"`
}

var validate = validator.New()

// Validate checks that the configuration has usable values.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be an email address", field))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a URL", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// MessageKey returns the storage key of a message.
func (c Config) MessageKey(messageID string) string {
	return c.EmailKeyPrefix + messageID
}
