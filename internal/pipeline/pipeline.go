// Package pipeline turns an SES delivery event into a webhook call carrying
// the extracted e-receipt.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-hook/internal/mail"
	"github.com/zombor/receipt-hook/internal/receipt"
	"github.com/zombor/receipt-hook/internal/storage"
	"github.com/zombor/receipt-hook/internal/webhook"
)

// EventParser validates the trigger payload.
type EventParser interface {
	ParseEvent(raw []byte) (*mail.Mail, error)
}

// MessageParser parses a raw MIME message.
type MessageParser interface {
	ParseMessage(raw []byte) (*mail.Message, error)
}

// Extractor turns plaintext lines into a receipt record.
type Extractor interface {
	Extract(doc receipt.Document) (receipt.Record, error)
}

// Sender delivers a record and returns the remote response body.
type Sender interface {
	Send(ctx context.Context, payload any) (string, error)
}

// Steps are the collaborators run in order by Process.
type Steps struct {
	Events    EventParser
	Store     storage.Store
	Messages  MessageParser
	Converter mail.Converter
	Extractor Extractor
	Sender    Sender
}

// DefaultSteps wires the standard parsers, converter and Grab extractor
// around the given store and sender.
func DefaultSteps(store storage.Store, sender Sender) Steps {
	return Steps{
		Events:    mail.Parser{},
		Store:     store,
		Messages:  mail.Parser{},
		Converter: mail.HTMLConverter{},
		Extractor: receipt.NewGrabExtractor(),
		Sender:    sender,
	}
}

// IDGenerator generates invocation IDs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Result is the outcome of a successful invocation.
type Result struct {
	InvocationID string         `json:"invocation_id"`
	MessageID    string         `json:"message_id"`
	Status       string         `json:"status"`
	Record       receipt.Record `json:"record"`
	HookStatus   string         `json:"hook_status"`
}

// Pipeline runs validate, fetch, parse, convert, extract and deliver in sequence.
type Pipeline struct {
	cfg         Config
	steps       Steps
	journal     Journal
	metrics     *Metrics
	logger      *slog.Logger
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewPipeline creates a Pipeline with the default logger, uuid IDs and wall clock.
// journal and metrics may be nil.
func NewPipeline(cfg Config, steps Steps, journal Journal, metrics *Metrics) *Pipeline {
	return NewPipelineWithDeps(cfg, steps, journal, metrics, nil, uuidGenerator{}, defaultTimeSource{})
}

// NewPipelineWithDeps creates a Pipeline with custom dependencies for testing
func NewPipelineWithDeps(cfg Config, steps Steps, journal Journal, metrics *Metrics, logger *slog.Logger, idGen IDGenerator, timeSrc TimeSource) *Pipeline {
	if journal == nil {
		journal = nopJournal{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:         cfg,
		steps:       steps,
		journal:     journal,
		metrics:     metrics,
		logger:      logger,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Process runs one invocation. Errors are *StepError values wrapping the
// failing step's typed error.
func (p *Pipeline) Process(ctx context.Context, rawEvent []byte) (*Result, error) {
	inv := &Invocation{
		ID:        p.idGenerator.Generate(),
		StartedAt: p.timeSource.Now(),
	}
	logger := p.logger.With("invocation_id", inv.ID)

	result, err := p.run(ctx, logger, inv, rawEvent)

	inv.FinishedAt = p.timeSource.Now()
	if err != nil {
		inv.Status = statusOf(err)
		inv.Error = err.Error()
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			inv.Step = stepErr.Step
		}
	} else if inv.Status == "" {
		inv.Status = StatusDelivered
	}

	if saveErr := p.journal.SaveInvocation(inv); saveErr != nil {
		logger.Warn("Failed to record invocation", "error", saveErr)
	}
	if p.metrics != nil {
		p.metrics.Invocations.WithLabelValues(inv.Status).Inc()
	}

	if err != nil {
		logger.Error("Step returned error",
			"step", inv.Step,
			"status", inv.Status,
			"message_id", inv.MessageID,
			"error", err,
		)
		return nil, err
	}

	result.Status = inv.Status
	logger.Info("Process finished successfully", "message_id", inv.MessageID, "status", inv.Status)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, inv *Invocation, rawEvent []byte) (*Result, error) {
	var meta *mail.Mail
	err := p.step(StepParseEvent, func() (err error) {
		meta, err = p.steps.Events.ParseEvent(rawEvent)
		return err
	})
	if err != nil {
		return nil, err
	}
	inv.MessageID = meta.MessageID
	logger = logger.With("message_id", meta.MessageID)
	p.checkSender(logger, meta)

	key := p.cfg.MessageKey(meta.MessageID)
	logger.Info("Fetching email", "location", fmt.Sprintf("s3://%s/%s", p.cfg.EmailBucket, key))
	var raw []byte
	err = p.step(StepFetch, func() (err error) {
		raw, err = p.steps.Store.Get(ctx, p.cfg.EmailBucket, key)
		return err
	})
	if err != nil {
		return nil, err
	}

	var msg *mail.Message
	err = p.step(StepParseMessage, func() (err error) {
		msg, err = p.steps.Messages.ParseMessage(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Parsed email", "from", msg.From, "to", msg.To, "subject", msg.Subject)

	var text string
	err = p.step(StepConvert, func() (err error) {
		text, err = p.steps.Converter.Convert(msg.Body())
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Converted email body", "text", text)

	doc := receipt.NewDocument(text)
	var record receipt.Record
	err = p.step(StepExtract, func() (err error) {
		record, err = p.steps.Extractor.Extract(doc)
		return err
	})
	if err != nil {
		logger.Warn("Receipt layout did not match extraction rules", "lines", doc.Len(), "error", err)
		return nil, err
	}
	inv.Record = &record
	logger.Info("Extracted receipt", "booking_code", record.BookingCode, "amount", record.Amount)

	var body string
	err = p.step(StepDeliver, func() (err error) {
		body, err = p.steps.Sender.Send(ctx, record)
		return err
	})
	inv.HookStatus = webhook.HookStatus(body, err)
	if err != nil {
		if p.cfg.DeliveryPolicy != DeliveryReport {
			return nil, err
		}
		logger.Error("Webhook delivery failed", "hook_status", inv.HookStatus, "error", err)
		inv.Status = StatusDeliveryFailed
		inv.Step = StepDeliver
		inv.Error = err.Error()
	}

	return &Result{
		InvocationID: inv.ID,
		MessageID:    inv.MessageID,
		Record:       record,
		HookStatus:   inv.HookStatus,
	}, nil
}

// step times fn and wraps its error with the step name.
func (p *Pipeline) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if p.metrics != nil {
		p.metrics.StepDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.StepFailures.WithLabelValues(name).Inc()
		}
		return &StepError{Step: name, Err: err}
	}
	return nil
}

// checkSender warns when a message does not look like it came from the
// configured sender. It never rejects the message.
func (p *Pipeline) checkSender(logger *slog.Logger, meta *mail.Mail) {
	if p.cfg.FromEmail != "" && !strings.EqualFold(meta.Source, p.cfg.FromEmail) {
		logger.Warn("Sender differs from configured from-email", "source", meta.Source, "expected", p.cfg.FromEmail)
	}
	if p.cfg.SubjectPrefix != "" && !strings.HasPrefix(meta.CommonHeaders.Subject, p.cfg.SubjectPrefix) {
		logger.Warn("Subject does not start with configured prefix", "subject", meta.CommonHeaders.Subject, "expected", p.cfg.SubjectPrefix)
	}
}
