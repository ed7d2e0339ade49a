package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/receipt-hook/internal/receipt"
)

const invocationBucketName = "invocations"

// ErrNotFound is returned for an unknown invocation id.
var ErrNotFound = errors.New("invocation not found")

// Invocation is the journal entry for one pipeline run.
type Invocation struct {
	ID         string          `json:"id"`
	MessageID  string          `json:"message_id,omitempty"`
	Status     string          `json:"status"`
	Step       string          `json:"step,omitempty"` // failing step
	Error      string          `json:"error,omitempty"`
	Record     *receipt.Record `json:"record,omitempty"`
	HookStatus string          `json:"hook_status,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// Journal defines the interface for invocation audit storage
type Journal interface {
	// SaveInvocation stores or replaces an entry
	SaveInvocation(inv *Invocation) error

	// GetInvocation retrieves an entry by ID
	GetInvocation(id string) (*Invocation, error)

	// ListInvocations returns all entries, oldest first
	ListInvocations() ([]*Invocation, error)

	// Close closes the journal
	Close() error
}

// BoltJournal implements Journal using BoltDB
type BoltJournal struct {
	db *bbolt.DB
}

// NewBoltJournal opens or creates the journal file at path
func NewBoltJournal(path string) (*BoltJournal, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(invocationBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltJournal{db: db}, nil
}

// SaveInvocation stores an entry keyed by its ID
func (b *BoltJournal) SaveInvocation(inv *Invocation) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invocationBucketName))
		data, err := json.Marshal(inv)
		if err != nil {
			return fmt.Errorf("marshaling invocation: %w", err)
		}
		return bucket.Put([]byte(inv.ID), data)
	})
}

// GetInvocation retrieves an entry by ID
func (b *BoltJournal) GetInvocation(id string) (*Invocation, error) {
	var inv *Invocation
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invocationBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvocations returns all entries ordered by start time
func (b *BoltJournal) ListInvocations() ([]*Invocation, error) {
	invocations := make([]*Invocation, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(invocationBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var inv Invocation
			if err := json.Unmarshal(v, &inv); err != nil {
				return fmt.Errorf("unmarshaling invocation: %w", err)
			}
			invocations = append(invocations, &inv)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(invocations, func(i, j int) bool {
		return invocations[i].StartedAt.Before(invocations[j].StartedAt)
	})
	return invocations, nil
}

// Close closes the database connection
func (b *BoltJournal) Close() error {
	return b.db.Close()
}

// nopJournal is used when no journal is configured.
type nopJournal struct{}

func (nopJournal) SaveInvocation(*Invocation) error { return nil }

func (nopJournal) GetInvocation(id string) (*Invocation, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (nopJournal) ListInvocations() ([]*Invocation, error) { return []*Invocation{}, nil }

func (nopJournal) Close() error { return nil }
