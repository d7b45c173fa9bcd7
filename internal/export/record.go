// Package export writes pipeline result sets to append-only sinks.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/google/uuid"
)

// Record is one exported result set
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Subject   string          `json:"subject"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// NewRecord encodes payload into a record with a fresh id
func NewRecord(kind, subject string, payload any, now time.Time) (Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, fmt.Errorf("marshal %s export: %w", kind, err)
	}
	return Record{
		ID:        uuid.NewString(),
		Kind:      kind,
		Subject:   subject,
		CreatedAt: now.UTC(),
		Payload:   data,
	}, nil
}

// Multi fans an export out to several sinks, attempting every one
type Multi []contracts.ExportSink

var _ contracts.ExportSink = Multi(nil)

func (m Multi) Export(ctx context.Context, kind, subject string, payload any) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Export(ctx, kind, subject, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
