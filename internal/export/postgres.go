package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/lib/pq"
)

const (
	defaultBatchSize     = 50
	defaultFlushInterval = 5 * time.Second
)

// Schema creates the export table
const Schema = `
CREATE TABLE IF NOT EXISTS odds_exports (
	export_id  uuid PRIMARY KEY,
	kind       text NOT NULL,
	subject    text NOT NULL,
	payload    jsonb NOT NULL,
	created_at timestamptz NOT NULL,
	is_latest  boolean NOT NULL DEFAULT true
);
CREATE INDEX IF NOT EXISTS odds_exports_latest_idx ON odds_exports (kind, subject) WHERE is_latest;
`

// PostgresSink batches records into the odds_exports table
// The newest record per (kind, subject) is flagged is_latest
type PostgresSink struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time

	batchSize     int
	flushInterval time.Duration

	buffer []Record
	mu     sync.Mutex

	flushTicker *time.Ticker
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

var _ contracts.ExportSink = (*PostgresSink)(nil)

// NewPostgresSink creates a batching Postgres sink
func NewPostgresSink(db *sql.DB, logger *slog.Logger) *PostgresSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSink{
		db:            db,
		logger:        logger,
		now:           time.Now,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		buffer:        make([]Record, 0, defaultBatchSize),
		stopChan:      make(chan struct{}),
	}
}

// EnsureSchema creates the table if it does not exist
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create odds_exports: %w", err)
	}
	return nil
}

// Start begins the background flush ticker
func (s *PostgresSink) Start(ctx context.Context) {
	s.flushTicker = time.NewTicker(s.flushInterval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.flushTicker.C:
				if err := s.Flush(ctx); err != nil {
					s.logger.Error("export flush failed", "error", err)
				}
			case <-s.stopChan:
				s.flushTicker.Stop()
				// Final flush on shutdown
				if err := s.Flush(context.Background()); err != nil {
					s.logger.Error("final export flush failed", "error", err)
				}
				return
			case <-ctx.Done():
				s.flushTicker.Stop()
				return
			}
		}
	}()
}

// Stop flushes pending records and stops the ticker
func (s *PostgresSink) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

// Export buffers a record and flushes once the batch is full
func (s *PostgresSink) Export(ctx context.Context, kind, subject string, payload any) error {
	record, err := NewRecord(kind, subject, payload, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.buffer = append(s.buffer, record)
	shouldFlush := len(s.buffer) >= s.batchSize
	s.mu.Unlock()

	if shouldFlush {
		return s.Flush(ctx)
	}
	return nil
}

// Pending returns the number of buffered records
func (s *PostgresSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

// Flush writes buffered records in one transaction
// Records of a failed flush are not retried; the error reports how many were dropped
func (s *PostgresSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return nil
	}

	// Swap buffer
	records := s.buffer
	s.buffer = make([]Record, 0, s.batchSize)
	s.mu.Unlock()

	if err := s.write(ctx, records); err != nil {
		return fmt.Errorf("dropped %d exports: %w", len(records), err)
	}
	return nil
}

// write stores records in one transaction
func (s *PostgresSink) write(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Step 1: clear is_latest on rows being superseded
	if err := s.clearLatest(ctx, tx, records); err != nil {
		return fmt.Errorf("clear latest exports: %w", err)
	}

	// Step 2: insert new rows
	if err := s.insert(ctx, tx, records); err != nil {
		return fmt.Errorf("insert exports: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresSink) clearLatest(ctx context.Context, tx *sql.Tx, records []Record) error {
	query := `
		UPDATE odds_exports
		SET is_latest = false
		WHERE is_latest = true
		  AND (kind, subject) IN (
			SELECT UNNEST($1::text[]), UNNEST($2::text[])
		  )
	`

	kinds := make([]string, len(records))
	subjects := make([]string, len(records))
	for i, r := range records {
		kinds[i] = r.Kind
		subjects[i] = r.Subject
	}

	_, err := tx.ExecContext(ctx, query, pq.Array(kinds), pq.Array(subjects))
	return err
}

func (s *PostgresSink) insert(ctx context.Context, tx *sql.Tx, records []Record) error {
	query := `
		INSERT INTO odds_exports (export_id, kind, subject, payload, created_at, is_latest)
		SELECT u.export_id::uuid, u.kind, u.subject, u.payload::jsonb, u.created_at,
		       u.rn = MAX(u.rn) OVER (PARTITION BY u.kind, u.subject)
		FROM UNNEST($1::text[], $2::text[], $3::text[], $4::text[], $5::timestamptz[])
		     WITH ORDINALITY AS u(export_id, kind, subject, payload, created_at, rn)
	`

	ids := make([]string, len(records))
	kinds := make([]string, len(records))
	subjects := make([]string, len(records))
	payloads := make([]string, len(records))
	createdAts := make([]time.Time, len(records))

	for i, r := range records {
		ids[i] = r.ID
		kinds[i] = r.Kind
		subjects[i] = r.Subject
		payloads[i] = string(r.Payload)
		createdAts[i] = r.CreatedAt
	}

	_, err := tx.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(kinds), pq.Array(subjects), pq.Array(payloads), pq.Array(createdAts),
	)
	return err
}
