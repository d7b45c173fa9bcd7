package export

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/XavierBriggs/Janus/pkg/contracts"
	"github.com/XavierBriggs/Janus/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "odds.jsonl")
	sink := NewFileSink(path)
	ctx := context.Background()

	require.NoError(t, sink.Export(ctx, contracts.ExportKindOdds, "soccer_epl", []string{"a"}))
	require.NoError(t, sink.Export(ctx, contracts.ExportKindComparison, "Arsenal:Chelsea", map[string]int{"n": 1}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, records, 2)

	assert.Equal(t, "odds", records[0].Kind)
	assert.Equal(t, "soccer_epl", records[0].Subject)
	assert.JSONEq(t, `["a"]`, string(records[0].Payload))
	_, err = uuid.Parse(records[0].ID)
	assert.NoError(t, err)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestFileSink_UnencodablePayload(t *testing.T) {
	sink := NewFileSink(filepath.Join(t.TempDir(), "odds.jsonl"))
	err := sink.Export(context.Background(), "odds", "x", make(chan int))
	assert.Error(t, err)
}

func TestMulti(t *testing.T) {
	ok := &testutil.RecordingSink{}
	failing := &testutil.RecordingSink{Err: errors.New("boom")}

	err := Multi{failing, nil, ok}.Export(context.Background(), "odds", "soccer_epl", 1)
	assert.Error(t, err)
	assert.Equal(t, 1, ok.Count(), "every sink is attempted")
	assert.Equal(t, 1, failing.Count())
}

func TestPostgresSink_Flush(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sink := NewPostgresSink(db, nil)
	ctx := context.Background()

	require.NoError(t, sink.Export(ctx, "odds", "soccer_epl", []int{1}))
	require.NoError(t, sink.Export(ctx, "odds", "soccer_epl", []int{2}))
	assert.Equal(t, 2, sink.Pending())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE odds_exports`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO odds_exports`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, sink.Flush(ctx))
	assert.Equal(t, 0, sink.Pending())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_FlushEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, NewPostgresSink(db, nil).Flush(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sink := NewPostgresSink(db, nil)
	ctx := context.Background()
	require.NoError(t, sink.Export(ctx, "comparison", "Arsenal:Chelsea", []int{1}))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE odds_exports`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO odds_exports`).WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	err = sink.Flush(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert exports")
	assert.Contains(t, err.Error(), "dropped 1 exports")
	assert.Equal(t, 0, sink.Pending())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_BeginFailureReportsDropped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sink := NewPostgresSink(db, nil)
	ctx := context.Background()
	require.NoError(t, sink.Export(ctx, "odds", "soccer_epl", 1))
	require.NoError(t, sink.Export(ctx, "odds", "soccer_epl", 2))
	require.NoError(t, sink.Export(ctx, "comparison", "Arsenal:Chelsea", 3))

	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	err = sink.Flush(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dropped 3 exports: begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_FlushesFullBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sink := NewPostgresSink(db, nil)
	sink.batchSize = 2
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE odds_exports`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO odds_exports`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, sink.Export(ctx, "odds", "a", 1))
	require.NoError(t, sink.Export(ctx, "odds", "b", 2))
	assert.Equal(t, 0, sink.Pending())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS odds_exports`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresSink(db, nil).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
