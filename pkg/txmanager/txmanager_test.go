package txmanager

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkwash/CW-BookingService/pkg/dbmetrics"
)

// stubTx транзакция-заглушка; ошибки commit берутся из очереди stubBeginner
type stubTx struct {
	beginner *stubBeginner
}

func (t *stubTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *stubTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *stubTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *stubTx) Commit() error {
	t.beginner.commits++
	if len(t.beginner.commitErrs) == 0 {
		return nil
	}
	err := t.beginner.commitErrs[0]
	t.beginner.commitErrs = t.beginner.commitErrs[1:]
	return err
}

func (t *stubTx) Rollback() error {
	t.beginner.rollbacks++
	return nil
}

type stubBeginner struct {
	beginErr   error
	commitErrs []error

	begins    int
	commits   int
	rollbacks int
	lastOpts  *sql.TxOptions
}

func (b *stubBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	b.lastOpts = opts
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return &stubTx{beginner: b}, nil
}

func serializationConflict() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializable_Success(t *testing.T) {
	db := &stubBeginner{}
	mgr := NewTransactionManager(db)

	var sawTx bool
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})
	require.NoError(t, err)

	assert.True(t, sawTx, "транзакция должна передаваться вниз через контекст")
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, 1, db.commits)
	assert.Zero(t, db.rollbacks)
	require.NotNil(t, db.lastOpts)
	assert.Equal(t, sql.LevelSerializable, db.lastOpts.Isolation)
}

func TestDoSerializable_RetriesCommitConflict(t *testing.T) {
	// Конфликт сериализации всплывает на commit: первая попытка
	// проигрывает конкуренту, повтор проходит
	db := &stubBeginner{commitErrs: []error{serializationConflict()}}
	mgr := NewTransactionManager(db)

	var calls int
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, db.begins)
	assert.Equal(t, 2, db.commits)
}

func TestDoSerializable_RetriesFnConflict(t *testing.T) {
	db := &stubBeginner{}
	mgr := NewTransactionManager(db)

	var calls int
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return serializationConflict()
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, db.rollbacks)
	assert.Equal(t, 1, db.commits)
}

func TestDoSerializable_ExhaustsRetries(t *testing.T) {
	db := &stubBeginner{commitErrs: []error{
		serializationConflict(),
		serializationConflict(),
		serializationConflict(),
	}}
	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.Equal(t, maxRetries, db.begins)
}

func TestDoSerializable_NonRetryableFnError(t *testing.T) {
	db := &stubBeginner{}
	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	// Обычная ошибка не повторяется, транзакция откатывается
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, 1, db.rollbacks)
	assert.Zero(t, db.commits)
}

func TestDoSerializable_NonRetryableCommitError(t *testing.T) {
	db := &stubBeginner{commitErrs: []error{assert.AnError}}
	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.Equal(t, 1, db.begins)
}

func TestDoSerializable_BeginFailure(t *testing.T) {
	db := &stubBeginner{beginErr: assert.AnError}
	mgr := NewTransactionManager(db)

	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn не должна вызываться при ошибке begin")
		return nil
	})
	assert.ErrorIs(t, err, ErrTxFailed)
}
