package inmemory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/hashicorp/go-memdb"
)

/*
memStore is the part shared by every in-memory store. When exc is set the store is scoped to
a write transaction opened by WithinTx and every call runs on it; otherwise each call opens
its own transaction.
*/
type memStore struct {
	db  *memdb.MemDB
	exc *memdb.Txn
	seq map[string]*atomic.Int64
}

func newMemStore(schema *memdb.DBSchema) (memStore, error) {
	if err := schema.Validate(); err != nil {
		return memStore{}, fmt.Errorf("validating in-memory schema: %w", err)
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return memStore{}, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}

	seq := map[string]*atomic.Int64{}
	for table := range schema.Tables {
		seq[table] = &atomic.Int64{}
	}
	return memStore{db: db, seq: seq}, nil
}

/* Ids behave like a serial column: they are never reused, not even after a rollback. */
func (m memStore) nextID(table string) int {
	return int(m.seq[table].Add(1))
}

func (m memStore) read(ctx context.Context, fn func(txn *memdb.Txn) error) error {
	return m.run(ctx, false, fn)
}

func (m memStore) write(ctx context.Context, fn func(txn *memdb.Txn) error) error {
	return m.run(ctx, true, fn)
}

func (m memStore) run(ctx context.Context, write bool, fn func(txn *memdb.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.exc != nil {
		return fn(m.exc)
	}

	txn := m.db.Txn(write)
	defer txn.Abort()

	if err := fn(txn); err != nil {
		return err
	}
	if write {
		txn.Commit()
	}
	return nil
}

/*
Opens a write transaction and hands fn a copy of the store bound to it. memdb serializes
writers, so a second WithinTx waits for the first one to finish.
*/
func (m memStore) withinTx(ctx context.Context, fn func(ctx context.Context, scoped memStore) error) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.TransactionFailure(err)
	}
	if m.exc != nil {
		return fn(ctx, m)
	}

	txn := m.db.Txn(true)
	defer txn.Abort()

	scoped := m
	scoped.exc = txn
	if err := fn(ctx, scoped); err != nil {
		return err
	}

	txn.Commit()
	return nil
}
