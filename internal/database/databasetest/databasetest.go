// Package databasetest provides no-op database stubs for service tests that
// fake out the repository layer.
package databasetest

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/avasilkov/family-organizer-backend/internal/database"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// FakeDB satisfies database.PGX. Queries succeed and do nothing; the fake
// repositories hold the actual state.
type FakeDB struct {
	Begun      int
	Committed  int
	RolledBack int
}

func (f *FakeDB) Exec(context.Context, sq.Sqlizer) (pgconn.CommandTag, error) { return nil, nil }

func (f *FakeDB) Get(context.Context, interface{}, sq.Sqlizer) error { return nil }

func (f *FakeDB) Select(context.Context, interface{}, sq.Sqlizer) error { return nil }

func (f *FakeDB) ExecRaw(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}

func (f *FakeDB) GetPool(context.Context) *pgxpool.Pool { return nil }

func (f *FakeDB) BeginTx(context.Context, *pgx.TxOptions) (database.Tx, error) {
	f.Begun++
	return &fakeTx{db: f}, nil
}

type fakeTx struct {
	db *FakeDB
}

func (t *fakeTx) Exec(context.Context, sq.Sqlizer) (pgconn.CommandTag, error) { return nil, nil }

func (t *fakeTx) Get(context.Context, interface{}, sq.Sqlizer) error { return nil }

func (t *fakeTx) Select(context.Context, interface{}, sq.Sqlizer) error { return nil }

func (t *fakeTx) ExecRaw(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}

func (t *fakeTx) Commit(context.Context) error {
	t.db.Committed++
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.db.RolledBack++
	return nil
}
