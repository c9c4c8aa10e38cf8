package sqlite

import (
	"context"
	"database/sql"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits or rolls back

// Ping is a no-op for transactions; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) Invites() store.Invites       { return &invitesRepo{db: t.tx} }
func (t *txStore) Properties() store.Properties { return &propertiesRepo{db: t.tx} }
func (t *txStore) Tenancies() store.Tenancies   { return &tenanciesRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before transactions start
