// Package database scopes every unit of work to a single pooled connection
// and transaction.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Querier is the statement surface shared by pools, connections and transactions
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Provider hands out transaction scopes
type Provider struct {
	db Beginner
}

// NewProvider creates a new Provider
func NewProvider(db Beginner) *Provider {
	return &Provider{db: db}
}

// WithScope runs fn inside one transaction. The transaction is committed when
// fn returns nil and rolled back on an error or a panic, so the connection is
// always released back to the pool.
func (p *Provider) WithScope(ctx context.Context, fn func(q Querier) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			rollback(ctx, tx)
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		rollback(ctx, tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	// The request context may already be cancelled; rollback must still reach the server.
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("transaction rollback failed")
	}
}
