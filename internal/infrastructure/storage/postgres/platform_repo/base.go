// Package platform_repo provides the PostgreSQL implementations of the
// domain repositories, built on squirrel query building and pgxscan row
// scanning. Document-shaped fields (compositions, order items, rate lists)
// are stored as JSONB and travel through pgx's JSON codec.
package platform_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"catalisa/internal/infrastructure/storage/postgres"
)

type base struct {
	txManager *postgres.TxManager
}

// builder returns a squirrel builder with PostgreSQL placeholders.
func (b base) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// querier resolves the active transaction or the pool.
func (b base) querier(ctx context.Context) postgres.Querier {
	return b.txManager.GetQuerier(ctx)
}
