package platform_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"catalisa/internal/domain/settings"
	"catalisa/internal/infrastructure/storage/postgres"
)

const settingsTable = "settings"

var settingsColumns = []string{"key", "metal_rates", "currency_rates", "updated_at"}

// SettingsRepo implements settings.Repository.
type SettingsRepo struct {
	base
}

// NewSettingsRepo creates a settings repository.
func NewSettingsRepo(txManager *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{base{txManager: txManager}}
}

// Get returns the stored document, or (nil, nil) when the key has no row.
func (r *SettingsRepo) Get(ctx context.Context, key string) (*settings.Document, error) {
	q := r.builder().
		Select(settingsColumns...).
		From(settingsTable).
		Where(squirrel.Eq{"key": key})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc settings.Document
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &doc, nil
}

// Upsert inserts or replaces the document for its key.
func (r *SettingsRepo) Upsert(ctx context.Context, doc *settings.Document) error {
	q := r.builder().
		Insert(settingsTable).
		Columns(settingsColumns...).
		Values(doc.Key, doc.MetalRates, doc.CurrencyRates, doc.UpdatedAt).
		Suffix(`ON CONFLICT (key) DO UPDATE SET
			metal_rates = EXCLUDED.metal_rates,
			currency_rates = EXCLUDED.currency_rates,
			updated_at = EXCLUDED.updated_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
