package settings

import (
	"context"
	"strings"
	"time"
	"unicode"

	"catalisa/internal/core/tx"
	"catalisa/internal/infrastructure/storage/postgres"
	"catalisa/internal/pricing"
	"catalisa/pkg/logger"
)

// Recalculator re-prices stored products against a settings snapshot.
// Implemented by the product service; the interface lives here to avoid a
// package cycle.
type Recalculator interface {
	RecalculateAll(ctx context.Context, snapshot pricing.Settings) (int, error)
}

// UpdateInput is the admin settings payload. Currency rates arrive as a loose
// key→value map because older clients used several spellings for the USD rate.
// Recalculate defaults to true: saving rates re-prices the catalog.
type UpdateInput struct {
	MetalRates    []pricing.RateInput       `json:"metalRates"`
	CurrencyRates map[string]pricing.Number `json:"currencyRates"`
	Recalculate   *bool                     `json:"recalculate"`
}

// UpdateResult is what the admin endpoint returns.
type UpdateResult struct {
	Document     *Document `json:"settings"`
	UpdatedCount int       `json:"updatedCount"`
}

// Service provides settings business logic.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     *postgres.AuditService
	recalc    Recalculator
}

// NewService creates a settings service. The recalculator is attached later
// via SetRecalculator because the product service is constructed after this
// one.
func NewService(repo Repository, txManager tx.Manager, audit *postgres.AuditService) *Service {
	return &Service{repo: repo, txManager: txManager, audit: audit}
}

// SetRecalculator wires the product sweep.
func (s *Service) SetRecalculator(r Recalculator) {
	s.recalc = r
}

// Get returns the stored document, or a default one when nothing was saved
// yet.
func (s *Service) Get(ctx context.Context) (*Document, error) {
	doc, err := s.repo.Get(ctx, GlobalKey)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		defaults := pricing.NormalizeSettings(pricing.SettingsInput{})
		doc = &Document{
			Key:           GlobalKey,
			MetalRates:    defaults.MetalRates,
			CurrencyRates: defaults.CurrencyRates,
		}
	}
	return doc, nil
}

// Snapshot loads the current normalized pricing snapshot.
func (s *Service) Snapshot(ctx context.Context) (pricing.Settings, error) {
	doc, err := s.repo.Get(ctx, GlobalKey)
	if err != nil {
		return pricing.Settings{}, err
	}
	return doc.Snapshot(), nil
}

// Update normalizes and stores new rates, then optionally re-prices the
// catalog. Returns the stored document and how many products were updated.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*UpdateResult, error) {
	normalized := pricing.NormalizeSettings(pricing.SettingsInput{
		MetalRates:    input.MetalRates,
		CurrencyRates: resolveCurrencyRates(input.CurrencyRates),
	})

	doc := &Document{
		Key:           GlobalKey,
		MetalRates:    normalized.MetalRates,
		CurrencyRates: normalized.CurrencyRates,
		UpdatedAt:     time.Now().UTC(),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Upsert(ctx, doc); err != nil {
			return err
		}
		if s.audit == nil {
			return nil
		}
		return s.audit.LogChange(ctx, "settings", GlobalKey, postgres.AuditActionUpdate, map[string]any{
			"metalRates":    doc.MetalRates,
			"currencyRates": doc.CurrencyRates,
		})
	})
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Document: doc}

	recalculate := input.Recalculate == nil || *input.Recalculate
	if recalculate && s.recalc != nil {
		count, err := s.recalc.RecalculateAll(ctx, normalized)
		if err != nil {
			return nil, err
		}
		result.UpdatedCount = count
		logger.Info(ctx, "settings updated with recalculation",
			"rates", len(doc.MetalRates), "products_updated", count)
	} else {
		logger.Info(ctx, "settings updated", "rates", len(doc.MetalRates))
	}

	return result, nil
}

// resolveCurrencyRates extracts the USD→BRL rate from the loose map. Keys are
// matched after lowercasing and stripping separators, so "usdToBrl",
// "usd_to_brl", "USD" and "usd" all work.
func resolveCurrencyRates(raw map[string]pricing.Number) *pricing.CurrencyRates {
	if len(raw) == 0 {
		return nil
	}
	for key, value := range raw {
		switch canonicalRateKey(key) {
		case "usdtobrl", "usd":
			rates := pricing.CurrencyRates{USDToBRL: value}
			return &rates
		}
	}
	return nil
}

func canonicalRateKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
