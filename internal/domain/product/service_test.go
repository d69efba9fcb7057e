package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalisa/internal/core/apperror"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/settings"
	"catalisa/internal/pricing"
)

type fakeRepo struct {
	products map[id.ID]*Product
	order    []id.ID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[id.ID]*Product)}
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]Product, error) {
	out := make([]Product, 0, len(r.order))
	for _, productID := range r.order {
		p := r.products[productID]
		if !filter.IncludeInactive && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeRepo) Get(ctx context.Context, productID id.ID) (*Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	copied := *p
	return &copied, nil
}

func (r *fakeRepo) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

func (r *fakeRepo) Create(ctx context.Context, p *Product) error {
	copied := *p
	r.products[p.ID] = &copied
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, p *Product) error {
	copied := *p
	r.products[p.ID] = &copied
	return nil
}

func (r *fakeRepo) SetActive(ctx context.Context, productID id.ID, active bool) error {
	p, ok := r.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.IsActive = active
	return nil
}

func (r *fakeRepo) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, productID := range r.order {
		p := r.products[productID]
		if p.IsActive && p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, p := range r.products {
		if p.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeSettingsRepo struct {
	doc *settings.Document
}

func (r *fakeSettingsRepo) Get(ctx context.Context, key string) (*settings.Document, error) {
	return r.doc, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, doc *settings.Document) error {
	r.doc = doc
	return nil
}

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func numPtr(f float64) *pricing.Number {
	n := pricing.NewNumber(decimal.NewFromFloat(f))
	return &n
}

func strPtr(s string) *string { return &s }

// testDocument stores Platina at 350 BRL/kg and Paládio at 200 USD/kg.
func testDocument() *settings.Document {
	normalized := pricing.NormalizeSettings(pricing.SettingsInput{
		MetalRates: []pricing.RateInput{
			{MetalName: "Platina", Value: numPtr(350)},
			{MetalName: "Paládio", Value: numPtr(200), Currency: "USD"},
		},
	})
	return &settings.Document{
		Key:           settings.GlobalKey,
		MetalRates:    normalized.MetalRates,
		CurrencyRates: normalized.CurrencyRates,
	}
}

func newTestService(doc *settings.Document) (*Service, *fakeRepo, *settings.Service) {
	repo := newFakeRepo()
	settingsSvc := settings.NewService(&fakeSettingsRepo{doc: doc}, fakeTx{}, nil)
	svc := NewService(repo, settingsSvc, fakeTx{}, nil)
	return svc, repo, settingsSvc
}

func TestCreateMetalDerivedPrice(t *testing.T) {
	svc, _, _ := newTestService(testDocument())
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{
		Name: strPtr("Catalisador Gol 1.0"),
		SKU:  strPtr("cat-gol-10"),
		MetalComposition: []pricing.LineInput{
			{MetalName: "Platina", QuantityKg: numPtr(0.05)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "CAT-GOL-10", p.SKU)
	assert.Equal(t, "17.50", p.Price.StringFixed(2))
	require.Len(t, p.MetalComposition, 1)
	assert.Equal(t, pricing.PriceSourceGlobal, p.MetalComposition[0].PriceSource)
	require.NotNil(t, p.MetalSummary)
	assert.True(t, p.HasMetals())
}

func TestCreateManualPrice(t *testing.T) {
	svc, _, _ := newTestService(testDocument())
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{
		Name:  strPtr("Suporte"),
		SKU:   strPtr("SUP-01"),
		Price: numPtr(99.999),
	})
	require.NoError(t, err)

	// No metal quantities: the manual price stands, money-rounded.
	assert.Equal(t, "100.00", p.Price.StringFixed(2))
	assert.False(t, p.HasMetals())
}

func TestCreateDuplicateSKU(t *testing.T) {
	svc, _, _ := newTestService(testDocument())
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Name: strPtr("A"), SKU: strPtr("CAT-01")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Input{Name: strPtr("B"), SKU: strPtr("cat-01")})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestUpdateReusesStoredComposition(t *testing.T) {
	doc := testDocument()
	svc, _, settingsSvc := newTestService(doc)
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{
		Name: strPtr("Catalisador"),
		SKU:  strPtr("CAT-02"),
		MetalComposition: []pricing.LineInput{
			{MetalName: "Platina", QuantityKg: numPtr(0.05)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "17.50", p.Price.StringFixed(2))

	// Double the Platina rate, then update only the name. The stored
	// composition is re-resolved against the new snapshot.
	_, err = settingsSvc.Update(ctx, settings.UpdateInput{
		MetalRates: []pricing.RateInput{
			{MetalName: "Platina", Value: numPtr(700)},
		},
		Recalculate: boolPtr(false),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, Input{Name: strPtr("Catalisador v2")})
	require.NoError(t, err)
	assert.Equal(t, "Catalisador v2", updated.Name)
	assert.Equal(t, "35.00", updated.Price.StringFixed(2))
}

func TestRecalculateAll(t *testing.T) {
	doc := testDocument()
	svc, repo, _ := newTestService(doc)
	ctx := context.Background()

	metal, err := svc.Create(ctx, Input{
		Name: strPtr("Metal"),
		SKU:  strPtr("MET-01"),
		MetalComposition: []pricing.LineInput{
			{MetalName: "Platina", QuantityKg: numPtr(0.1)},
		},
	})
	require.NoError(t, err)

	manual, err := svc.Create(ctx, Input{
		Name:  strPtr("Manual"),
		SKU:   strPtr("MAN-01"),
		Price: numPtr(50),
	})
	require.NoError(t, err)

	snapshot := pricing.NormalizeSettings(pricing.SettingsInput{
		MetalRates: []pricing.RateInput{
			{MetalName: "Platina", Value: numPtr(400)},
		},
	})

	updated, err := svc.RecalculateAll(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	repriced, err := repo.Get(ctx, metal.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", repriced.Price.StringFixed(2))

	untouched, err := repo.Get(ctx, manual.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", untouched.Price.StringFixed(2))
}

func TestSettingsUpdateTriggersRecalculation(t *testing.T) {
	doc := testDocument()
	svc, repo, settingsSvc := newTestService(doc)
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{
		Name: strPtr("Catalisador"),
		SKU:  strPtr("CAT-03"),
		MetalComposition: []pricing.LineInput{
			{MetalName: "Platina", QuantityKg: numPtr(0.05)},
		},
	})
	require.NoError(t, err)

	result, err := settingsSvc.Update(ctx, settings.UpdateInput{
		MetalRates: []pricing.RateInput{
			{MetalName: "Platina", Value: numPtr(1000)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)

	repriced, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", repriced.Price.StringFixed(2))
}

func TestSoftDelete(t *testing.T) {
	svc, repo, _ := newTestService(testDocument())
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{Name: strPtr("A"), SKU: strPtr("DEL-01")})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, p.ID))

	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	active, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, Filter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApplyPriceOverrides(t *testing.T) {
	svc, repo, _ := newTestService(testDocument())
	ctx := context.Background()

	p, err := svc.Create(ctx, Input{Name: strPtr("A"), SKU: strPtr("IMP-01"), Price: numPtr(10)})
	require.NoError(t, err)

	result, err := svc.ApplyPriceOverrides(ctx, []PriceOverride{
		{SKU: "imp-01", Price: decimal.NewFromFloat(123.45)},
		{SKU: "MISSING", Price: decimal.NewFromInt(5)},
		{SKU: "IMP-01 ", Price: decimal.Zero},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, []string{"MISSING"}, result.NotFound)
	assert.Equal(t, []string{"IMP-01"}, result.Skipped)

	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "123.45", stored.Price.StringFixed(2))
}

func boolPtr(b bool) *bool { return &b }
