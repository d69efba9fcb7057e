package dto

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/product"
	"catalisa/internal/pricing"
)

func catalogProduct() *product.Product {
	return &product.Product{
		ID:       id.New(),
		Name:     "Catalisador A",
		SKU:      "CAT-01",
		Category: "catalisadores",
		Price:    decimal.NewFromInt(100),
		InternalMetals: &product.InternalMetals{
			Platina: pricing.NewNumber(decimal.RequireFromString("0.05")),
		},
		IsActive: true,
	}
}

func partnerViewer(pct int64) *appctx.UserContext {
	name := "Nível 2"
	return &appctx.UserContext{
		UserID: id.New().String(),
		Role:   appctx.RolePartner,
		PartnerLevel: &appctx.PartnerLevelRef{
			ID:         id.New().String(),
			Name:       name,
			Percentage: decimal.NewFromInt(pct),
		},
	}
}

func TestProductResponsePartnerProjection(t *testing.T) {
	resp := NewProductResponse(catalogProduct(), partnerViewer(30))

	assert.Equal(t, "130.00", resp.Price.StringFixed(2))
	require.NotNil(t, resp.BasePrice)
	assert.Equal(t, "100.00", resp.BasePrice.StringFixed(2))
	require.NotNil(t, resp.LevelPercentage)
	assert.Equal(t, "30", resp.LevelPercentage.String())
	require.NotNil(t, resp.LevelName)
	assert.Equal(t, "Nível 2", *resp.LevelName)
}

func TestProductResponseAnonymousViewer(t *testing.T) {
	resp := NewProductResponse(catalogProduct(), nil)

	assert.Equal(t, "100.00", resp.Price.StringFixed(2))
	assert.Nil(t, resp.BasePrice)
	assert.Nil(t, resp.LevelPercentage)
	assert.Nil(t, resp.LevelName)
}

func TestProductResponseHidesInternalMetals(t *testing.T) {
	tests := []struct {
		name    string
		viewer  *appctx.UserContext
		visible bool
	}{
		{"anonymous", nil, false},
		{"partner", partnerViewer(30), false},
		{"admin", &appctx.UserContext{UserID: id.New().String(), Role: appctx.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := catalogProduct()
			resp := NewProductResponse(p, tt.viewer)

			body, err := json.Marshal(resp)
			require.NoError(t, err)

			if tt.visible {
				require.NotNil(t, resp.InternalMetals)
				assert.Contains(t, string(body), "internalMetals")
			} else {
				assert.Nil(t, resp.InternalMetals)
				assert.NotContains(t, string(body), "internalMetals")
			}

			// The catalog entity itself is never mutated.
			require.NotNil(t, p.InternalMetals)
		})
	}
}
