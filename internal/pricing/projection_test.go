package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "catalisa/internal/core/context"
)

func pctPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestComputePriceForUserNonPartner(t *testing.T) {
	view := ComputePriceForUser(decimal.NewFromInt(100), &appctx.UserContext{Role: appctx.RoleAdmin})
	assert.Equal(t, "100.00", view.Price.StringFixed(2))
	assert.Nil(t, view.LevelPercentage)
	assert.Nil(t, view.LevelName)
}

func TestComputePriceForUserAnonymous(t *testing.T) {
	view := ComputePriceForUser(decimal.NewFromInt(100), nil)
	assert.Equal(t, "100.00", view.Price.StringFixed(2))
	assert.Nil(t, view.LevelPercentage)
}

func TestComputePriceForUserLevelMarkup(t *testing.T) {
	user := &appctx.UserContext{
		Role: appctx.RolePartner,
		PartnerLevel: &appctx.PartnerLevelRef{
			Name:       "Nível 2",
			Percentage: decimal.NewFromInt(30),
		},
	}

	view := ComputePriceForUser(decimal.NewFromInt(100), user)
	assert.Equal(t, "130.00", view.Price.StringFixed(2))
	assert.Equal(t, "100.00", view.BasePrice.StringFixed(2))
	require.NotNil(t, view.LevelPercentage)
	assert.Equal(t, "30", view.LevelPercentage.String())
	require.NotNil(t, view.LevelName)
	assert.Equal(t, "Nível 2", *view.LevelName)
}

func TestComputePriceForUserCustomPercentage(t *testing.T) {
	user := &appctx.UserContext{Role: appctx.RolePartner, PartnerPercentage: pctPtr(35)}
	view := ComputePriceForUser(decimal.NewFromInt(200), user)
	assert.Equal(t, "270.00", view.Price.StringFixed(2))
	assert.Nil(t, view.LevelName)
}

func TestComputePriceForUserLevelBeatsCustom(t *testing.T) {
	user := &appctx.UserContext{
		Role:              appctx.RolePartner,
		PartnerPercentage: pctPtr(35),
		PartnerLevel:      &appctx.PartnerLevelRef{Name: "Nível 1", Percentage: decimal.NewFromInt(20)},
	}
	view := ComputePriceForUser(decimal.NewFromInt(100), user)
	assert.Equal(t, "120.00", view.Price.StringFixed(2))
}

func TestComputePriceForUserClampsPercentage(t *testing.T) {
	over := &appctx.UserContext{Role: appctx.RolePartner, PartnerPercentage: pctPtr(600)}
	view := ComputePriceForUser(decimal.NewFromInt(100), over)
	assert.Equal(t, "600.00", view.Price.StringFixed(2))
	assert.Equal(t, "500", view.LevelPercentage.String())

	under := &appctx.UserContext{Role: appctx.RolePartner, PartnerPercentage: pctPtr(-10)}
	view = ComputePriceForUser(decimal.NewFromInt(100), under)
	assert.Equal(t, "100.00", view.Price.StringFixed(2))
	assert.Equal(t, "0", view.LevelPercentage.String())
}

func TestComputePriceForUserPartnerWithoutMarkup(t *testing.T) {
	view := ComputePriceForUser(decimal.NewFromFloat(99.99), &appctx.UserContext{Role: appctx.RolePartner})
	assert.Equal(t, "99.99", view.Price.StringFixed(2))
	require.NotNil(t, view.LevelPercentage)
	assert.True(t, view.LevelPercentage.IsZero())
}
