package pricing

import (
	"github.com/shopspring/decimal"

	appctx "catalisa/internal/core/context"
)

// Partner markup percentages are clamped to this range at projection time.
// The administrative endpoints reject out-of-range values outright; the
// projection never does.
var (
	minMarkupPercentage = decimal.Zero
	maxMarkupPercentage = decimal.NewFromInt(500)
	hundred             = decimal.NewFromInt(100)
)

// PriceView is the price a given user sees for a base price, with the markup
// inputs exposed for display transparency.
type PriceView struct {
	Price           Number  `json:"price"`
	BasePrice       Number  `json:"basePrice"`
	LevelPercentage *Number `json:"levelPercentage"`
	LevelName       *string `json:"levelName"`
}

// ComputePriceForUser applies the requesting user's partner markup to a base
// price. Non-partner viewers (and anonymous requests) get the base price
// unchanged, money-rounded, with no markup metadata. For partners the
// percentage comes from the assigned level, falling back to the user's custom
// percentage, then zero; it is clamped to [0,500].
//
// Order creation snapshots this price into the order items; later rate or
// level changes never touch placed orders. Catalog reads recompute it on
// every request.
func ComputePriceForUser(basePrice decimal.Decimal, user *appctx.UserContext) PriceView {
	base := RoundMoney(basePrice)

	if !user.IsPartner() {
		return PriceView{
			Price:     NewNumber(base),
			BasePrice: NewNumber(base),
		}
	}

	pct := decimal.Zero
	var levelName *string
	switch {
	case user.PartnerLevel != nil:
		pct = user.PartnerLevel.Percentage
		name := user.PartnerLevel.Name
		levelName = &name
	case user.PartnerPercentage != nil:
		pct = *user.PartnerPercentage
	}

	if pct.LessThan(minMarkupPercentage) {
		pct = minMarkupPercentage
	}
	if pct.GreaterThan(maxMarkupPercentage) {
		pct = maxMarkupPercentage
	}

	final := RoundMoney(base.Add(base.Mul(pct).Div(hundred)))
	pctOut := NewNumber(pct)

	return PriceView{
		Price:           NewNumber(final),
		BasePrice:       NewNumber(base),
		LevelPercentage: &pctOut,
		LevelName:       levelName,
	}
}
