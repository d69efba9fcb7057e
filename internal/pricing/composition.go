package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceSource tells where a line's effective unit price came from.
type PriceSource string

const (
	PriceSourceGlobal PriceSource = "global"
	PriceSourceCustom PriceSource = "custom"
)

// LineInput is one raw metal-composition line as submitted by a client or
// read back from storage. Alias field names from older payload shapes are
// accepted; the first field present wins. UseGlobalPrice defaults to true;
// only an explicit false opts the line out of global pricing.
type LineInput struct {
	MetalName string `json:"metalName"`
	Name      string `json:"name"`
	Key       string `json:"key"`

	QuantityKg *Number `json:"quantityKg"`
	Quantity   *Number `json:"quantity"`

	UnitPriceValue *Number `json:"unitPriceValue"`
	UnitPrice      *Number `json:"unitPrice"`

	UnitPriceCurrency string `json:"unitPriceCurrency"`
	Currency          string `json:"currency"`

	UseGlobalPrice *bool `json:"useGlobalPrice"`
}

func (l LineInput) displayName() string {
	for _, candidate := range []string{l.MetalName, l.Name, l.Key} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}

func (l LineInput) quantity() decimal.Decimal {
	for _, candidate := range []*Number{l.QuantityKg, l.Quantity} {
		if candidate != nil {
			return candidate.Decimal
		}
	}
	return decimal.Zero
}

func (l LineInput) unitPrice() decimal.Decimal {
	for _, candidate := range []*Number{l.UnitPriceValue, l.UnitPrice} {
		if candidate != nil {
			return candidate.Decimal
		}
	}
	return decimal.Zero
}

func (l LineInput) unitCurrency() Currency {
	if strings.TrimSpace(l.UnitPriceCurrency) != "" {
		return NormalizeCurrency(l.UnitPriceCurrency)
	}
	return NormalizeCurrency(l.Currency)
}

func (l LineInput) wantsGlobal() bool {
	return l.UseGlobalPrice == nil || *l.UseGlobalPrice
}

// ResolvedLine is a fully valued composition line ready for storage.
type ResolvedLine struct {
	MetalName         string      `json:"metalName"`
	QuantityKg        Number      `json:"quantityKg"`
	UnitPriceValue    Number      `json:"unitPriceValue"`
	UnitPriceCurrency Currency    `json:"unitPriceCurrency"`
	UseGlobalPrice    bool        `json:"useGlobalPrice"`
	PriceSource       PriceSource `json:"priceSource"`
	UnitPriceBRL      Number      `json:"unitPriceBRL"`
	TotalValueBRL     Number      `json:"totalValueBRL"`

	// normalizedKey is resolver bookkeeping; it never reaches storage or
	// API responses.
	normalizedKey string
}

// AsInput re-extracts the raw fields of a resolved line, so stored
// compositions can be fed through the normalizer again (settings sweeps,
// product updates without a new composition payload).
func (r ResolvedLine) AsInput() LineInput {
	useGlobal := r.UseGlobalPrice
	qty := Number{r.QuantityKg.Decimal}
	price := Number{r.UnitPriceValue.Decimal}
	return LineInput{
		MetalName:         r.MetalName,
		QuantityKg:        &qty,
		UnitPriceValue:    &price,
		UnitPriceCurrency: string(r.UnitPriceCurrency),
		UseGlobalPrice:    &useGlobal,
	}
}

// Summary aggregates a composition's weight and value.
type Summary struct {
	TotalWeightKg      Number `json:"totalWeightKg"`
	TotalMetalValueBRL Number `json:"totalMetalValueBRL"`
}

// NormalizeComposition resolves every line of a raw composition against the
// global rate lookup and values it in BRL. Lines with no usable metal name are
// dropped; order is otherwise preserved. The computation is pure and
// idempotent: resolving the output of a previous run (via AsInput) yields the
// same lines and totals for the same registry state.
//
// Effective price resolution per line:
//  1. a matching global rate is used when the line asks for global pricing or
//     its own price is not positive;
//  2. otherwise the line's custom price stands;
//  3. if the effective price still is not positive and a global rate exists,
//     the global rate is applied anyway. This last step upgrades even lines
//     that explicitly opted out of global pricing with a zero custom price;
//     observed legacy behavior, kept for compatibility.
func NormalizeComposition(lines []LineInput, lookup RateLookup, rates CurrencyRates) ([]ResolvedLine, Summary) {
	resolved := make([]ResolvedLine, 0, len(lines))
	totalWeight := decimal.Zero
	totalValue := decimal.Zero

	for _, line := range lines {
		name := line.displayName()
		if name == "" {
			continue
		}
		key := NormalizeMetalKey(name)

		quantity := NormalizeMetalValue(line.quantity())
		if quantity.IsNegative() {
			quantity = decimal.Zero
		}

		value := NormalizeMetalValue(line.unitPrice())
		currency := line.unitCurrency()
		source := PriceSourceCustom

		global := lookup[key]
		if global != nil && (line.wantsGlobal() || !value.IsPositive()) {
			value = NormalizeMetalValue(global.UnitPriceValue.Decimal)
			currency = global.UnitPriceCurrency
			source = PriceSourceGlobal
		}

		// Safety net: a still-unpriced line takes the global rate when one
		// exists, regardless of the opt-out flag.
		if !value.IsPositive() && global != nil {
			value = NormalizeMetalValue(global.UnitPriceValue.Decimal)
			currency = global.UnitPriceCurrency
			source = PriceSourceGlobal
		}

		unitPriceBRL := ConvertToBRL(value, currency, rates)
		lineTotal := RoundMoney(unitPriceBRL.Mul(quantity))

		totalWeight = totalWeight.Add(quantity)
		totalValue = totalValue.Add(lineTotal)

		resolved = append(resolved, ResolvedLine{
			MetalName:         name,
			QuantityKg:        NewNumber(quantity),
			UnitPriceValue:    NewNumber(value),
			UnitPriceCurrency: currency,
			UseGlobalPrice:    source == PriceSourceGlobal,
			PriceSource:       source,
			UnitPriceBRL:      NewNumber(unitPriceBRL),
			TotalValueBRL:     NewNumber(lineTotal),
			normalizedKey:     key,
		})
	}

	summary := Summary{
		TotalWeightKg:      NewNumber(NormalizeMetalValue(totalWeight)),
		TotalMetalValueBRL: NewNumber(RoundMoney(totalValue)),
	}
	return resolved, summary
}

// HasAnyMetalQuantity reports whether any line carries a positive quantity.
// Products without metal quantities keep their manually-set price.
func HasAnyMetalQuantity(lines []LineInput) bool {
	for _, line := range lines {
		if NormalizeMetalValue(line.quantity()).IsPositive() {
			return true
		}
	}
	return false
}

// ResolvedInputs converts stored lines back to raw inputs.
func ResolvedInputs(lines []ResolvedLine) []LineInput {
	inputs := make([]LineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, line.AsInput())
	}
	return inputs
}

// BuildTechnicalSheet re-normalizes stored composition lines for API
// responses, deriving the price source for rows persisted before it existed.
func BuildTechnicalSheet(lines []ResolvedLine) []ResolvedLine {
	sheet := make([]ResolvedLine, 0, len(lines))
	for _, line := range lines {
		source := line.PriceSource
		if source == "" {
			if line.UseGlobalPrice {
				source = PriceSourceGlobal
			} else {
				source = PriceSourceCustom
			}
		}
		sheet = append(sheet, ResolvedLine{
			MetalName:         strings.TrimSpace(line.MetalName),
			QuantityKg:        NewNumber(NormalizeMetalValue(line.QuantityKg.Decimal)),
			UnitPriceValue:    NewNumber(NormalizeMetalValue(line.UnitPriceValue.Decimal)),
			UnitPriceCurrency: NormalizeCurrency(string(line.UnitPriceCurrency)),
			UseGlobalPrice:    line.UseGlobalPrice,
			PriceSource:       source,
			UnitPriceBRL:      NewNumber(RoundMoney(line.UnitPriceBRL.Decimal)),
			TotalValueBRL:     NewNumber(RoundMoney(line.TotalValueBRL.Decimal)),
		})
	}
	return sheet
}
