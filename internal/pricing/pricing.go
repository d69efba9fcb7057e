package pricing

// Result is the outcome of pricing one product composition: the storage-ready
// lines, their aggregate summary, and the metal-based price.
type Result struct {
	Composition []ResolvedLine `json:"composition"`
	Summary     Summary        `json:"summary"`
	Price       Number         `json:"price"`
}

// ComputeProductPricing normalizes a composition against a settings snapshot
// and derives the metal-based price. Determinism and idempotence: for a fixed
// (composition, settings) pair the result is identical across calls, and
// feeding the Composition back in (via ResolvedInputs) reproduces the same
// price and summary exactly.
func ComputeProductPricing(composition []LineInput, settings Settings) Result {
	lines, summary := NormalizeComposition(composition, settings.Lookup(), settings.CurrencyRates)

	return Result{
		Composition: lines,
		Summary:     summary,
		Price:       NewNumber(RoundMoney(summary.TotalMetalValueBRL.Decimal)),
	}
}
