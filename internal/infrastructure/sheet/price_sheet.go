// Package sheet reads and writes the admin price sheet (xlsx): one row per
// product with SKU, name, category, price and the reference metal columns.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"catalisa/internal/core/apperror"
	"catalisa/internal/domain/product"
	"catalisa/internal/pricing"
)

// SheetName is the worksheet both export and import use.
const SheetName = "Produtos"

var exportHeaders = []string{
	"SKU", "Nome do Produto", "Categoria", "Preço", "Platina", "Paladio", "Rodio",
}

// Export builds the price sheet workbook for the current catalog.
func Export(products []product.Product) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, p := range products {
		row := i + 2
		values := []any{
			p.SKU,
			p.Name,
			p.Category,
			p.Price.InexactFloat64(),
			internalMetal(p.InternalMetals, func(m *product.InternalMetals) pricing.Number { return m.Platina }),
			internalMetal(p.InternalMetals, func(m *product.InternalMetals) pricing.Number { return m.Paladio }),
			internalMetal(p.InternalMetals, func(m *product.InternalMetals) pricing.Number { return m.Rodio }),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

func internalMetal(m *product.InternalMetals, pick func(*product.InternalMetals) pricing.Number) float64 {
	if m == nil {
		return 0
	}
	return pick(m).InexactFloat64()
}

// PriceRow is one parsed import row.
type PriceRow struct {
	RowNumber int
	SKU       string
	RawPrice  string
	Price     decimal.Decimal
}

// ParsePriceSheet reads an uploaded workbook into price rows. The price cell
// is parsed leniently: currency symbols, regular and non-breaking spaces are
// stripped before the locale-tolerant number parse. Rows without a SKU are
// dropped here; pricing decisions stay with the caller.
func ParsePriceSheet(r io.Reader) ([]PriceRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewValidation("file is not a valid xlsx workbook").WithCause(err)
	}
	defer f.Close()

	sheetName := SheetName
	rows, err := f.GetRows(sheetName)
	if err != nil {
		// Fall back to the first sheet for workbooks saved under another name.
		sheetName = f.GetSheetName(0)
		rows, err = f.GetRows(sheetName)
		if err != nil {
			return nil, apperror.NewValidation("workbook has no readable sheet").WithCause(err)
		}
	}

	var parsed []PriceRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		sku := ""
		if len(row) > 0 {
			sku = product.NormalizeSKU(row[0])
		}
		if sku == "" {
			continue
		}

		raw := ""
		if len(row) > 3 {
			raw = row[3]
		}

		parsed = append(parsed, PriceRow{
			RowNumber: i + 1,
			SKU:       sku,
			RawPrice:  raw,
			Price:     ParsePrice(raw),
		})
	}

	return parsed, nil
}

// ParsePrice converts a price cell to a money value. Unparseable input
// becomes zero, matching the platform's numeric coercion rules.
func ParsePrice(raw string) decimal.Decimal {
	s := strings.NewReplacer("R$", "", "r$", "", " ", " ").Replace(raw)
	return pricing.RoundMoney(pricing.ParseNumber(s))
}
