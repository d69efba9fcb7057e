package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"brazilian thousands and decimal comma", "1.234,56", "1234.56"},
		{"plain dot decimal", "1234.56", "1234.56"},
		{"decimal comma only", "1234,56", "1234.56"},
		{"multiple thousands separators", "1.234.567,89", "1234567.89"},
		{"inner whitespace", " 1 234,5 ", "1234.5"},
		{"integer", "42", "42"},
		{"negative", "-10,5", "-10.5"},
		{"empty", "", "0"},
		{"blank", "   ", "0"},
		{"garbage", "abc", "0"},
		{"partial garbage", "12abc", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"ParseNumber(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestNormalizeMetalValue(t *testing.T) {
	// 6-decimal rounding, half away from zero.
	assert.Equal(t, "1.000001", NormalizeMetalValue(decimal.RequireFromString("1.0000005")).String())
	assert.Equal(t, "0.123457", NormalizeMetalValue(decimal.RequireFromString("0.1234565")).String())
	assert.Equal(t, "2", NormalizeMetalValue(decimal.RequireFromString("2.0000001")).String())
}

func TestRoundMoney(t *testing.T) {
	// The half-cent boundary must round up, unlike naive binary floats.
	assert.Equal(t, "10.01", RoundMoney(decimal.RequireFromString("10.005")).StringFixed(2))
	assert.Equal(t, "10.00", RoundMoney(decimal.RequireFromString("10.004")).StringFixed(2))
	assert.Equal(t, "104.00", RoundMoney(decimal.RequireFromString("104")).StringFixed(2))
}

func TestNormalizeMetalKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Paládio", "paladio"},
		{"paladio", "paladio"},
		{" PALADIO ", "paladio"},
		{"Ródio / Rhodium", "rodio-rhodium"},
		{"Platina", "platina"},
		{"  ", ""},
		{"--aço--", "aco"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMetalKey(tt.raw), "key for %q", tt.raw)
	}
}

func TestNumberJSON(t *testing.T) {
	var payload struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}

	raw := []byte(`{"a": 12.5, "b": "1.234,56", "c": null, "d": "not a number"}`)
	require.NoError(t, json.Unmarshal(raw, &payload))

	assert.Equal(t, "12.5", payload.A.String())
	assert.Equal(t, "1234.56", payload.B.String())
	assert.True(t, payload.C.IsZero())
	assert.True(t, payload.D.IsZero())

	out, err := json.Marshal(NumberFromFloat(17.5))
	require.NoError(t, err)
	assert.Equal(t, "17.5", string(out), "numbers marshal unquoted")
}
