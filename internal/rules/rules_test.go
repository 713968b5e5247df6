package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
		want  string
	}{
		{name: "plain integer", value: "10", valid: true, want: "10"},
		{name: "decimal", value: "5.5", valid: true, want: "5.5"},
		{name: "thousands separator", value: "1,234", valid: true, want: "1234"},
		{name: "internal space", value: "1 234", valid: true, want: "1234"},
		{name: "negative", value: "-3", valid: true, want: "-3"},
		{name: "trailing zeros dropped", value: "10.50", valid: true, want: "10.5"},
		{name: "not a number", value: "abc", valid: false},
		{name: "empty", value: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Numeric{}.Validate(tt.value)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, res.Value)
			}
			// Numeric fails silently; the chain supplies the message.
			assert.Empty(t, res.Message)
		})
	}
}

func TestText(t *testing.T) {
	assert.True(t, Text{}.Validate("SKU-100").Valid)
	assert.False(t, Text{}.Validate("   ").Valid)
	assert.False(t, Text{}.Validate("bad\x00value").Valid)

	// Text passes the value through untouched.
	res := Text{}.Validate("  keep me  ")
	assert.Equal(t, "  keep me  ", res.Value)
}

func TestSymbols(t *testing.T) {
	assert.True(t, Symbols{}.Validate("A-1.2/3, ok").Valid)

	res := Symbols{}.Validate("price: 10$")
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Message)
}

func TestCustomSymbolsStripsExtras(t *testing.T) {
	rule := NewCustomSymbols('`', 's')

	res := rule.Validate("10`s")
	assert.True(t, res.Valid)
	assert.Equal(t, "10", res.Value)

	res = rule.Validate("10$")
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Message)
}

func TestPositiveNumber(t *testing.T) {
	assert.True(t, PositiveNumber{}.Validate("0").Valid)
	assert.True(t, PositiveNumber{}.Validate("12.5").Valid)

	res := PositiveNumber{}.Validate("-1")
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Message)

	// Unparseable values fail without a message; Numeric owns those.
	res = PositiveNumber{}.Validate("abc")
	assert.False(t, res.Valid)
	assert.Empty(t, res.Message)
}

func TestChainKeepsFirstMessage(t *testing.T) {
	chain := Chain{Symbols{}, PositiveNumber{}}

	res := chain.Run("-$5")
	assert.True(t, res.Invalid)
	assert.Equal(t, "fill error: value contains invalid characters", res.Message)
}

func TestChainLaterRulesStillNormalize(t *testing.T) {
	// Numeric fails on the raw value, but CustomSymbols still strips its
	// extras afterwards for the cumulative normalized value.
	chain := Chain{Numeric{}, NewCustomSymbols('`', 's')}

	res := chain.Run("10`s")
	assert.True(t, res.Invalid)
	assert.Equal(t, "10", res.Normalized)
}

func TestChainCountOrderAcceptsKeyedQuantity(t *testing.T) {
	// With the symbol strip ahead of the numeric check, "10`s" is a valid
	// quantity of 10.
	chain := Chain{NewCustomSymbols('`', 's'), Numeric{}}

	res := chain.Run("10`s")
	assert.False(t, res.Invalid)
	assert.Equal(t, "10", res.Normalized)
}

func TestChainEmptyResultIsInvalid(t *testing.T) {
	chain := Chain{NewCustomSymbols('`', 's')}

	res := chain.Run("`s")
	assert.True(t, res.Invalid)
	assert.Empty(t, res.Message)
}

func TestParseNumber(t *testing.T) {
	n, err := ParseNumber("1,234.5")
	assert.NoError(t, err)
	assert.Equal(t, 1234.5, n)

	_, err = ParseNumber("abc")
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "10", FormatNumber(10))
	assert.Equal(t, "10.5", FormatNumber(10.5))
}
