package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(99.99), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.50)
	b := NewMoneyUSDFromFloat(4.25)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "14.75", sum.StringFixed(2))
	})

	t.Run("subtract below zero", func(t *testing.T) {
		diff, err := b.Subtract(a)
		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("currency mismatch", func(t *testing.T) {
		idr := Zero(IDR)
		_, err := a.Add(idr)
		assert.Error(t, err)
		_, err = a.Subtract(idr)
		assert.Error(t, err)
	})

	t.Run("percentage", func(t *testing.T) {
		tax := a.CalculatePercentage(decimal.NewFromInt(10))
		assert.Equal(t, "1.05", tax.StringFixed(2))
	})
}

func TestMoney_RoundCents(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"round half up", "20.005", "20.01"},
		{"round half away from zero negative", "-20.005", "-20.01"},
		{"round down", "2.001", "2.00"},
		{"round up", "1.0051", "1.01"},
		{"exact", "21.01", "21.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.amount, USD)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.RoundCents().StringFixed(2))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency Currency
		want     string
	}{
		{"IDR grouped integer", 1000000, IDR, "Rp 1.000.000"},
		{"IDR drops decimals", 2500.75, IDR, "Rp 2.501"},
		{"USD grouped with cents", 1000, USD, "$1,000.00"},
		{"USD small", 21.01, USD, "$21.01"},
		{"unknown currency falls back to dollar symbol", 5, Currency("EUR"), "$5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.currency))
		})
	}
}

func TestMoney_CurrencyRecognition(t *testing.T) {
	assert.True(t, USD.IsRecognized())
	assert.True(t, IDR.IsRecognized())
	assert.False(t, Currency("EUR").IsRecognized())
	assert.False(t, Currency("").IsRecognized())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyUSDFromFloat(123.45)
	data, err := m.MarshalJSON()
	require.NoError(t, err)

	var back Money
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, m.Equals(back))
}
