package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestShippingFee(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  decimal.Decimal
		innerCity bool
		want      decimal.Decimal
	}{
		{"above threshold is free", d("500001"), false, d("0")},
		{"above threshold inner city is free", d("1200000"), true, d("0")},
		{"exactly at threshold still charged", d("500000"), true, d("30000")},
		{"inner city flat rate", d("270000"), true, d("30000")},
		{"outer region flat rate", d("270000"), false, d("50000")},
		{"zero subtotal outer", d("0"), false, d("50000")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShippingFee(tt.subtotal, tt.innerCity)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestServiceFee(t *testing.T) {
	tests := []struct {
		name     string
		subtotal decimal.Decimal
		percent  decimal.Decimal
		want     decimal.Decimal
	}{
		{"two percent of 270000", d("270000"), d("2.0"), d("5400")},
		{"fractional result truncates", d("123456"), d("2.5"), d("3086")}, // 3086.4
		{"truncates not rounds", d("99999"), d("2.0"), d("1999")},         // 1999.98
		{"zero subtotal", d("0"), d("2.0"), d("0")},
		{"zero percent", d("270000"), d("0"), d("0")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ServiceFee(tt.subtotal, tt.percent)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestOrderTotal(t *testing.T) {
	total := OrderTotal(d("270000"), d("30000"), d("5400"), d("27000"))
	assert.True(t, d("278400").Equal(total))

	// Discount larger than everything else clamps at zero.
	total = OrderTotal(d("100000"), d("30000"), d("2000"), d("999999"))
	assert.True(t, decimal.Zero.Equal(total))
}

type fakeConfigStore struct {
	percent decimal.Decimal
	err     error
}

func (f *fakeConfigStore) ServiceFeePercent(context.Context) (decimal.Decimal, error) {
	return f.percent, f.err
}

func (f *fakeConfigStore) SetServiceFeePercent(_ context.Context, p decimal.Decimal) error {
	f.percent = p
	return nil
}

func TestCalculatorQuote(t *testing.T) {
	cfg := &fakeConfigStore{percent: d("2.0")}
	calc := NewCalculator(cfg)

	q, err := calc.Quote(context.Background(), d("270000"), "12 Nguyen Trai, Hà Nội")
	require.NoError(t, err)
	assert.True(t, d("30000").Equal(q.ShippingFee))
	assert.True(t, d("5400").Equal(q.ServiceFee))

	// Changing the configured percent changes future quotes.
	require.NoError(t, cfg.SetServiceFeePercent(context.Background(), d("5.0")))
	q, err = calc.Quote(context.Background(), d("270000"), "Can Tho")
	require.NoError(t, err)
	assert.True(t, d("50000").Equal(q.ShippingFee))
	assert.True(t, d("13500").Equal(q.ServiceFee))
}
