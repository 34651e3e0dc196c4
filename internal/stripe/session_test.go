package stripe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/user"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testCart() *cart.Cart {
	return &cart.Cart{
		ID:          1,
		UserID:      42,
		Address:     "12 Nguyen Trai, Ha Noi",
		ShippingFee: d("30000"),
		ServiceFee:  d("5400"),
		Items: []cart.Item{
			{ProductID: 101, ProductName: "Sữa rửa mặt Innisfree", UnitPrice: d("120000"), Quantity: 2},
			{ProductID: 102, ProductName: "Son môi Maybelline", UnitPrice: d("150000"), Quantity: 1},
		},
	}
}

var ident = user.Identity{UserID: 42, Email: "alice@gmail.com"}

func TestBuildSessionParams(t *testing.T) {
	params, err := BuildSessionParams(testCart(), ident, "https://shop.test/ok", "https://shop.test/cancel")
	require.NoError(t, err)

	require.Len(t, params.LineItems, 4) // 2 products + shipping + service
	// 120000 VND / 24000 = 5 USD = 500 cents.
	assert.Equal(t, int64(500), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(2), *params.LineItems[0].Quantity)
	assert.Equal(t, "Sữa rửa mặt Innisfree", *params.LineItems[0].PriceData.ProductData.Name)
	// 150000 / 24000 * 100 = 625 cents.
	assert.Equal(t, int64(625), *params.LineItems[1].PriceData.UnitAmount)
	assert.Equal(t, "Phí vận chuyển", *params.LineItems[2].PriceData.ProductData.Name)
	assert.Equal(t, int64(125), *params.LineItems[2].PriceData.UnitAmount)
	assert.Equal(t, "Phí dịch vụ", *params.LineItems[3].PriceData.ProductData.Name)
	// 5400 / 24000 * 100 = 22.5 truncated to 22.
	assert.Equal(t, int64(22), *params.LineItems[3].PriceData.UnitAmount)

	assert.Equal(t, "alice@gmail.com", *params.CustomerEmail)
	assert.Equal(t, "https://shop.test/ok", *params.SuccessURL)
	assert.Equal(t, "390000", params.Metadata["subtotal"])
	assert.Equal(t, "30000", params.Metadata["shipping_fee"])
	assert.Equal(t, "0", params.Metadata["discount"])
}

func TestBuildSessionParamsDiscountLine(t *testing.T) {
	c := testCart()
	discountID := int64(7)
	c.DiscountID = &discountID
	c.DiscountPercent = d("10")

	params, err := BuildSessionParams(c, ident, "https://shop.test/ok", "https://shop.test/cancel")
	require.NoError(t, err)

	require.Len(t, params.LineItems, 5)
	last := params.LineItems[4]
	assert.Equal(t, "Giảm giá", *last.PriceData.ProductData.Name)
	// Discount 39000 VND = 162.5 cents truncated to 162.
	assert.Equal(t, int64(162), *last.PriceData.UnitAmount)
	assert.Equal(t, "39000", params.Metadata["discount"])
	assert.Equal(t, "10", params.Metadata["discount_percent"])
}

func TestBuildSessionParamsSkipsZeroFees(t *testing.T) {
	c := testCart()
	c.ShippingFee = decimal.Zero
	c.ServiceFee = decimal.Zero

	params, err := BuildSessionParams(c, ident, "https://shop.test/ok", "https://shop.test/cancel")
	require.NoError(t, err)
	assert.Len(t, params.LineItems, 2)
}

func TestBuildSessionParamsCollectsAllViolations(t *testing.T) {
	c := testCart()
	c.Items[0].UnitPrice = decimal.Zero
	c.Items[1].Quantity = 0

	_, err := BuildSessionParams(c, user.Identity{UserID: 42}, "https://shop.test/ok", "https://shop.test/cancel")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 3)
	assert.Contains(t, verr.Error(), " | ")
	assert.Contains(t, verr.Error(), "does not have a valid email")
}

func TestUSDCents(t *testing.T) {
	tests := []struct {
		vnd  string
		want int64
	}{
		{"24000", 100},
		{"120000", 500},
		{"5400", 22},  // 22.5 truncated
		{"100", 0},    // 0.41 truncated
		{"36000", 150},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, usdCents(d(tt.vnd)), "vnd %s", tt.vnd)
	}
}
