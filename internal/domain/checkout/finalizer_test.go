package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/glowmart/internal/domain/cart"
	"github.com/xenking/glowmart/internal/domain/order"
	"github.com/xenking/glowmart/internal/domain/pricing"
	"github.com/xenking/glowmart/internal/domain/user"
)

type fakeCartRepo struct {
	cart *cart.Cart
}

func (f *fakeCartRepo) GetByUser(context.Context, int64) (*cart.Cart, error) {
	return f.cart, nil
}

func (f *fakeCartRepo) AddItem(context.Context, int64, int64, int) error     { return nil }
func (f *fakeCartRepo) UpdateItemQuantity(context.Context, int64, int64, int) error {
	return nil
}
func (f *fakeCartRepo) RemoveItem(context.Context, int64, int64) error       { return nil }
func (f *fakeCartRepo) SetDiscount(context.Context, int64, *int64) error     { return nil }
func (f *fakeCartRepo) SetAddress(context.Context, int64, string) error      { return nil }
func (f *fakeCartRepo) UpdateFees(context.Context, int64, decimal.Decimal, decimal.Decimal) error {
	return nil
}

type fakeStore struct {
	commits []Commit
	refs    map[string]bool
}

func (f *fakeStore) CommitOrder(_ context.Context, c Commit) error {
	if f.refs == nil {
		f.refs = make(map[string]bool)
	}
	if f.refs[c.Order.PaymentRef] {
		return ErrAlreadyProcessed
	}
	f.refs[c.Order.PaymentRef] = true
	f.commits = append(f.commits, c)
	return nil
}

type fixedConfig struct{ percent decimal.Decimal }

func (f fixedConfig) ServiceFeePercent(context.Context) (decimal.Decimal, error) {
	return f.percent, nil
}

func (fixedConfig) SetServiceFeePercent(context.Context, decimal.Decimal) error { return nil }

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func innerCityCart() *cart.Cart {
	return &cart.Cart{
		ID:      1,
		UserID:  42,
		Address: "12 Nguyen Trai, Ha Noi",
		Items: []cart.Item{
			{ID: 1, ProductID: 101, ProductName: "Sữa rửa mặt Innisfree", UnitPrice: d("120000"), Quantity: 1},
			{ID: 2, ProductID: 102, ProductName: "Son môi Maybelline", UnitPrice: d("150000"), Quantity: 1},
		},
	}
}

var ident = user.Identity{UserID: 42, Email: "alice@gmail.com", Phone: "0901234567"}

func newFinalizer(carts cart.Repository, store Store) *Finalizer {
	calc := pricing.NewCalculator(fixedConfig{percent: d("2.0")})
	return NewFinalizer(carts, calc, store)
}

func TestFinalize(t *testing.T) {
	store := &fakeStore{}
	f := newFinalizer(&fakeCartRepo{cart: innerCityCart()}, store)

	o, err := f.Finalize(context.Background(), ident, "cs_test_1")
	require.NoError(t, err)

	// Subtotal 270000, inner city under threshold: shipping 30000,
	// service 2% = 5400, no discount.
	assert.True(t, d("305400").Equal(o.TotalPrice), "got %s", o.TotalPrice)
	assert.True(t, d("30000").Equal(o.ShippingFee))
	assert.Equal(t, order.StatusPaid, o.Status)
	assert.Equal(t, "cs_test_1", o.PaymentRef)
	assert.Equal(t, "0901234567", o.ReceiverPhone)
	require.Len(t, o.Items, 2)
	assert.True(t, d("120000").Equal(o.Items[0].Price))

	require.Len(t, store.commits, 1)
	commit := store.commits[0]
	assert.Equal(t, int64(1), commit.CartID)
	assert.Equal(t, order.MethodStripe, commit.Payment.Method)
	assert.Equal(t, order.PaymentSuccess, commit.Payment.Status)
	assert.True(t, o.TotalPrice.Equal(commit.Payment.Amount))
}

func TestFinalizeWithDiscount(t *testing.T) {
	c := innerCityCart()
	discountID := int64(7)
	c.DiscountID = &discountID
	c.DiscountPercent = d("10")

	store := &fakeStore{}
	f := newFinalizer(&fakeCartRepo{cart: c}, store)

	o, err := f.Finalize(context.Background(), ident, "cs_test_2")
	require.NoError(t, err)

	// 270000 + 30000 + 5400 - 27000
	assert.True(t, d("278400").Equal(o.TotalPrice), "got %s", o.TotalPrice)
	require.NotNil(t, o.DiscountID)
	assert.Equal(t, discountID, *o.DiscountID)
	require.NotNil(t, store.commits[0].DiscountID)
}

func TestFinalizeTotalNeverNegative(t *testing.T) {
	c := innerCityCart()
	discountID := int64(8)
	c.DiscountID = &discountID
	c.DiscountPercent = d("150")
	c.Items = c.Items[:1] // subtotal 120000, discount 180000

	f := newFinalizer(&fakeCartRepo{cart: c}, &fakeStore{})

	o, err := f.Finalize(context.Background(), ident, "cs_test_3")
	require.NoError(t, err)
	// 120000 + 30000 + 2400 - 180000 clamps to zero.
	assert.True(t, o.TotalPrice.IsZero(), "got %s", o.TotalPrice)
}

func TestFinalizeEmptyCart(t *testing.T) {
	f := newFinalizer(&fakeCartRepo{cart: &cart.Cart{ID: 1, UserID: 42}}, &fakeStore{})

	_, err := f.Finalize(context.Background(), ident, "cs_test_4")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestFinalizeDuplicatePaymentRef(t *testing.T) {
	store := &fakeStore{}
	f := newFinalizer(&fakeCartRepo{cart: innerCityCart()}, store)

	_, err := f.Finalize(context.Background(), ident, "cs_dup")
	require.NoError(t, err)

	_, err = f.Finalize(context.Background(), ident, "cs_dup")
	require.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Len(t, store.commits, 1)
}

func TestFinalizeFallsBackToIdentityAddress(t *testing.T) {
	c := innerCityCart()
	c.Address = ""
	store := &fakeStore{}
	f := newFinalizer(&fakeCartRepo{cart: c}, store)

	withAddr := ident
	withAddr.Address = "Thanh pho Can Tho"
	o, err := f.Finalize(context.Background(), withAddr, "cs_test_5")
	require.NoError(t, err)

	assert.Equal(t, "Thanh pho Can Tho", o.Address)
	// Empty cart address means outer-region shipping.
	assert.True(t, d("50000").Equal(o.ShippingFee))
}
