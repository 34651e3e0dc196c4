package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/glowmart/internal/domain/discount"
	"github.com/xenking/glowmart/internal/domain/pricing"
	"github.com/xenking/glowmart/internal/domain/product"
	"github.com/xenking/glowmart/internal/domain/user"
)

// --- Fakes ---

type memCartRepo struct {
	cart   Cart
	nextID int64
}

func newMemCartRepo(userID int64) *memCartRepo {
	return &memCartRepo{
		cart: Cart{
			ID:          1,
			UserID:      userID,
			ShippingFee: decimal.Zero,
			ServiceFee:  decimal.Zero,
		},
		nextID: 1,
	}
}

func (m *memCartRepo) GetByUser(_ context.Context, _ int64) (*Cart, error) {
	c := m.cart
	c.Items = append([]Item(nil), m.cart.Items...)
	return &c, nil
}

func (m *memCartRepo) AddItem(_ context.Context, _, productID int64, quantity int) error {
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity += quantity
			return nil
		}
	}
	m.cart.Items = append(m.cart.Items, Item{
		ID:        m.nextID,
		ProductID: productID,
		UnitPrice: prices[productID],
		Quantity:  quantity,
	})
	m.nextID++
	return nil
}

func (m *memCartRepo) UpdateItemQuantity(_ context.Context, _, itemID int64, quantity int) error {
	for i := range m.cart.Items {
		if m.cart.Items[i].ID == itemID {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *memCartRepo) RemoveItem(_ context.Context, _, itemID int64) error {
	for i := range m.cart.Items {
		if m.cart.Items[i].ID == itemID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *memCartRepo) SetDiscount(_ context.Context, _ int64, discountID *int64) error {
	m.cart.DiscountID = discountID
	return nil
}

func (m *memCartRepo) SetAddress(_ context.Context, _ int64, address string) error {
	m.cart.Address = address
	return nil
}

func (m *memCartRepo) UpdateFees(_ context.Context, _ int64, shipping, service decimal.Decimal) error {
	m.cart.ShippingFee = shipping
	m.cart.ServiceFee = service
	return nil
}

var prices = map[int64]decimal.Decimal{
	101: decimal.NewFromInt(120_000),
	102: decimal.NewFromInt(150_000),
	103: decimal.NewFromInt(450_000),
}

type fakeProductRepo struct{}

func (fakeProductRepo) List(context.Context) ([]product.Product, error) { return nil, nil }

func (fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	price, ok := prices[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &product.Product{ID: id, Price: price, Stock: 10}, nil
}

func (fakeProductRepo) AdjustStock(context.Context, product.StockChange) error { return nil }
func (fakeProductRepo) Delete(context.Context, int64) error                    { return nil }

type fakeDiscountRepo struct {
	codes map[string]*discount.Code
}

func (f *fakeDiscountRepo) FindByCode(_ context.Context, code string) (*discount.Code, error) {
	c, ok := f.codes[strings.ToUpper(code)]
	if !ok {
		return nil, discount.ErrNotFound
	}
	return c, nil
}

func (f *fakeDiscountRepo) IncrementUsedCount(context.Context, int64) error { return nil }

type fixedConfig struct{ percent decimal.Decimal }

func (f fixedConfig) ServiceFeePercent(context.Context) (decimal.Decimal, error) {
	return f.percent, nil
}

func (fixedConfig) SetServiceFeePercent(context.Context, decimal.Decimal) error { return nil }

func newTestService(repo *memCartRepo) *Service {
	discounts := &fakeDiscountRepo{codes: map[string]*discount.Code{
		"SALE10": {ID: 7, Code: "SALE10", Percentage: decimal.NewFromInt(10), Active: true},
	}}
	calc := pricing.NewCalculator(fixedConfig{percent: decimal.RequireFromString("2.0")})
	return NewService(repo, fakeProductRepo{}, discounts, calc)
}

const testUserID = int64(42)

var ident = user.Identity{UserID: testUserID, Email: "alice@gmail.com"}

// --- Tests ---

func TestAddItemAccumulates(t *testing.T) {
	repo := newMemCartRepo(testUserID)
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, ident, 101, 1)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, ident, 101, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(360_000).Equal(c.Subtotal()))
}

func TestAddItemValidation(t *testing.T) {
	repo := newMemCartRepo(testUserID)
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, ident, 101, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, ident, 999, 1)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestMutationsRecomputeFees(t *testing.T) {
	repo := newMemCartRepo(testUserID)
	svc := newTestService(repo)
	ctx := context.Background()

	// 120000 + 150000 = 270000 subtotal, outer region by default.
	_, err := svc.AddItem(ctx, ident, 101, 1)
	require.NoError(t, err)
	c, err := svc.AddItem(ctx, ident, 102, 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50_000).Equal(c.ShippingFee))
	assert.True(t, decimal.NewFromInt(5_400).Equal(c.ServiceFee))

	// Inner-city address drops shipping to the reduced rate.
	c, err = svc.SetAddress(ctx, ident, "12 Nguyen Trai, Ha Noi")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30_000).Equal(c.ShippingFee))

	// Crossing the free-shipping threshold zeroes shipping.
	c, err = svc.AddItem(ctx, ident, 103, 1) // subtotal 720000
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(c.ShippingFee))
	assert.True(t, decimal.NewFromInt(14_400).Equal(c.ServiceFee))

	// Removing the expensive item brings the flat rate back.
	c, err = svc.RemoveItem(ctx, ident, c.Items[2].ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30_000).Equal(c.ShippingFee))
}

func TestUpdateItem(t *testing.T) {
	repo := newMemCartRepo(testUserID)
	svc := newTestService(repo)
	ctx := context.Background()

	c, err := svc.AddItem(ctx, ident, 101, 1)
	require.NoError(t, err)

	c, err = svc.UpdateItem(ctx, ident, c.Items[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(600_000).Equal(c.Subtotal()))
	assert.True(t, decimal.Zero.Equal(c.ShippingFee))

	_, err = svc.UpdateItem(ctx, ident, 999, 1)
	require.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.UpdateItem(ctx, ident, c.Items[0].ID, -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSetDiscount(t *testing.T) {
	repo := newMemCartRepo(testUserID)
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, ident, 101, 1)
	require.NoError(t, err)

	c, err := svc.SetDiscount(ctx, ident, "sale10")
	require.NoError(t, err)
	require.NotNil(t, c.DiscountID)
	assert.Equal(t, int64(7), *c.DiscountID)

	// Unknown codes clear the discount silently instead of erroring.
	c, err = svc.SetDiscount(ctx, ident, "BOGUS")
	require.NoError(t, err)
	assert.Nil(t, c.DiscountID)

	// Empty code clears too.
	_, err = svc.SetDiscount(ctx, ident, "sale10")
	require.NoError(t, err)
	c, err = svc.SetDiscount(ctx, ident, "")
	require.NoError(t, err)
	assert.Nil(t, c.DiscountID)
}

func TestDiscountAmountDerived(t *testing.T) {
	id := int64(7)
	c := &Cart{
		DiscountID:      &id,
		DiscountPercent: decimal.NewFromInt(10),
		Items: []Item{
			{ProductID: 101, UnitPrice: decimal.NewFromInt(120_000), Quantity: 1},
			{ProductID: 102, UnitPrice: decimal.NewFromInt(150_000), Quantity: 1},
		},
	}
	assert.True(t, decimal.NewFromInt(27_000).Equal(c.DiscountAmount()))

	c.DiscountID = nil
	assert.True(t, decimal.Zero.Equal(c.DiscountAmount()))
}
