package discount

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	codes      map[string]*Code
	increments []int64
}

func (f *fakeRepo) FindByCode(_ context.Context, code string) (*Code, error) {
	c, ok := f.codes[strings.ToUpper(code)]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) IncrementUsedCount(_ context.Context, id int64) error {
	f.increments = append(f.increments, id)
	return nil
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func intPtr(v int) *int { return &v }

func newResolverAt(repo Repository, now time.Time) *Resolver {
	r := NewResolver(repo)
	r.now = func() time.Time { return now }
	return r
}

func TestValidate(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	window := func(fromDays, toDays int) (time.Time, time.Time) {
		return now.AddDate(0, 0, fromDays), now.AddDate(0, 0, toDays)
	}

	sale10From, sale10To := window(-5, 25)
	expiredFrom, expiredTo := window(-30, -1)
	futureFrom, futureTo := window(1, 30)

	repo := &fakeRepo{codes: map[string]*Code{
		"SALE10":    {ID: 1, Code: "SALE10", Percentage: d("10"), ValidFrom: sale10From, ValidTo: sale10To, Active: true},
		"EXPIRED":   {ID: 2, Code: "EXPIRED", Percentage: d("20"), ValidFrom: expiredFrom, ValidTo: expiredTo, Active: true},
		"NOTYET":    {ID: 3, Code: "NOTYET", Percentage: d("20"), ValidFrom: futureFrom, ValidTo: futureTo, Active: true},
		"EXHAUSTED": {ID: 4, Code: "EXHAUSTED", Percentage: d("15"), ValidFrom: sale10From, ValidTo: sale10To, MaxUses: intPtr(50), UsedCount: 50, Active: true},
		"INACTIVE":  {ID: 5, Code: "INACTIVE", Percentage: d("15"), ValidFrom: sale10From, ValidTo: sale10To, Active: false},
	}}
	r := newResolverAt(repo, now)

	tests := []struct {
		name     string
		code     string
		wantOK   bool
		wantMsg  string
		wantPct  decimal.Decimal
	}{
		{"valid code", "SALE10", true, "", d("10")},
		{"case insensitive lookup", "sale10", true, "", d("10")},
		{"whitespace trimmed", "  SALE10 ", true, "", d("10")},
		{"unknown code", "NOPE", false, "code not found", decimal.Zero},
		{"expired code", "EXPIRED", false, "expired or exhausted", decimal.Zero},
		{"not yet valid", "NOTYET", false, "expired or exhausted", decimal.Zero},
		{"usage cap reached", "EXHAUSTED", false, "expired or exhausted", decimal.Zero},
		{"inactive code", "INACTIVE", false, "expired or exhausted", decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := r.Validate(context.Background(), tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, v.Valid)
			assert.Equal(t, tt.wantMsg, v.Message)
			assert.True(t, tt.wantPct.Equal(v.Percentage))
		})
	}

	// The probe never consumes a use.
	assert.Empty(t, repo.increments)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		subtotal string
		percent  string
		want     string
	}{
		{"270000", "10", "27000"},
		{"123456", "7.5", "9259"}, // 9259.2 floors
		{"99999", "33.33", "33329"},
		{"0", "50", "0"},
		{"270000", "0", "0"},
	}
	for _, tt := range tests {
		got := Amount(d(tt.subtotal), d(tt.percent))
		assert.True(t, d(tt.want).Equal(got), "%s%% of %s: want %s got %s", tt.percent, tt.subtotal, tt.want, got)
	}
}

func TestUsable(t *testing.T) {
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	base := Code{
		Percentage: d("10"),
		ValidFrom:  now.AddDate(0, 0, -1),
		ValidTo:    now.AddDate(0, 0, 1),
		Active:     true,
	}

	c := base
	assert.True(t, c.Usable(now))

	c = base
	c.MaxUses = intPtr(3)
	c.UsedCount = 2
	assert.True(t, c.Usable(now))
	c.UsedCount = 3
	assert.False(t, c.Usable(now))

	c = base
	assert.True(t, c.Usable(c.ValidFrom))
	assert.True(t, c.Usable(c.ValidTo))
	assert.False(t, c.Usable(c.ValidTo.Add(time.Second)))
}
