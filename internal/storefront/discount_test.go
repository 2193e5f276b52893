package storefront

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petstore/internal/storefront/api"
)

func newState(prices ...string) CartState {
	st := CartState{}
	for i, p := range prices {
		st.Items = append(st.Items, cartItem(int64(i+1), p))
	}
	st.Total = itemsTotal(st.Items)
	return st
}

func TestDiscountApplier_ApplyAndReplaceDoesNotCompound(t *testing.T) {
	ctx := context.Background()
	m := new(StoreAPIMock)
	m.On("ValidateDiscount", ctx, "SAVE20", "100").Return(validation("SAVE20", "20", "20", "80"), nil).Twice()
	m.On("ValidateDiscount", ctx, "SAVE10", "100").Return(validation("SAVE10", "10", "10", "90"), nil).Once()

	d := NewDiscountApplier(m, zap.NewNop())
	st := newState("60", "40")

	res, err := d.Apply(ctx, &st, "SAVE20")
	require.NoError(t, err)
	assert.True(t, res.DiscountAmount.Equal(dec("20")))
	require.NotNil(t, st.TotalAfterDiscount)
	assert.True(t, st.TotalAfterDiscount.Equal(dec("80")))

	//同じコードをもう一度でも結果は同じ
	_, err = d.Apply(ctx, &st, "SAVE20")
	require.NoError(t, err)
	assert.True(t, st.TotalAfterDiscount.Equal(dec("80")))

	//別コードは置き換え（100から計算）
	_, err = d.Apply(ctx, &st, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", st.Discount.Code)
	assert.True(t, st.TotalAfterDiscount.Equal(dec("90")))
	assert.True(t, st.Total.Equal(dec("100")))

	m.AssertExpectations(t)
}

func TestDiscountApplier_ValidateNormalizesCode(t *testing.T) {
	ctx := context.Background()
	m := new(StoreAPIMock)
	m.On("ValidateDiscount", ctx, "SAVE20", "50").Return(validation("SAVE20", "20", "10", "40"), nil)

	d := NewDiscountApplier(m, zap.NewNop())
	_, err := d.Validate(ctx, "  save20 ", dec("50"))
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestDiscountApplier_ValidateEmptyCode(t *testing.T) {
	m := new(StoreAPIMock)
	d := NewDiscountApplier(m, zap.NewNop())

	_, err := d.Validate(context.Background(), "   ", dec("50"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please enter a discount code.", ve.Message)
	m.AssertNotCalled(t, "ValidateDiscount", mock.Anything, mock.Anything, mock.Anything)
}

func TestDiscountApplier_ApplyFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	m := new(StoreAPIMock)
	m.On("ValidateDiscount", ctx, "OLD", "100").
		Return(nil, &api.Error{Kind: api.KindInvalidState, Status: http.StatusBadRequest, Message: "Invalid or expired discount code"})

	d := NewDiscountApplier(m, zap.NewNop())
	st := newState("100")
	st.Discount = &AppliedDiscount{Code: "KEEP", Percentage: dec("5"), DiscountAmount: dec("5")}
	st.TotalAfterDiscount = decPtr("95")

	_, err := d.Apply(ctx, &st, "old")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindInvalidState))
	assert.Equal(t, "KEEP", st.Discount.Code)
	assert.True(t, st.TotalAfterDiscount.Equal(dec("95")))
}

func TestDiscountApplier_Remove(t *testing.T) {
	d := NewDiscountApplier(new(StoreAPIMock), zap.NewNop())
	st := newState("30", "", "20")
	st.Discount = &AppliedDiscount{Code: "X"}
	st.TotalAfterDiscount = decPtr("1")
	st.Total = dec("999")

	d.Remove(&st)
	assert.Nil(t, st.Discount)
	assert.Nil(t, st.TotalAfterDiscount)
	assert.True(t, st.Total.Equal(dec("50")))
}

func TestDiscountApplier_ReapplyAfterReload(t *testing.T) {
	ctx := context.Background()

	t.Run("still valid", func(t *testing.T) {
		m := new(StoreAPIMock)
		m.On("ValidateDiscount", ctx, "SAVE20", "60").Return(validation("SAVE20", "20", "12", "48"), nil)
		d := NewDiscountApplier(m, zap.NewNop())

		st := newState("60")
		assert.True(t, d.ReapplyAfterReload(ctx, &st, "SAVE20"))
		assert.True(t, st.TotalAfterDiscount.Equal(dec("48")))
	})

	t.Run("expired is dropped", func(t *testing.T) {
		m := new(StoreAPIMock)
		m.On("ValidateDiscount", ctx, "SAVE20", "60").
			Return(nil, &api.Error{Kind: api.KindInvalidState, Status: http.StatusBadRequest, Message: "Invalid or expired discount code"})
		d := NewDiscountApplier(m, zap.NewNop())

		st := newState("60")
		assert.False(t, d.ReapplyAfterReload(ctx, &st, "SAVE20"))
		assert.Nil(t, st.Discount)
		assert.Nil(t, st.TotalAfterDiscount)
		assert.True(t, st.Total.Equal(dec("60")))
	})

	t.Run("no previous code", func(t *testing.T) {
		m := new(StoreAPIMock)
		d := NewDiscountApplier(m, zap.NewNop())

		st := newState("60")
		assert.False(t, d.ReapplyAfterReload(ctx, &st, ""))
		m.AssertNotCalled(t, "ValidateDiscount", mock.Anything, mock.Anything, mock.Anything)
	})
}
