package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuildLinesComputesSubtotals(t *testing.T) {
	subtotal, lines, err := BuildLines([]LineRequest{
		{ProductID: 1, Quantity: 2, UnitPrice: d("10.00")},
		{ProductID: 2, Quantity: 3, UnitPrice: d("5.50")},
	})
	require.NoError(t, err)
	require.True(t, subtotal.Equal(d("36.50")))
	require.Len(t, lines, 2)
	require.True(t, lines[0].Subtotal.Equal(d("20.00")))
	require.True(t, lines[1].Subtotal.Equal(d("16.50")))
}

func TestBuildLinesExplicitSubtotalWins(t *testing.T) {
	explicit := d("15.00")
	subtotal, lines, err := BuildLines([]LineRequest{
		{ProductID: 1, Quantity: 2, UnitPrice: d("10.00"), Subtotal: &explicit},
	})
	require.NoError(t, err)
	require.True(t, subtotal.Equal(d("15.00")))
	require.True(t, lines[0].Subtotal.Equal(d("15.00")))
}

func TestBuildLinesRejectsBadInput(t *testing.T) {
	_, _, err := BuildLines([]LineRequest{{ProductID: 0, Quantity: 1, UnitPrice: d("1.00")}})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = BuildLines([]LineRequest{{ProductID: 1, Quantity: 0, UnitPrice: d("1.00")}})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, _, err = BuildLines([]LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: d("-1.00")}})
	require.ErrorIs(t, err, shared.ErrValidation)

	negative := d("-5.00")
	_, _, err = BuildLines([]LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: d("1.00"), Subtotal: &negative}})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestClassifyPaymentForcesCreditWithoutMethod(t *testing.T) {
	method, isCredit, err := ClassifyPayment(nil, false)
	require.NoError(t, err)
	require.Nil(t, method)
	require.True(t, isCredit)
}

func TestClassifyPaymentRequiresMethodForCashSale(t *testing.T) {
	empty := ""
	_, _, err := ClassifyPayment(&empty, false)
	require.ErrorIs(t, err, shared.ErrValidation)
	require.ErrorIs(t, err, ErrPaymentMethodRequired)
}

func TestClassifyPaymentKeepsCashSale(t *testing.T) {
	cash := "cash"
	method, isCredit, err := ClassifyPayment(&cash, false)
	require.NoError(t, err)
	require.Equal(t, "cash", *method)
	require.False(t, isCredit)
}

func TestRescaleTaxDiscountPreservesRates(t *testing.T) {
	tax, discount := RescaleTaxDiscount(d("20.00"), d("2.00"), d("1.00"), d("30.00"))
	require.True(t, tax.Equal(d("3.00")))
	require.True(t, discount.Equal(d("1.50")))
}

func TestRescaleTaxDiscountZeroSubtotal(t *testing.T) {
	tax, discount := RescaleTaxDiscount(decimal.Zero, d("2.00"), d("1.00"), d("30.00"))
	require.True(t, tax.IsZero())
	require.True(t, discount.IsZero())
}

func TestTotalRejectsNegative(t *testing.T) {
	total, err := Total(d("10.00"), d("1.00"), d("2.00"))
	require.NoError(t, err)
	require.True(t, total.Equal(d("9.00")))

	_, err = Total(d("10.00"), decimal.Zero, d("15.00"))
	require.ErrorIs(t, err, shared.ErrValidation)
	require.ErrorIs(t, err, ErrNegativeTotal)
}
