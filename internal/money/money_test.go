package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vertice-pos/vertice-pos/internal/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQuantizeHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"10.995", "11.00"},
		{"0.125", "0.13"},
		{"2.675", "2.68"},
		{"3", "3"},
	}
	for _, tc := range cases {
		got := Quantize(dec(tc.in))
		require.True(t, got.Equal(dec(tc.want)), "Quantize(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestMulQty(t *testing.T) {
	require.True(t, MulQty(dec("10.00"), 3).Equal(dec("30.00")))
	require.True(t, MulQty(dec("0.335"), 2).Equal(dec("0.67")))
	require.True(t, MulQty(dec("19.99"), 0).Equal(decimal.Zero))
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(dec("0.00")))
	require.NoError(t, Check(Max))
	require.ErrorIs(t, Check(dec("-0.01")), ErrNegative)
	require.ErrorIs(t, Check(Max.Add(dec("0.01"))), ErrTooLarge)
	require.ErrorIs(t, Check(dec("-1")), shared.ErrValidation)
}

func TestCheckPositive(t *testing.T) {
	require.NoError(t, CheckPositive(dec("0.01")))
	require.ErrorIs(t, CheckPositive(decimal.Zero), shared.ErrInvalidAmount)
	require.ErrorIs(t, CheckPositive(dec("-5")), shared.ErrInvalidAmount)
	require.ErrorIs(t, CheckPositive(Max.Add(dec("1"))), ErrTooLarge)
}
