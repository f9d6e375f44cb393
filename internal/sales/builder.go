package sales

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vertice-pos/vertice-pos/internal/money"
)

// BuildLines normalizes requested line items and returns the aggregate
// subtotal. An explicit line subtotal wins over quantity times unit price,
// but is validated like any other monetary value.
func BuildLines(requests []LineRequest) (decimal.Decimal, []Line, error) {
	subtotal := decimal.Zero
	lines := make([]Line, 0, len(requests))
	for _, req := range requests {
		if req.ProductID <= 0 {
			return decimal.Zero, nil, fmt.Errorf("%w: product id %d", ErrInvalidLine, req.ProductID)
		}
		if req.Quantity < 1 {
			return decimal.Zero, nil, fmt.Errorf("%w: quantity %d for product %d",
				ErrInvalidLine, req.Quantity, req.ProductID)
		}
		if err := money.Check(req.UnitPrice); err != nil {
			return decimal.Zero, nil, fmt.Errorf("sales: unit price for product %d: %w", req.ProductID, err)
		}
		var lineSubtotal decimal.Decimal
		if req.Subtotal != nil {
			if err := money.Check(*req.Subtotal); err != nil {
				return decimal.Zero, nil, fmt.Errorf("sales: subtotal for product %d: %w", req.ProductID, err)
			}
			lineSubtotal = money.Quantize(*req.Subtotal)
		} else {
			lineSubtotal = money.MulQty(req.UnitPrice, req.Quantity)
		}
		lines = append(lines, Line{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: money.Quantize(req.UnitPrice),
			Subtotal:  lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}
	return money.Quantize(subtotal), lines, nil
}

// ClassifyPayment resolves the credit flag against the payment method. A
// missing method forces a credit sale; a declared cash sale must name how it
// was paid.
func ClassifyPayment(method *string, isCredit bool) (*string, bool, error) {
	if method == nil {
		isCredit = true
	}
	if !isCredit && (method == nil || *method == "") {
		return nil, false, ErrPaymentMethodRequired
	}
	return method, isCredit, nil
}

// RescaleTaxDiscount keeps the tax and discount burden proportional to the
// subtotal when only the line set changes. The old rates are derived from the
// old subtotal and applied to the new one; a zero old subtotal yields zero
// for both.
func RescaleTaxDiscount(oldSubtotal, oldTax, oldDiscount, newSubtotal decimal.Decimal) (tax, discount decimal.Decimal) {
	if !oldSubtotal.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	taxRate := oldTax.Div(oldSubtotal)
	discountRate := oldDiscount.Div(oldSubtotal)
	return money.Quantize(newSubtotal.Mul(taxRate)), money.Quantize(newSubtotal.Mul(discountRate))
}

// Total computes subtotal + tax - discount and rejects a negative result.
func Total(subtotal, tax, discount decimal.Decimal) (decimal.Decimal, error) {
	total := money.Quantize(subtotal.Add(tax).Sub(discount))
	if total.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeTotal, total)
	}
	return total, nil
}
