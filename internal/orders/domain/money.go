package domain

import "errors"

// Money is carried as int64 minor units (paise) everywhere. Integer
// arithmetic keeps line totals exact; binary floating point never touches a
// currency amount.

// ErrAmountOverflow is returned when a total no longer fits in int64 minor units.
var ErrAmountOverflow = errors.New("amount overflows int64 minor units")

// LineTotal multiplies a unit price by a quantity, failing on overflow.
func LineTotal(priceCents int64, quantity int) (int64, error) {
	if priceCents < 0 || quantity < 0 {
		return 0, errors.New("price and quantity must be non-negative")
	}
	if quantity == 0 || priceCents == 0 {
		return 0, nil
	}
	total := priceCents * int64(quantity)
	if total/int64(quantity) != priceCents {
		return 0, ErrAmountOverflow
	}
	return total, nil
}

// AddAmounts sums two minor-unit amounts, failing on overflow.
func AddAmounts(a, b int64) (int64, error) {
	sum := a + b
	if b > 0 && sum < a {
		return 0, ErrAmountOverflow
	}
	if b < 0 && sum > a {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}
