package domain

// Product is the slice of catalog state the order transaction depends on:
// identity, current unit price, and units on hand. Stock never drops below
// zero; the conditional decrement in the repository is the enforcement point.
type Product struct {
	ID         string
	PriceCents int64
	Stock      int
}
