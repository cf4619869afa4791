package orders

// OrderLine is one requested (product, quantity) pair.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderInput carries everything order placement needs.
type PlaceOrderInput struct {
	CustomerID int64
	Lines      []OrderLine
	IsPriority bool
}
