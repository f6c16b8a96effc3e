package entity

// ProductSnapshot is an immutable copy of product data taken when it was added
// to the cart. The price is not refreshed afterwards.
type ProductSnapshot struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	ImageURL string  `json:"image_url"`
}

// CartLine is one product and its quantity. Quantity is always >= 1.
type CartLine struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart holds lines in the order they were first added, at most one per product id.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Total is recomputed from the lines on every call.
func (c Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Line returns the line for productID, if any.
func (c Cart) Line(productID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}
