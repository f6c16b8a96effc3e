package cart

import "github.com/oksasatya/go-storefront/internal/domain/entity"

// Action is one of the enumerated cart transitions.
type Action interface {
	apply(entity.Cart) entity.Cart
}

type AddItem struct {
	Product entity.ProductSnapshot
}

type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

type RemoveItem struct {
	ProductID string
}

type Clear struct{}

// Reduce returns the cart after applying a. The input cart is not modified.
func Reduce(c entity.Cart, a Action) entity.Cart {
	if a == nil {
		return c
	}
	return a.apply(c)
}

func (a AddItem) apply(c entity.Cart) entity.Cart {
	lines := cloneLines(c.Lines)
	for i := range lines {
		if lines[i].Product.ID == a.Product.ID {
			lines[i].Quantity++
			return entity.Cart{Lines: lines}
		}
	}
	return entity.Cart{Lines: append(lines, entity.CartLine{Product: a.Product, Quantity: 1})}
}

func (a UpdateQuantity) apply(c entity.Cart) entity.Cart {
	if a.Quantity <= 0 {
		return RemoveItem{ProductID: a.ProductID}.apply(c)
	}
	lines := cloneLines(c.Lines)
	for i := range lines {
		if lines[i].Product.ID == a.ProductID {
			lines[i].Quantity = a.Quantity
			break
		}
	}
	return entity.Cart{Lines: lines}
}

func (a RemoveItem) apply(c entity.Cart) entity.Cart {
	lines := make([]entity.CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		if l.Product.ID != a.ProductID {
			lines = append(lines, l)
		}
	}
	return entity.Cart{Lines: lines}
}

func (Clear) apply(entity.Cart) entity.Cart {
	return entity.Cart{Lines: []entity.CartLine{}}
}

func cloneLines(in []entity.CartLine) []entity.CartLine {
	out := make([]entity.CartLine, len(in), len(in)+1)
	copy(out, in)
	return out
}
