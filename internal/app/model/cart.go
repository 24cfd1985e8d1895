package model

// MaxLineQuantity bounds a single cart entry.
const MaxLineQuantity = 999

// CartEntry is one product reference held in a session cart.
type CartEntry struct {
	ProductID uint `json:"id"`
	Quantity  int  `json:"quantity"`
}

// Cart is the ordered, session-scoped list of entries. It is never stored in the database.
type Cart []CartEntry

// Add increments an existing entry or appends a new one.
func (c Cart) Add(productID uint, quantity int) Cart {
	for i := range c {
		if c[i].ProductID == productID {
			c[i].Quantity += quantity
			return c
		}
	}
	return append(c, CartEntry{ProductID: productID, Quantity: quantity})
}

// Quantity returns the quantity held for productID, zero when absent.
func (c Cart) Quantity(productID uint) int {
	for _, entry := range c {
		if entry.ProductID == productID {
			return entry.Quantity
		}
	}
	return 0
}

// SetQuantity overwrites an entry, removing it when quantity <= 0.
// Products not in the cart are ignored.
func (c Cart) SetQuantity(productID uint, quantity int) Cart {
	for i := range c {
		if c[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			return c.Remove(productID)
		}
		c[i].Quantity = quantity
		return c
	}
	return c
}

func (c Cart) Remove(productID uint) Cart {
	out := c[:0]
	for _, entry := range c {
		if entry.ProductID != productID {
			out = append(out, entry)
		}
	}
	return out
}

// Count is the number of distinct entries, not the summed quantity.
func (c Cart) Count() int {
	return len(c)
}

func (c Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c))
	for _, entry := range c {
		ids = append(ids, entry.ProductID)
	}
	return ids
}
