package domain

// CartLine is one product in a customer's cart
type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart is the customer's in-progress order. It lives on the client and is
// sent whole when the order is placed.
type Cart struct {
	TableID string     `json:"table_id"`
	Lines   []CartLine `json:"items"`
}

// NewCart creates an empty cart for a table
func NewCart(tableID string) *Cart {
	return &Cart{TableID: tableID}
}

// Add puts qty more of a product in the cart, adding a line if needed
func (c *Cart) Add(productID, name string, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Name: name, Quantity: qty})
}

// SetQuantity changes a line's quantity. Quantities below one are raised to one;
// use Remove to drop a line.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			return true
		}
	}
	return false
}

// Remove drops a product from the cart
func (c *Cart) Remove(productID string) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart after a successful submission
func (c *Cart) Clear() {
	c.Lines = nil
}

// Count is the number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether there is nothing to order
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
