package models

// CartLineItem is one ticket category in the cart
type CartLineItem struct {
	Category TicketCategory `json:"category"`
	Price    Amount         `json:"price"`
	Quantity int            `json:"quantity"`
}

// Subtotal is price times quantity.
func (i CartLineItem) Subtotal() Amount {
	return i.Price.Mul(i.Quantity)
}

// CustomerInfo is the buyer details remembered with the cart
type CustomerInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
}

// Cart represents the shopper's in-progress order for one event
type Cart struct {
	Event        *Event         `json:"event"`
	Tickets      []CartLineItem `json:"tickets"`
	CustomerInfo *CustomerInfo  `json:"customerInfo"`
}

// NewCart returns the empty cart.
func NewCart() Cart {
	return Cart{Tickets: []CartLineItem{}}
}
