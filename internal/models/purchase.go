package models

// PaymentMethod is how the customer pays at checkout
type PaymentMethod string

const (
	PaymentEcoCash           PaymentMethod = "ECOCASH"
	PaymentInnBucks          PaymentMethod = "INNBUCKS"
	PaymentZimSwitch         PaymentMethod = "ZIMSWITCH"
	PaymentInternationalCard PaymentMethod = "INTERNATIONAL_CARD"
)

// PaymentMethods lists the methods in display order; the first is the default.
var PaymentMethods = []PaymentMethod{
	PaymentEcoCash,
	PaymentInnBucks,
	PaymentZimSwitch,
	PaymentInternationalCard,
}

// DefaultPaymentMethod is preselected on the checkout form.
const DefaultPaymentMethod = PaymentEcoCash

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Label is the human name, e.g. "INTERNATIONAL CARD".
func (m PaymentMethod) Label() string {
	s := []byte(m)
	for i, c := range s {
		if c == '_' {
			s[i] = ' '
			break
		}
	}
	return string(s)
}

// Kind groups the method for display.
func (m PaymentMethod) Kind() string {
	if m == PaymentInternationalCard {
		return "Card Payment"
	}
	return "Mobile Money"
}

// PurchaseTicket is one {category, quantity} pair of a purchase
type PurchaseTicket struct {
	Category TicketCategory `json:"category"`
	Quantity int            `json:"quantity"`
}

// PurchaseRequest is the body of POST /tickets/purchase
type PurchaseRequest struct {
	EventID       int64            `json:"eventId"`
	Tickets       []PurchaseTicket `json:"tickets"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	CustomerEmail string           `json:"customerEmail"`
	CustomerName  string           `json:"customerName"`
	MobileNumber  string           `json:"mobileNumber"`
}

// PurchaseResult is the backend's answer to a purchase
type PurchaseResult struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	TransactionID string        `json:"transactionId,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
}

// Transaction is a payment record looked up by reference
type Transaction struct {
	Reference     string        `json:"reference"`
	Status        string        `json:"status"`
	Amount        Amount        `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CreatedAt     DateTime      `json:"createdAt"`
}
