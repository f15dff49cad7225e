package checkout

import (
	"strings"

	"event-storefront/internal/models"
	"event-storefront/internal/validation"
)

// FieldKind is the input type a field renders as.
type FieldKind string

const (
	KindText  FieldKind = "text"
	KindEmail FieldKind = "email"
	KindTel   FieldKind = "tel"
	KindRadio FieldKind = "radio"
)

// FieldConfig describes one checkout input.
type FieldConfig struct {
	Name        string
	Label       string
	Kind        FieldKind
	Placeholder string
	Required    bool
}

// Fields returns the customer fields in display order.
func Fields() []FieldConfig {
	return []FieldConfig{
		{Name: "customerName", Label: "Full Name", Kind: KindText, Placeholder: "John Doe", Required: true},
		{Name: "customerEmail", Label: "Email", Kind: KindEmail, Placeholder: "john@example.com", Required: true},
		{Name: "mobileNumber", Label: "Mobile Number", Kind: KindTel, Placeholder: "0771234567", Required: true},
	}
}

// PaymentField describes the payment method selector.
func PaymentField() FieldConfig {
	return FieldConfig{Name: "paymentMethod", Label: "Payment Method", Kind: KindRadio, Required: true}
}

// Form is what the shopper fills in at checkout.
type Form struct {
	CustomerName  string               `form:"customerName" validate:"notblank"`
	CustomerEmail string               `form:"customerEmail" validate:"notblank,looseemail"`
	MobileNumber  string               `form:"mobileNumber" validate:"notblank"`
	PaymentMethod models.PaymentMethod `form:"paymentMethod" validate:"oneof=ECOCASH INNBUCKS ZIMSWITCH INTERNATIONAL_CARD"`
}

var formMessages = validation.Messages{
	"customerName":             "Name is required",
	"customerEmail.notblank":   "Email is required",
	"customerEmail.looseemail": "Invalid email format",
	"mobileNumber":             "Mobile number is required",
	"paymentMethod":            "Invalid payment method",
}

// NewForm prefills the form: saved customer info wins, then the signed-in
// user, else blank. The payment method defaults to the first one offered.
func NewForm(user *models.User, saved *models.CustomerInfo) Form {
	form := Form{PaymentMethod: models.DefaultPaymentMethod}
	switch {
	case saved != nil:
		form.CustomerName = saved.Name
		form.CustomerEmail = saved.Email
		form.MobileNumber = saved.MobileNumber
	case user != nil:
		form.CustomerName = user.FullName()
		form.CustomerEmail = user.Email
		form.MobileNumber = user.PhoneNumber
	}
	return form
}

// Value returns the posted value for a field name.
func (f Form) Value(name string) string {
	switch name {
	case "customerName":
		return f.CustomerName
	case "customerEmail":
		return f.CustomerEmail
	case "mobileNumber":
		return f.MobileNumber
	case "paymentMethod":
		return string(f.PaymentMethod)
	}
	return ""
}

// Validate runs the field checks. An empty result means the form is valid.
func (f Form) Validate() validation.FieldErrors {
	if f.PaymentMethod == "" {
		f.PaymentMethod = models.DefaultPaymentMethod
	}
	return validation.Struct(f, formMessages)
}

// Request assembles the purchase body from the form and the cart.
func (f Form) Request(c models.Cart) *models.PurchaseRequest {
	req := &models.PurchaseRequest{
		PaymentMethod: f.PaymentMethod,
		CustomerEmail: strings.TrimSpace(f.CustomerEmail),
		CustomerName:  strings.TrimSpace(f.CustomerName),
		MobileNumber:  strings.TrimSpace(f.MobileNumber),
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.DefaultPaymentMethod
	}
	if c.Event != nil {
		req.EventID = c.Event.ID
	}
	for _, item := range c.Tickets {
		req.Tickets = append(req.Tickets, models.PurchaseTicket{
			Category: item.Category,
			Quantity: item.Quantity,
		})
	}
	return req
}
