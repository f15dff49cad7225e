package checkout

import (
	"testing"

	"event-storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func validForm() Form {
	return Form{
		CustomerName:  "Tendai Moyo",
		CustomerEmail: "tendai@example.com",
		MobileNumber:  "0771234567",
		PaymentMethod: models.PaymentEcoCash,
	}
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *Form)
		field  string
		want   string
	}{
		{"blank name", func(f *Form) { f.CustomerName = "   " }, "customerName", "Name is required"},
		{"missing email", func(f *Form) { f.CustomerEmail = "" }, "customerEmail", "Email is required"},
		{"malformed email", func(f *Form) { f.CustomerEmail = "a@b" }, "customerEmail", "Invalid email format"},
		{"missing mobile", func(f *Form) { f.MobileNumber = "" }, "mobileNumber", "Mobile number is required"},
		{"unknown payment", func(f *Form) { f.PaymentMethod = "BITCOIN" }, "paymentMethod", "Invalid payment method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			errs := f.Validate()
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs.Get(tt.field))
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert.True(t, validForm().Validate().Empty())
	})

	t.Run("empty payment method falls back to default", func(t *testing.T) {
		f := validForm()
		f.PaymentMethod = ""
		assert.True(t, f.Validate().Empty())
	})

	t.Run("all fields empty", func(t *testing.T) {
		errs := Form{}.Validate()
		assert.Equal(t, "Name is required", errs.Get("customerName"))
		assert.Equal(t, "Email is required", errs.Get("customerEmail"))
		assert.Equal(t, "Mobile number is required", errs.Get("mobileNumber"))
	})
}

func TestNewForm(t *testing.T) {
	user := &models.User{FirstName: "Rudo", LastName: "Chikore", Email: "rudo@example.com", PhoneNumber: "0712000000"}

	f := NewForm(user, nil)
	assert.Equal(t, "Rudo Chikore", f.CustomerName)
	assert.Equal(t, "rudo@example.com", f.CustomerEmail)
	assert.Equal(t, "0712000000", f.MobileNumber)
	assert.Equal(t, models.DefaultPaymentMethod, f.PaymentMethod)

	saved := &models.CustomerInfo{Name: "Saved Name", Email: "saved@example.com", MobileNumber: "0788"}
	f = NewForm(user, saved)
	assert.Equal(t, "Saved Name", f.CustomerName)
	assert.Equal(t, "saved@example.com", f.CustomerEmail)

	f = NewForm(nil, nil)
	assert.Empty(t, f.CustomerName)
	assert.Equal(t, models.PaymentEcoCash, f.PaymentMethod)
}

func TestFormRequest(t *testing.T) {
	c := models.Cart{
		Event: &models.Event{ID: 7},
		Tickets: []models.CartLineItem{
			{Category: models.CategoryStandard, Price: models.NewAmount(10, 0), Quantity: 2},
			{Category: models.CategoryVIP, Price: models.NewAmount(25, 0), Quantity: 1},
		},
	}
	f := validForm()
	f.CustomerName = "  Tendai Moyo "

	req := f.Request(c)
	assert.Equal(t, int64(7), req.EventID)
	assert.Equal(t, "Tendai Moyo", req.CustomerName)
	assert.Equal(t, []models.PurchaseTicket{
		{Category: models.CategoryStandard, Quantity: 2},
		{Category: models.CategoryVIP, Quantity: 1},
	}, req.Tickets)
	assert.Equal(t, models.PaymentEcoCash, req.PaymentMethod)
}

func TestFieldsOrder(t *testing.T) {
	names := []string{}
	for _, f := range Fields() {
		names = append(names, f.Name)
		assert.True(t, f.Required)
	}
	assert.Equal(t, []string{"customerName", "customerEmail", "mobileNumber"}, names)
	assert.Equal(t, "Tendai Moyo", validForm().Value("customerName"))
	assert.Equal(t, "ECOCASH", validForm().Value("paymentMethod"))
}
