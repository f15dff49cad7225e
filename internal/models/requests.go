package models

import (
	"strconv"
	"strings"

	"event-storefront/internal/validation"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"notblank"`
	Password string `json:"password" form:"password" validate:"required"`
}

var loginMessages = validation.Messages{
	"username": "Username is required",
	"password": "Password is required",
}

// Validate checks the login form.
func (r *LoginRequest) Validate() validation.FieldErrors {
	return validation.Struct(r, loginMessages)
}

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Username        string `json:"username" form:"username" validate:"notblank,min=3"`
	Email           string `json:"email" form:"email" validate:"notblank,looseemail"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" form:"confirmPassword" validate:"eqfield=Password"`
	FirstName       string `json:"firstName" form:"firstName" validate:"notblank"`
	LastName        string `json:"lastName" form:"lastName" validate:"notblank"`
	PhoneNumber     string `json:"phoneNumber,omitempty" form:"phoneNumber"`
	AcceptTerms     bool   `json:"-" form:"terms" validate:"required"`
}

var signupMessages = validation.Messages{
	"username.notblank": "Username is required",
	"username.min":      "Username must be at least 3 characters",
	"email.notblank":    "Email is required",
	"email.looseemail":  "Invalid email format",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"confirmPassword":   "Passwords do not match",
	"firstName":         "First name is required",
	"lastName":          "Last name is required",
	"terms":             "You must accept the terms and conditions",
}

// Validate checks the signup form.
func (r *SignupRequest) Validate() validation.FieldErrors {
	return validation.Struct(r, signupMessages)
}

// AuthResponse is what /auth/login and /auth/signup return
type AuthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

// EventForm holds the admin event editor fields exactly as posted.
type EventForm struct {
	Name        string `form:"name" validate:"notblank"`
	DateTime    string `form:"dateTime" validate:"required"`
	Venue       string `form:"venue" validate:"notblank"`
	Address     string `form:"address" validate:"notblank"`
	City        string `form:"city" validate:"required"`
	Type        string `form:"type"`
	IsPromotion string `form:"ispromotion"`
	Latitude    string `form:"latitude"`
	Longitude   string `form:"longitude"`
	Capacity    string `form:"capacity"`
	Description string `form:"description"`
	BannerURL   string `form:"banner_url"`
	ImageURL    string `form:"image_url"`
	// Prices keyed by category; blank or zero means "not on sale".
	Prices map[TicketCategory]string `form:"-"`
}

var eventFormMessages = validation.Messages{
	"name":     "Event name is required",
	"dateTime": "Date and time is required",
	"venue":    "Venue is required",
	"address":  "Address is required",
	"city":     "City is required",
}

// NewEventForm returns the blank editor form.
func NewEventForm() EventForm {
	return EventForm{
		Type:        EventTypes[0],
		IsPromotion: "false",
		Prices:      map[TicketCategory]string{},
	}
}

// EventFormFromEvent prefills the editor from an existing event.
func EventFormFromEvent(e *Event) EventForm {
	form := NewEventForm()
	form.Name = e.Name
	if !e.DateTime.IsZero() {
		form.DateTime = e.DateTime.Format("2006-01-02T15:04")
	}
	form.Venue = e.Venue
	form.Address = e.Address
	form.City = e.City
	if e.Type != "" {
		form.Type = e.Type
	}
	form.IsPromotion = strconv.FormatBool(bool(e.IsPromotion))
	form.Latitude = e.Latitude
	form.Longitude = e.Longitude
	if e.Capacity > 0 {
		form.Capacity = strconv.Itoa(e.Capacity)
	}
	form.Description = e.Description
	form.BannerURL = e.BannerURL
	form.ImageURL = e.ImageURL
	for _, tt := range e.TicketTypes {
		form.Prices[tt.Category] = tt.Price.String()
	}
	return form
}

// Validate checks required fields, capacity and that something is on sale.
func (f *EventForm) Validate() validation.FieldErrors {
	errs := validation.Struct(f, eventFormMessages)

	if capacity, err := strconv.Atoi(strings.TrimSpace(f.Capacity)); err != nil || capacity <= 0 {
		errs.Add("capacity", "Valid capacity is required")
	}
	if f.DateTime != "" {
		if _, err := ParseDateTime(f.DateTime); err != nil {
			errs.Add("dateTime", "Date and time is invalid")
		}
	}
	if len(f.ticketTypes()) == 0 {
		errs.Add("tickets", "At least one ticket type must have a price")
	}
	return errs
}

func (f *EventForm) ticketTypes() []TicketType {
	var out []TicketType
	for _, category := range AllTicketCategories {
		price, err := ParseAmount(f.Prices[category])
		if err != nil || price <= 0 {
			continue
		}
		out = append(out, TicketType{Category: category, Price: price})
	}
	return out
}

// ToPayload maps the form onto the backend event body. Call Validate first.
func (f *EventForm) ToPayload() EventPayload {
	capacity, _ := strconv.Atoi(strings.TrimSpace(f.Capacity))
	dt, _ := ParseDateTime(f.DateTime)
	return EventPayload{
		Name:        strings.TrimSpace(f.Name),
		DateTime:    dt,
		Venue:       strings.TrimSpace(f.Venue),
		Address:     strings.TrimSpace(f.Address),
		City:        f.City,
		Type:        f.Type,
		IsPromotion: f.IsPromotion == "true",
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		Capacity:    capacity,
		Description: f.Description,
		BannerURL:   f.BannerURL,
		ImageURL:    f.ImageURL,
		TicketTypes: f.ticketTypes(),
	}
}

// EventPayload is the body of POST /events and PUT /events/{id}
type EventPayload struct {
	Name        string       `json:"name"`
	DateTime    DateTime     `json:"dateTime"`
	Venue       string       `json:"venue"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	Type        string       `json:"type"`
	IsPromotion Flag         `json:"ispromotion"`
	Latitude    string       `json:"latitude,omitempty"`
	Longitude   string       `json:"longitude,omitempty"`
	Capacity    int          `json:"capacity"`
	Description string       `json:"description"`
	BannerURL   string       `json:"banner_url,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	TicketTypes []TicketType `json:"ticketTypes"`
}
