package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"event-storefront/internal/api"
	"event-storefront/internal/cart"
	"event-storefront/internal/checkout"
	"event-storefront/internal/models"
	"event-storefront/internal/services"
	"event-storefront/internal/storage"
	"event-storefront/internal/utils"

	"github.com/sirupsen/logrus"
)

// Shell is the terminal storefront for one device.
type Shell struct {
	kv         storage.KeyValueStore
	client     *api.Client
	purchasers services.PurchaserFactory
	timeout    time.Duration
	logger     *logrus.Logger
	out        io.Writer
}

func NewShell(kv storage.KeyValueStore, client *api.Client, purchasers services.PurchaserFactory, timeout time.Duration, logger *logrus.Logger, out io.Writer) *Shell {
	return &Shell{
		kv:         kv,
		client:     client,
		purchasers: purchasers,
		timeout:    timeout,
		logger:     logger,
		out:        out,
	}
}

func (s *Shell) auth() *services.AuthService {
	return services.NewAuthService(s.client, s.kv, s.logger)
}

func (s *Shell) authedClient(ctx context.Context) *api.Client {
	return s.auth().Client(ctx)
}

func (s *Shell) cart(ctx context.Context) *cart.Store {
	return cart.Load(ctx, s.kv, s.logger)
}

func (s *Shell) table() *tabwriter.Writer {
	return tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
}

// ListEvents prints one page of events.
func (s *Shell) ListEvents(ctx context.Context, filter models.EventFilter) error {
	page, err := services.NewEventService(s.authedClient(ctx)).Browse(ctx, filter)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		fmt.Fprintln(s.out, "No events found.")
		return nil
	}

	tw := s.table()
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tCITY\tFROM")
	for i := range page.Content {
		e := &page.Content[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, utils.TruncateText(e.Name, 40),
			utils.FormatDate(e.DateTime.Time), e.City, utils.FormatCurrency(e.MinPrice()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Page %d of %d\n", page.Number+1, max(page.TotalPages, 1))
	return nil
}

// ShowEvent prints one event with its ticket types.
func (s *Shell) ShowEvent(ctx context.Context, id int64) error {
	event, err := services.NewEventService(s.authedClient(ctx)).Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, event.Name)
	fmt.Fprintln(s.out, utils.FormatDateTime(event.DateTime.Time))
	fmt.Fprintf(s.out, "%s, %s, %s\n", event.Venue, event.Address, event.City)
	if event.Description != "" {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, event.Description)
	}
	fmt.Fprintln(s.out)

	tw := s.table()
	fmt.Fprintln(tw, "CATEGORY\tPRICE")
	for _, tt := range event.TicketTypes {
		fmt.Fprintf(tw, "%s\t%s\n", tt.Category, utils.FormatCurrency(tt.Price))
	}
	return tw.Flush()
}

// ShowCart prints the cart.
func (s *Shell) ShowCart(ctx context.Context) error {
	store := s.cart(ctx)
	c := store.Cart()
	if c.Event == nil {
		fmt.Fprintln(s.out, "Your cart is empty.")
		return nil
	}

	fmt.Fprintf(s.out, "%s (%s)\n", c.Event.Name, utils.FormatDateTime(c.Event.DateTime.Time))
	if len(c.Tickets) == 0 {
		fmt.Fprintln(s.out, "No tickets selected yet.")
		return nil
	}
	tw := s.table()
	fmt.Fprintln(tw, "CATEGORY\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range c.Tickets {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", item.Category, utils.FormatCurrency(item.Price),
			item.Quantity, utils.FormatCurrency(item.Subtotal()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Tickets: %d\nTotal: %s\n", store.TicketCount(), utils.FormatCurrency(store.Total()))
	return nil
}

// SelectEvent starts a cart for event id, dropping any selected tickets.
func (s *Shell) SelectEvent(ctx context.Context, id int64) error {
	event, err := services.NewEventService(s.authedClient(ctx)).Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.cart(ctx).SetEvent(ctx, event); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Selected %s\n", event.Name)
	return nil
}

// AddTicket adds one ticket of category for the selected event.
func (s *Shell) AddTicket(ctx context.Context, category models.TicketCategory) error {
	store := s.cart(ctx)
	event := store.Event()
	if event == nil {
		return models.ErrNoEventSelected
	}
	tt, ok := event.TicketType(category)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownCategory, category)
	}
	if err := store.AddTicket(ctx, tt); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added 1 %s ticket. Total: %s\n", category, utils.FormatCurrency(store.Total()))
	return nil
}

// SetQuantity sets the quantity of category; zero removes it.
func (s *Shell) SetQuantity(ctx context.Context, category models.TicketCategory, quantity int) error {
	store := s.cart(ctx)
	if err := store.UpdateTicketQuantity(ctx, category, quantity); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Total: %s\n", utils.FormatCurrency(store.Total()))
	return nil
}

// RemoveTicket drops category from the cart.
func (s *Shell) RemoveTicket(ctx context.Context, category models.TicketCategory) error {
	store := s.cart(ctx)
	if err := store.RemoveTicket(ctx, category); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Removed %s. Total: %s\n", category, utils.FormatCurrency(store.Total()))
	return nil
}

// ClearCart empties the cart.
func (s *Shell) ClearCart(ctx context.Context) error {
	if err := s.cart(ctx).Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Cart cleared.")
	return nil
}

// Checkout submits the cart. Blank form fields are filled from the saved
// customer info or the signed-in user.
func (s *Shell) Checkout(ctx context.Context, input checkout.Form) error {
	auth := s.auth()
	user, err := auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return models.ErrNotAuthenticated
	}

	store := s.cart(ctx)
	form := checkout.NewForm(user, store.Cart().CustomerInfo)
	if input.CustomerName != "" {
		form.CustomerName = input.CustomerName
	}
	if input.CustomerEmail != "" {
		form.CustomerEmail = input.CustomerEmail
	}
	if input.MobileNumber != "" {
		form.MobileNumber = input.MobileNumber
	}
	if input.PaymentMethod != "" {
		form.PaymentMethod = models.PaymentMethod(strings.ToUpper(string(input.PaymentMethod)))
	}

	flow := checkout.NewFlow(store, s.purchasers(auth.Client(ctx)), s.logger, checkout.WithTimeout(s.timeout))
	out := flow.Submit(ctx, form)

	if !out.Errors.Empty() {
		for _, field := range checkout.Fields() {
			if msg := out.Errors.Get(field.Name); msg != "" {
				fmt.Fprintf(s.out, "%s: %s\n", field.Label, msg)
			}
		}
		if msg := out.Errors.Get("paymentMethod"); msg != "" {
			fmt.Fprintf(s.out, "Payment Method: %s\n", msg)
		}
		return errors.New("checkout form is invalid")
	}
	if out.Notice != nil {
		fmt.Fprintln(s.out, out.Notice.Message)
	}
	if out.State != checkout.StateSuccess {
		return models.ErrPurchaseFailed
	}
	if out.Result != nil && out.Result.TransactionID != "" {
		fmt.Fprintf(s.out, "Transaction: %s\n", out.Result.TransactionID)
	}
	return nil
}

// Login signs in and remembers the token.
func (s *Shell) Login(ctx context.Context, req models.LoginRequest) error {
	if errs := req.Validate(); !errs.Empty() {
		return errs
	}
	user, err := s.auth().Login(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Welcome back, %s!\n", user.FullName())
	return nil
}

// Logout forgets the token.
func (s *Shell) Logout(ctx context.Context) error {
	if err := s.auth().Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Logged out.")
	return nil
}

// WhoAmI prints the signed-in user.
func (s *Shell) WhoAmI(ctx context.Context) error {
	user, err := s.auth().CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Fprintln(s.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(s.out, "%s (%s) <%s>\n", user.FullName(), user.Username, user.Email)
	if user.IsAdmin() {
		fmt.Fprintln(s.out, "Role: ADMIN")
	}
	return nil
}

// Tickets lists purchased tickets.
func (s *Shell) Tickets(ctx context.Context, filter services.TicketFilter) error {
	tickets, err := services.NewTicketService(s.authedClient(ctx)).MyTickets(ctx, filter)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Fprintln(s.out, "No tickets found.")
		return nil
	}

	tw := s.table()
	fmt.Fprintln(tw, "TICKET\tEVENT\tDATE\tCATEGORY\tSTATUS")
	for i := range tickets {
		t := &tickets[i]
		name, date := "-", "-"
		if t.Event != nil {
			name = utils.TruncateText(t.Event.Name, 40)
			date = utils.FormatDate(t.Event.DateTime.Time)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, name, date, t.Category, t.Status())
	}
	return tw.Flush()
}
