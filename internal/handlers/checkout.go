package handlers

import (
	"errors"
	"net/http"

	"event-storefront/internal/checkout"
	"event-storefront/internal/metrics"
	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/validation"

	"github.com/sirupsen/logrus"
)

// CheckoutHandler runs the checkout page and the purchase submit
type CheckoutHandler struct {
	*Base
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(base *Base) *CheckoutHandler {
	return &CheckoutHandler{Base: base}
}

type checkoutView struct {
	Fields         []checkout.FieldConfig
	PaymentMethods []models.PaymentMethod
	Form           checkout.Form
	Errors         validation.FieldErrors
	Notice         *checkout.Notice
	Cart           cartView
}

// CheckoutPage shows the customer form next to the order summary. An empty
// cart has nothing to check out, so the shopper goes back to the events.
func (h *CheckoutHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	store := h.cartStore(r)
	if store.IsEmpty() {
		h.redirect(w, r, checkout.RedirectEmptyCart)
		return
	}

	c := store.Cart()
	form := checkout.NewForm(middleware.GetUserFromContext(r.Context()), c.CustomerInfo)
	h.renderCheckout(w, r, http.StatusOK, checkoutView{
		Form:   form,
		Errors: validation.FieldErrors{},
		Cart:   newCartView(store, middleware.GetCSRFToken(r.Context())),
	})
}

// Submit validates the form and purchases the cart. One submission per
// device may be in flight at a time.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	form := checkout.Form{
		CustomerName:  r.FormValue("customerName"),
		CustomerEmail: r.FormValue("customerEmail"),
		MobileNumber:  r.FormValue("mobileNumber"),
		PaymentMethod: models.PaymentMethod(r.FormValue("paymentMethod")),
	}

	csrf := middleware.GetCSRFToken(r.Context())

	key := deviceKey(r)
	release, err := h.Guard.Acquire(key)
	if errors.Is(err, checkout.ErrSubmitInProgress) {
		metrics.CheckoutOutcomes.WithLabelValues(metrics.OutcomeInFlight).Inc()
		h.renderCheckout(w, r, http.StatusConflict, checkoutView{
			Form:   form,
			Errors: validation.FieldErrors{},
			Notice: &checkout.Notice{Level: checkout.NoticeInfo, Message: checkout.MsgAlreadyRunning},
			Cart:   newCartView(h.cartStore(r), csrf),
		})
		return
	}
	defer release()

	// cart changes wait until the purchase settles
	store, unlock := h.lockCart(r)
	defer unlock()

	log := h.log(r).WithField("device_id", key)
	flow := checkout.NewFlow(store, h.Purchasers(h.apiClient(r)), h.Logger,
		checkout.WithTimeout(h.PurchaseTimeout),
		checkout.WithObserver(func(from, to checkout.State) {
			log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Debug("checkout: state change")
		}),
	)
	out := flow.Submit(r.Context(), form)

	switch {
	case out.State == checkout.StateSuccess:
		metrics.CheckoutOutcomes.WithLabelValues(metrics.OutcomeSuccess).Inc()
		h.flash(w, r, string(out.Notice.Level), out.Notice.Message)
		h.redirect(w, r, out.Redirect)

	case out.Redirect != "":
		metrics.CheckoutOutcomes.WithLabelValues(metrics.OutcomeEmpty).Inc()
		h.flash(w, r, string(out.Notice.Level), out.Notice.Message)
		h.redirect(w, r, out.Redirect)

	case !out.Errors.Empty():
		metrics.CheckoutOutcomes.WithLabelValues(metrics.OutcomeInvalid).Inc()
		h.renderCheckout(w, r, http.StatusUnprocessableEntity, checkoutView{
			Form:   out.Form,
			Errors: out.Errors,
			Cart:   newCartView(store, csrf),
		})

	default:
		metrics.CheckoutOutcomes.WithLabelValues(metrics.OutcomeFailure).Inc()
		h.renderCheckout(w, r, http.StatusOK, checkoutView{
			Form:   out.Form,
			Errors: validation.FieldErrors{},
			Notice: out.Notice,
			Cart:   newCartView(store, csrf),
		})
	}
}

func (h *CheckoutHandler) renderCheckout(w http.ResponseWriter, r *http.Request, status int, view checkoutView) {
	view.Fields = checkout.Fields()
	view.PaymentMethods = models.PaymentMethods
	if view.Form.PaymentMethod == "" {
		view.Form.PaymentMethod = models.DefaultPaymentMethod
	}
	h.render(w, r, status, "checkout", "Checkout", view)
}
