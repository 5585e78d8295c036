package billing

import (
	"context"
	"errors"
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeClient implements Client against the Stripe API.
type StripeClient struct {
	api *client.API
}

// NewStripeClient builds a client bound to the given secret key. The
// per-instance API client avoids stripe-go's package-level global state.
func NewStripeClient(secretKey string) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api}
}

func (c *StripeClient) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	cust, err := c.api.Customers.New(params)
	if err != nil {
		return "", mapStripeErr("create customer", err)
	}
	return cust.ID, nil
}

func (c *StripeClient) NewCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(p.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	if p.TrialDays > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(p.TrialDays),
		}
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", mapStripeErr("create checkout session", err)
	}
	return sess.URL, nil
}

func (c *StripeClient) CurrentSubscription(ctx context.Context, customerID string) (Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := c.api.Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		out := Subscription{Status: string(sub.Status)}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			out.PriceID = sub.Items.Data[0].Price.ID
		}
		return out, nil
	}
	if err := iter.Err(); err != nil {
		return Subscription{}, mapStripeErr("list subscriptions", err)
	}
	return Subscription{}, ErrNoSubscription
}

// mapStripeErr translates stripe-go errors into apperr kinds so no stripe
// types leak past this package.
func mapStripeErr(op string, err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		switch {
		case sErr.HTTPStatusCode >= http.StatusInternalServerError:
			return apperr.Wrap(apperr.Unavailable, "billing provider unavailable", err)
		case sErr.Type == stripe.ErrorTypeInvalidRequest:
			return apperr.Wrap(apperr.Validation, "billing request rejected", err)
		case sErr.Type == stripe.ErrorType("authentication_error"):
			return apperr.Wrap(apperr.Unavailable, "billing is misconfigured", err)
		}
	}
	return apperr.Wrap(apperr.Internal, "billing "+op+" failed", err)
}
