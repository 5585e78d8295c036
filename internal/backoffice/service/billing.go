package service

import (
	"context"
	"errors"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/billing"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/pkg/slogx"
)

// BillingConfig binds plans to provider price IDs and shapes checkout
// sessions. An empty price map means the plan cannot be bought.
type BillingConfig struct {
	// PriceIDs maps a plan tag (starter, standard, pro) to the provider's
	// price ID.
	PriceIDs map[string]string

	TrialDays  int64
	SuccessURL string
	CancelURL  string
}

// planForPrice is the reverse lookup used when reconciling subscriptions.
func (c BillingConfig) planForPrice(priceID string) (string, bool) {
	for plan, id := range c.PriceIDs {
		if id == priceID && id != "" {
			return plan, true
		}
	}
	return "", false
}

// BillingService bridges organizations to the billing provider. The
// provider-side customer is created lazily, at most once per user, on the
// first operation that needs it.
type BillingService struct {
	Store  store.Store
	Client billing.Client
	Config BillingConfig
}

// EnsureCustomer returns the user's billing customer reference, creating it
// on first use. Two racing calls may both reach the provider, but only one
// reference ever lands in the database and every caller returns that one.
func (s *BillingService) EnsureCustomer(ctx context.Context, userID string) (string, error) {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return "", unauthorizedOr(err, "account no longer exists")
	}
	if user.BillingCustomerID != "" {
		return user.BillingCustomerID, nil
	}

	customerID, err := s.Client.CreateCustomer(ctx, user.Email, user.Username)
	if err != nil {
		return "", err
	}

	err = s.Store.Users().SetBillingCustomerID(ctx, userID, customerID)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost the race: another request stored a reference first. Use
		// theirs; ours becomes an orphan on the provider side.
		stored, rerr := s.Store.Users().GetByID(ctx, userID)
		if rerr != nil {
			return "", unauthorizedOr(rerr, "account no longer exists")
		}
		if stored.BillingCustomerID == "" {
			return "", apperr.New(apperr.Internal, "billing reference not persisted")
		}
		slogx.FromContext(ctx).Warn("orphaned billing customer after race",
			"user_id", userID, "orphan", customerID)
		return stored.BillingCustomerID, nil
	}
	if err != nil {
		return "", apperr.Wrap(apperr.Unavailable, "store billing reference", err)
	}

	slogx.FromContext(ctx).Info("billing customer created",
		"user_id", userID)
	return customerID, nil
}

// StartCheckout opens a subscription checkout for the given plan and returns
// the provider-hosted URL to redirect the admin to.
func (s *BillingService) StartCheckout(ctx context.Context, rc domain.RequestContext, plan string) (string, error) {
	if err := RequireAdmin(rc); err != nil {
		return "", err
	}

	priceID, ok := s.Config.PriceIDs[plan]
	if !ok || priceID == "" {
		return "", apperr.New(apperr.Validation, "unknown plan")
	}

	customerID, err := s.EnsureCustomer(ctx, rc.UserID)
	if err != nil {
		return "", err
	}

	url, err := s.Client.NewCheckoutSession(ctx, billing.CheckoutParams{
		CustomerID: customerID,
		PriceID:    priceID,
		TrialDays:  s.Config.TrialDays,
		SuccessURL: s.Config.SuccessURL,
		CancelURL:  s.Config.CancelURL,
	})
	if err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("checkout started",
		"org_id", rc.OrgID, "plan", plan)
	return url, nil
}

// SyncSubscription pulls the organization's subscription state from the
// provider and reconciles the stored plan and status. Admin only. Without a
// provider-side customer or subscription there is nothing to reconcile and
// the stored state stands.
func (s *BillingService) SyncSubscription(ctx context.Context, rc domain.RequestContext) (domain.Organization, error) {
	if err := RequireAdmin(rc); err != nil {
		return domain.Organization{}, err
	}

	user, err := s.Store.Users().GetByID(ctx, rc.UserID)
	if err != nil {
		return domain.Organization{}, unauthorizedOr(err, "account no longer exists")
	}

	if user.BillingCustomerID != "" {
		sub, err := s.Client.CurrentSubscription(ctx, user.BillingCustomerID)
		switch {
		case errors.Is(err, billing.ErrNoSubscription):
			// Nothing purchased yet.
		case err != nil:
			return domain.Organization{}, err
		default:
			plan, ok := s.Config.planForPrice(sub.PriceID)
			if !ok {
				// A price we do not sell anymore; keep the stored plan but
				// track the status.
				org, gerr := s.Store.Organizations().GetByID(ctx, rc.OrgID)
				if gerr != nil {
					return domain.Organization{}, apperr.Wrap(apperr.Unavailable, "load organization", gerr)
				}
				plan = org.Plan
			}
			if err := s.Store.Organizations().UpdateSubscription(ctx, rc.OrgID, plan, sub.Status); err != nil {
				return domain.Organization{}, apperr.Wrap(apperr.Unavailable, "update subscription", err)
			}
		}
	}

	org, err := s.Store.Organizations().GetByID(ctx, rc.OrgID)
	if err != nil {
		return domain.Organization{}, apperr.Wrap(apperr.Unavailable, "load organization", err)
	}
	return org, nil
}
