package http

import (
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/pkg/crewsdk"
	"github.com/crewdesk/crewdesk/pkg/httpx"
)

// CheckoutHandler serves POST /billing/checkout: returns the provider-hosted
// checkout URL for the requested plan.
type CheckoutHandler struct {
	BillingService *service.BillingService
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}

	var req crewsdk.CheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	url, err := h.BillingService.StartCheckout(r.Context(), rc, req.Plan)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, crewsdk.CheckoutResponse{URL: url})
}

// BillingSyncHandler serves POST /billing/sync: reconciles the stored plan
// and subscription status with the billing provider.
type BillingSyncHandler struct {
	BillingService *service.BillingService
}

func (h *BillingSyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc, ok := mustRequestContext(w, r)
	if !ok {
		return
	}

	org, err := h.BillingService.SyncSubscription(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrganization(org))
}
