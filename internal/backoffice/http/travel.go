package http

import (
	"net/http"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/pkg/crewsdk"
	"github.com/crewdesk/crewdesk/pkg/httpx"
)

// TravelTimeHandler serves GET /travel-time?from=...&to=...: a drive-time
// estimate between two postcodes.
type TravelTimeHandler struct {
	Estimator service.TravelEstimator
}

func (h *TravelTimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustRequestContext(w, r); !ok {
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	d, err := h.Estimator.Estimate(from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, crewsdk.TravelTimeResponse{
		From:    from,
		To:      to,
		Minutes: int(d / time.Minute),
	})
}
