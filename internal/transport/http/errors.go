package httptransport

import (
	"errors"
	"net/http"

	"gold-economy/internal/app/account"
	"gold-economy/internal/economy"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// writeServiceError maps account and economy errors to a status and JSON
// body. Unknown errors are logged and reported as internal_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := economy.CodeOf(err)
	reason := economy.ReasonOf(err)
	switch {
	case errors.Is(err, account.ErrInvalidRequest):
		code = account.ErrInvalidRequest.Error()
	case errors.Is(err, account.ErrUnknownOutcome):
		code = account.ErrUnknownOutcome.Error()
	case errors.Is(err, account.ErrUnknownReward):
		code = account.ErrUnknownReward.Error()
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", chimw.GetReqID(r.Context())).Msg("request failed")
		reason = ""
	}
	metricRejectionsTotal.Add(1)
	WriteHTTPError(w, status, code, reason)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrInvalidRequest),
		errors.Is(err, account.ErrUnknownOutcome),
		errors.Is(err, account.ErrUnknownReward):
		return http.StatusBadRequest
	case errors.Is(err, economy.ErrUnknownPerk),
		errors.Is(err, economy.ErrUnknownAction),
		errors.Is(err, economy.ErrTicketNotFound):
		return http.StatusNotFound
	}
	switch economy.KindOf(err) {
	case economy.KindValidation:
		return http.StatusUnprocessableEntity
	case economy.KindState:
		return http.StatusConflict
	case economy.KindSync:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
