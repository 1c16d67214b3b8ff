package httptransport

import (
	"net/http"

	"gold-economy/internal/app/account"
)

type EconomyHandlers struct {
	svc *account.Service
}

func NewEconomyHandlers(svc *account.Service) *EconomyHandlers {
	return &EconomyHandlers{svc: svc}
}

func (h *EconomyHandlers) State() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.svc.State())
	}
}

func (h *EconomyHandlers) Entitlements() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": h.svc.Entitlements()})
	}
}

func (h *EconomyHandlers) Catalog() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.svc.Catalog())
	}
}

func (h *EconomyHandlers) Transactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, h.svc.Transactions(parseLimit(r)))
	}
}

func (h *EconomyHandlers) EarningLog() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.svc.EarningLog())
	}
}

func (h *EconomyHandlers) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.svc.RecentEvents())
	}
}

func (h *EconomyHandlers) BuyPerk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.BuyPerkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := h.svc.BuyPerk(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *EconomyHandlers) ClaimDaily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.svc.ClaimDaily()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *EconomyHandlers) CheckAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.ActionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := h.svc.CheckAction(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *EconomyHandlers) PerformAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.ActionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := h.svc.PerformAction(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *EconomyHandlers) ClaimTicket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.ClaimTicketRequest
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := h.svc.ClaimTicket(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *EconomyHandlers) StartMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.svc.StartMatch())
	}
}

func (h *EconomyHandlers) FinishMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.FinishMatchRequest
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := h.svc.FinishMatch(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, res)
	}
}

func (h *EconomyHandlers) ConnectWallet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.WalletRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.svc.ConnectWallet(req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *EconomyHandlers) DisconnectWallet() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.svc.DisconnectWallet()
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func (h *EconomyHandlers) MintNFT() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.MintRequest
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := h.svc.MintNFT(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// Sync reports a failed reconciliation as {ok:false, reason} with 502.
func (h *EconomyHandlers) Sync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.svc.Sync(r.Context())
		if err != nil {
			writeJSON(w, statusFor(err), res)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
