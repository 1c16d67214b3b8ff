package httptransport

import (
	"net/http"
	"time"

	"gold-economy/internal/app/account"
	"gold-economy/internal/store"
)

type AdminHandlers struct {
	svc   *account.Service
	store store.Store
}

func NewAdminHandlers(svc *account.Service, st store.Store) *AdminHandlers {
	return &AdminHandlers{svc: svc, store: st}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store != nil {
			if err := h.store.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "store": "down"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "store": "up"})
	}
}

func (h *AdminHandlers) Airdrop() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.AirdropRequest
		if !decodeBody(w, r, &req) {
			return
		}
		tx, err := h.svc.Airdrop(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "transaction": tx})
	}
}

func (h *AdminHandlers) GrantPerk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.GrantPerkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		item, err := h.svc.GrantPerk(req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "item": item})
	}
}

func (h *AdminHandlers) IssueTicket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.IssueTicketRequest
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := h.svc.IssueTicket(req, time.Now())
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

func (h *AdminHandlers) SetRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.RoleRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.svc.SetRole(req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "role": req.Role})
	}
}
