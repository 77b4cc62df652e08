package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/threatintel-console/internal/console"
)

type LoginRequest struct {
	APIKey string `json:"api_key"`
}

// Login обрабатывает отправку #auth-form.
func (h *UIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := h.console.Login(r.Context(), req.APIKey); err != nil {
		if errors.Is(err, console.ErrEmptyAPIKey) {
			// Форма просто не отправляется, модальное окно остается
			h.writeJSON(w, http.StatusBadRequest, EventResponse{Error: err.Error()})
			return
		}
		h.failed(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, EventResponse{})
}

func (h *UIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.console.Logout(r.Context()); err != nil {
		h.failed(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, EventResponse{})
}

func (h *UIHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.console.Refresh(r.Context())
	h.ok(w, EventResponse{})
}

// SwitchTab Клик по .nav-item[data-tab].
func (h *UIHandler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	if err := h.console.SwitchTab(r.Context(), tab); err != nil {
		if errors.Is(err, console.ErrUnknownTab) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.failed(w, http.StatusInternalServerError, err)
		return
	}
	h.ok(w, EventResponse{})
}
