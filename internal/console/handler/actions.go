package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/xela07ax/threatintel-console/internal/console"
	"github.com/xela07ax/threatintel-console/internal/domain"
	"go.uber.org/zap"
)

type confirmedAction func(ctx context.Context, email string, confirm console.Confirmer) error

// emailParam достает email из пути. chi отдает сырой сегмент, если
// в запросе был %40, поэтому раскодируем сами.
func emailParam(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "email"))
}

// mutate — общий путь для действий с подтверждением:
// без {"confirmed":true} отвечаем 409 и текстом вопроса.
func (h *UIHandler) mutate(action confirmedAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := emailParam(r)
		if err != nil || email == "" {
			http.Error(w, "email is required", http.StatusBadRequest)
			return
		}

		var body confirmation
		if err := decodeBody(r, &body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		confirm := &requestConfirmer{confirmed: body.Confirmed}
		err = action(r.Context(), email, confirm)
		switch {
		case err == nil:
			h.ok(w, EventResponse{})
		case errors.Is(err, console.ErrDeclined):
			h.writeJSON(w, http.StatusConflict, EventResponse{Prompt: confirm.prompt})
		default:
			h.logger.Info("action failed", zap.String("email", email), zap.Error(err))
			h.failed(w, http.StatusBadGateway, err)
		}
	}
}

func (h *UIHandler) DeactivateCustomer() http.HandlerFunc { return h.mutate(h.console.DeactivateCustomer) }
func (h *UIHandler) RotateKey() http.HandlerFunc          { return h.mutate(h.console.RotateKey) }
func (h *UIHandler) DeleteCustomer() http.HandlerFunc     { return h.mutate(h.console.DeleteCustomer) }
func (h *UIHandler) DeleteTestKey() http.HandlerFunc      { return h.mutate(h.console.DeleteTestKey) }

// CreateTestKey принимает форму #create-key-form: email, tier, note.
func (h *UIHandler) CreateTestKey(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTestKeyRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if _, err := h.console.CreateTestKey(r.Context(), req); err != nil {
		h.failed(w, http.StatusBadGateway, err)
		return
	}
	h.ok(w, EventResponse{})
}

// Copy обслуживает .copy-btn[data-target]. Текст возвращается, чтобы браузер тоже
// положил его в свой буфер обмена.
func (h *UIHandler) Copy(w http.ResponseWriter, r *http.Request) {
	text, err := h.console.Copy(chi.URLParam(r, "target"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.ok(w, EventResponse{Text: text})
}
