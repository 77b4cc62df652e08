package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xela07ax/threatintel-console/internal/console"
	"github.com/xela07ax/threatintel-console/internal/console/dom"
	"github.com/xela07ax/threatintel-console/internal/domain"
	"go.uber.org/zap"
)

// Console Описываем, что нам нужно от контроллера консоли
type Console interface {
	Login(ctx context.Context, raw string) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context)
	SwitchTab(ctx context.Context, id string) error

	DeactivateCustomer(ctx context.Context, email string, confirm console.Confirmer) error
	RotateKey(ctx context.Context, email string, confirm console.Confirmer) error
	DeleteCustomer(ctx context.Context, email string, confirm console.Confirmer) error
	DeleteTestKey(ctx context.Context, email string, confirm console.Confirmer) error
	CreateTestKey(ctx context.Context, req domain.CreateTestKeyRequest) (string, error)
	Copy(target string) (string, error)
}

// Document Источник снимка страницы.
type Document interface {
	Snapshot() dom.Snapshot
	Version() uint64
}

// EventResponse — ответ на любое событие оператора. Снимок документа
// прикладывается, чтобы оболочка не ждала следующего опроса.
type EventResponse struct {
	Snapshot *dom.Snapshot `json:"snapshot,omitempty"`
	Prompt   string        `json:"prompt,omitempty"`
	Error    string        `json:"error,omitempty"`
	Text     string        `json:"text,omitempty"`
}

type UIHandler struct {
	console Console
	doc     Document
	logger  *zap.Logger
}

func NewUIHandler(c Console, doc Document, logger *zap.Logger) *UIHandler {
	return &UIHandler{console: c, doc: doc, logger: logger.Named("ui")}
}

// Тело мутирующих запросов.
type confirmation struct {
	Confirmed bool `json:"confirmed"`
}

// requestConfirmer отвечает на вопрос контроллера тем, что прислала
// оболочка, и запоминает сам вопрос для ответа 409.
type requestConfirmer struct {
	confirmed bool
	prompt    string
}

func (c *requestConfirmer) Confirm(_ context.Context, prompt string) bool {
	c.prompt = prompt
	return c.confirmed
}

// decodeBody разбирает JSON; пустое тело допустимо.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *UIHandler) writeJSON(w http.ResponseWriter, status int, resp EventResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Debug("failed to write response", zap.Error(err))
	}
}

func (h *UIHandler) ok(w http.ResponseWriter, resp EventResponse) {
	snap := h.doc.Snapshot()
	resp.Snapshot = &snap
	h.writeJSON(w, http.StatusOK, resp)
}

// Действие не удалось: тост уже в документе, снимок прикладываем
func (h *UIHandler) failed(w http.ResponseWriter, status int, err error) {
	snap := h.doc.Snapshot()
	h.writeJSON(w, status, EventResponse{Snapshot: &snap, Error: err.Error()})
}
