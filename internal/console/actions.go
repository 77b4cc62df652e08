package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/xela07ax/threatintel-console/internal/adminapi"
	"github.com/xela07ax/threatintel-console/internal/console/view"
	"github.com/xela07ax/threatintel-console/internal/domain"
	"go.uber.org/zap"
)

// Confirmer задает оператору вопрос перед необратимым действием.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc позволяет передать функцию как Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Тексты подтверждений
const (
	deactivatePrompt     = "Deactivate %s?"
	deleteTestKeyPrompt  = "Delete key for %s?"
	deleteCustomerPrompt = "SEI SICURO?\n\nStai per eliminare DEFINITIVAMENTE l'utente %s.\nQuesta azione è irreversibile.\n\nProcedere?"
	rotateKeyPrompt      = "Warning: This will DELETE the old key for %s and email them a NEW one.\nThe old key stops working immediately and cannot be restored.\n\nContinue?"
)

// Вопросы, которые увидит оператор.
func DeactivatePrompt(email string) string     { return fmt.Sprintf(deactivatePrompt, email) }
func DeleteTestKeyPrompt(email string) string  { return fmt.Sprintf(deleteTestKeyPrompt, email) }
func DeleteCustomerPrompt(email string) string { return fmt.Sprintf(deleteCustomerPrompt, email) }
func RotateKeyPrompt(email string) string      { return fmt.Sprintf(rotateKeyPrompt, email) }

// mutation — общий протокол действия:
// подтверждение -> вызов -> тост + одно обновление, либо тост ошибки.
type mutation struct {
	name    string
	prompt  string
	pending string // info-тост перед вызовом, если нужен
	success string
	call    func(ctx context.Context) error
}

func (c *Controller) run(ctx context.Context, confirm Confirmer, m mutation) error {
	// 1. Подтверждение
	if m.prompt != "" && (confirm == nil || !confirm.Confirm(ctx, m.prompt)) {
		c.metrics.ActionTotal.WithLabelValues(m.name, "declined").Inc()
		return ErrDeclined
	}

	// 2. Вызов API
	if m.pending != "" {
		c.toast.Show(m.pending, ToastInfo)
	}
	if err := m.call(ctx); err != nil {
		c.fail(m.name, err)
		return err
	}

	// 3. Успех
	c.metrics.ActionTotal.WithLabelValues(m.name, "ok").Inc()
	c.logger.Info("action completed", zap.String("action", m.name))
	c.toast.Show(m.success, ToastSuccess)
	c.Refresh(ctx)
	return nil
}

func (c *Controller) fail(action string, err error) {
	c.metrics.ActionTotal.WithLabelValues(action, "error").Inc()
	c.logger.Warn("action failed", zap.String("action", action), zap.Error(err))
	if errors.Is(err, adminapi.ErrNoAPIKey) {
		c.session.RequireKey()
	}
	c.toast.Show(err.Error(), ToastError)
}

// DeactivateCustomer: кнопка 🛑 в таблице клиентов.
func (c *Controller) DeactivateCustomer(ctx context.Context, email string, confirm Confirmer) error {
	return c.run(ctx, confirm, mutation{
		name:    "deactivate",
		prompt:  DeactivatePrompt(email),
		success: "Customer deactivated",
		call:    func(ctx context.Context) error { return c.api.DeactivateCustomer(ctx, email) },
	})
}

// RotateKey удаляет старый ключ клиента и отправляет новый на почту.
func (c *Controller) RotateKey(ctx context.Context, email string, confirm Confirmer) error {
	return c.run(ctx, confirm, mutation{
		name:    "rotate-key",
		prompt:  RotateKeyPrompt(email),
		pending: "Rotating key...",
		success: "New key sent via email",
		call:    func(ctx context.Context) error { return c.api.RotateKey(ctx, email) },
	})
}

// DeleteCustomer удаляет клиента без возможности восстановления.
func (c *Controller) DeleteCustomer(ctx context.Context, email string, confirm Confirmer) error {
	return c.run(ctx, confirm, mutation{
		name:    "delete-customer",
		prompt:  DeleteCustomerPrompt(email),
		success: "Utente eliminato correttamente",
		call:    func(ctx context.Context) error { return c.api.DeleteCustomer(ctx, email) },
	})
}

func (c *Controller) DeleteTestKey(ctx context.Context, email string, confirm Confirmer) error {
	return c.run(ctx, confirm, mutation{
		name:    "delete-test-key",
		prompt:  DeleteTestKeyPrompt(email),
		success: "Key deleted",
		call:    func(ctx context.Context) error { return c.api.DeleteTestKey(ctx, email) },
	})
}

// CreateTestKey создает тестовый ключ из формы. Подтверждение не нужно.
// Ключ показывается один раз в #new-key-value.
func (c *Controller) CreateTestKey(ctx context.Context, req domain.CreateTestKeyRequest) (string, error) {
	res, err := c.api.CreateTestKey(ctx, req)
	if err != nil {
		c.fail("create-test-key", err)
		return "", err
	}

	c.metrics.ActionTotal.WithLabelValues("create-test-key", "ok").Inc()
	c.surface.SetText(view.NewKeyValue, res.APIKey)
	c.surface.ToggleClass(view.NewKeyResult, view.Hidden, false)
	c.toast.Show("Test key created", ToastSuccess)
	c.Refresh(ctx)
	c.surface.ResetForm(view.CreateKeyForm)
	return res.APIKey, nil
}

// Copy читает текст элемента #target и кладет его в буфер обмена.
// Ошибка буфера не мешает: текст возвращается оболочке страницы.
func (c *Controller) Copy(target string) (string, error) {
	if target == "" {
		return "", ErrNoCopyTarget
	}

	text := c.surface.Text(view.ByID(target))
	if c.clipboard != nil {
		if err := c.clipboard.WriteAll(text); err != nil {
			c.logger.Debug("clipboard write failed", zap.Error(err))
		}
	}
	c.toast.Show("Copied to clipboard", ToastSuccess)
	return text, nil
}

// Toast показывает уведомление от имени консоли (например, ошибка ввода ключа).
func (c *Controller) Toast(msg string, kind ToastKind) {
	c.toast.Show(msg, kind)
}
