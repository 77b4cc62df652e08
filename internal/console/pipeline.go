package console

import (
	"context"
	"errors"
	"time"

	"github.com/xela07ax/threatintel-console/internal/adminapi"
	"github.com/xela07ax/threatintel-console/internal/console/view"
	"go.uber.org/zap"
)

// Refresh выполняет один прогон конвейера: статистика, затем данные текущей вкладки.
// Без ключа ничего не делает. Параллельные прогоны допустимы: каждый
// рендер заменяет свой элемент целиком.
func (c *Controller) Refresh(ctx context.Context) {
	if _, ok := c.session.APIKey(); !ok {
		return
	}

	tab := c.CurrentTab()
	c.metrics.RefreshTotal.WithLabelValues(tab.String()).Inc()

	// 1. Статистика нужна всегда
	stats, err := c.api.GetStats(ctx)
	if err != nil {
		c.disconnect(err)
		return
	}

	c.session.MarkConnected()
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
	c.surface.SetText(view.LastUpdate, c.fmt.Clock(c.now()))
	c.render.Tiles(stats)

	// 2. Данные вкладки
	v := tabViews[tab]
	payload, err := v.fetch(ctx, c.api)
	if err != nil {
		var apiErr *adminapi.APIError
		if errors.As(err, &apiErr) {
			// Статистика прошла, значит связь есть: только сообщаем
			c.metrics.RefreshErrors.WithLabelValues("api").Inc()
			c.toast.Show(apiErr.Message, ToastError)
			return
		}
		c.disconnect(err)
		return
	}

	c.mu.Lock()
	c.lastData[tab] = payload
	c.mu.Unlock()
	v.render(c, stats, payload)
}

// Выборка не удалась: статус "Disconnected" и тост.
func (c *Controller) disconnect(err error) {
	c.metrics.RefreshErrors.WithLabelValues(errorType(err)).Inc()
	if errors.Is(err, adminapi.ErrNoAPIKey) {
		c.session.RequireKey()
	}
	c.session.MarkDisconnected()
	c.logger.Warn("refresh failed", zap.Error(err))
	c.toast.Show("Connection failed: "+err.Error(), ToastError)
}

// startTicker ставит таймер обновления. Повторные вызовы ничего не делают.
func (c *Controller) startTicker() {
	c.tickerOnce.Do(func() {
		c.mu.Lock()
		ctx := c.runCtx
		if ctx == nil {
			ctx, c.stop = context.WithCancel(context.Background())
			c.runCtx = ctx
		}
		c.mu.Unlock()

		c.wg.Add(1)
		go c.tickLoop(ctx)
	})
}

func (c *Controller) tickLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Refresh(ctx)
		}
	}
}

func errorType(err error) string {
	var apiErr *adminapi.APIError
	switch {
	case errors.Is(err, adminapi.ErrNoAPIKey):
		return "no_key"
	case errors.Is(err, adminapi.ErrInvalidAPIKey):
		return "forbidden"
	case errors.As(err, &apiErr):
		return "api"
	default:
		return "transport"
	}
}
