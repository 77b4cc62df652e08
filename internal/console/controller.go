// Package console содержит контроллер консоли оператора: сессия, вкладки,
// конвейер обновления, отрисовка и действия над клиентами.
//
// Контроллер ничего не знает о браузере: он рисует в view.Surface,
// а HTTP-оболочка (пакет server) переносит документ на страницу.
package console

import (
	"context"
	"sync"
	"time"

	"github.com/xela07ax/threatintel-console/internal/console/view"
	"github.com/xela07ax/threatintel-console/internal/domain"
	"go.uber.org/zap"
)

// API — операции административного API, которые нужны консоли.
// Реализуется *adminapi.Client.
type API interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
	GetCustomers(ctx context.Context) ([]domain.Customer, error)
	GetTestKeys(ctx context.Context) ([]domain.TestKey, error)
	GetCapacity(ctx context.Context) (*domain.Capacity, error)
	GetAuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error)
	CreateTestKey(ctx context.Context, req domain.CreateTestKeyRequest) (*domain.CreateTestKeyResponse, error)
	DeleteTestKey(ctx context.Context, email string) error
	DeactivateCustomer(ctx context.Context, email string) error
	DeleteCustomer(ctx context.Context, email string) error
	RotateKey(ctx context.Context, email string) error
}

// Clipboard Системный буфер обмена (best-effort).
type Clipboard interface {
	WriteAll(text string) error
}

type Options struct {
	RefreshInterval time.Duration
	ToastDuration   time.Duration
	Location        *time.Location
	// Без Clipboard копирует только браузер
	Clipboard Clipboard
	Metrics   *Metrics
	Logger    *zap.Logger
	// Now подменяется в тестах
	Now func() time.Time
}

type Controller struct {
	api       API
	session   *Session
	surface   view.Surface
	render    *renderer
	charts    *charts
	toast     *toaster
	fmt       *formatter
	clipboard Clipboard
	metrics   *Metrics
	logger    *zap.Logger
	now       func() time.Time
	interval  time.Duration

	mu       sync.Mutex
	tab      Tab
	lastData map[Tab]any
	stats    *domain.Stats

	// Таймер обновления ставится один раз и живет до Close
	tickerOnce sync.Once
	runCtx     context.Context
	stop       context.CancelFunc
	wg         sync.WaitGroup
}

func New(api API, session *Session, surface view.Surface, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 5 * time.Second
	}
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 3 * time.Second
	}

	logger := opts.Logger.Named("console")
	f := newFormatter(opts.Location)

	c := &Controller{
		api:       api,
		session:   session,
		surface:   surface,
		render:    &renderer{surface: surface, fmt: f, logger: logger},
		charts:    newCharts(surface),
		toast:     newToaster(surface, opts.ToastDuration),
		fmt:       f,
		clipboard: opts.Clipboard,
		metrics:   opts.Metrics,
		logger:    logger,
		now:       opts.Now,
		interval:  opts.RefreshInterval,
		tab:       TabDashboard,
		lastData:  make(map[Tab]any),
	}

	session.onConnected = func(connected bool) {
		if connected {
			c.metrics.Connected.Set(1)
		} else {
			c.metrics.Connected.Set(0)
		}
	}
	return c
}

// Boot отрабатывает загрузку страницы: умолчания графиков, ключ из хранилища и,
// если он есть, первое обновление и таймер. ctx живет, пока жив процесс.
func (c *Controller) Boot(ctx context.Context) error {
	c.mu.Lock()
	c.runCtx, c.stop = context.WithCancel(ctx)
	c.mu.Unlock()

	c.surface.ConfigureCharts(ChartDefaults)

	err := c.session.Restore(ctx)
	if err != nil {
		c.logger.Warn("key store unavailable, starting unauthenticated", zap.Error(err))
	}
	if _, ok := c.session.APIKey(); !ok {
		return err
	}

	c.Refresh(ctx)
	c.startTicker()
	return err
}

// Login принимает ключ из формы.
func (c *Controller) Login(ctx context.Context, raw string) error {
	if err := c.session.Authenticate(ctx, raw); err != nil {
		return err
	}
	c.Refresh(ctx)
	c.startTicker()
	return nil
}

// Logout по кнопке выхода. Таймер продолжает тикать вхолостую.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.session.Logout(ctx)
	if err != nil {
		c.logger.Error("failed to clear api key", zap.Error(err))
	}
	return err
}

func (c *Controller) Session() *Session { return c.session }

// LastData — последний успешный ответ для вкладки.
func (c *Controller) LastData(tab Tab) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lastData[tab]
	return v, ok
}

func (c *Controller) LastStats() (*domain.Stats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats, c.stats != nil
}

// Close останавливает таймер и ждет текущий тик.
func (c *Controller) Close() {
	c.mu.Lock()
	stop := c.stop
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
	c.wg.Wait()
	c.toast.Stop()
}
