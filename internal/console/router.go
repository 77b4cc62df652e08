package console

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xela07ax/threatintel-console/internal/console/view"
	"github.com/xela07ax/threatintel-console/internal/domain"
)

// Tab — вкладка консоли. Каждая несет свою пару "выборка + отрисовка".
type Tab int

const (
	TabDashboard Tab = iota
	TabCustomers
	TabTestKeys
	TabAudit
)

// tabView связывает вкладку с ее данными.
type tabView struct {
	id string
	// fetch забирает данные вкладки; статистика к этому моменту уже есть
	fetch  func(ctx context.Context, api API) (any, error)
	render func(c *Controller, stats *domain.Stats, payload any)
}

var tabViews = [...]tabView{
	TabDashboard: {
		id: "dashboard",
		fetch: func(ctx context.Context, api API) (any, error) {
			return api.GetCapacity(ctx)
		},
		render: func(c *Controller, stats *domain.Stats, payload any) {
			c.charts.UpdateStats(stats)
			capacity := payload.(*domain.Capacity)
			c.render.Capacity(capacity)
			c.charts.UpdateCapacity(capacity)
		},
	},
	TabCustomers: {
		id: "customers",
		fetch: func(ctx context.Context, api API) (any, error) {
			return api.GetCustomers(ctx)
		},
		render: func(c *Controller, _ *domain.Stats, payload any) {
			c.render.Customers(payload.([]domain.Customer))
		},
	},
	TabTestKeys: {
		id: "test-keys",
		fetch: func(ctx context.Context, api API) (any, error) {
			return api.GetTestKeys(ctx)
		},
		render: func(c *Controller, _ *domain.Stats, payload any) {
			c.render.TestKeys(payload.([]domain.TestKey))
		},
	},
	TabAudit: {
		id: "audit",
		fetch: func(ctx context.Context, api API) (any, error) {
			return api.GetAuditLogs(ctx)
		},
		render: func(c *Controller, _ *domain.Stats, payload any) {
			c.render.AuditLogs(payload.([]domain.AuditLogEntry))
		},
	},
}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabViews) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabViews[t].id
}

// Title строит заголовок страницы: первая буква заглавная, остальное как есть.
func (t Tab) Title() string {
	id := t.String()
	r, size := utf8.DecodeRuneInString(id)
	return string(unicode.ToUpper(r)) + id[size:]
}

// ParseTab разбирает значение data-tab.
func ParseTab(id string) (Tab, error) {
	for i, v := range tabViews {
		if v.id == id {
			return Tab(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTab, strings.TrimSpace(id))
}

// TabIDs — все data-tab в порядке меню.
func TabIDs() []string {
	ids := make([]string, len(tabViews))
	for i, v := range tabViews {
		ids[i] = v.id
	}
	return ids
}

func (c *Controller) CurrentTab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// SwitchTab переключает меню и панели и сразу обновляет данные.
func (c *Controller) SwitchTab(ctx context.Context, id string) error {
	tab, err := ParseTab(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.tab = tab
	for _, other := range TabIDs() {
		c.surface.ToggleClass(view.NavItem(other), view.Active, other == id)
		c.surface.ToggleClass(view.Panel(other), view.Active, other == id)
	}
	c.surface.SetText(view.PageTitle, tab.Title())
	c.mu.Unlock()

	c.Refresh(ctx)
	return nil
}
