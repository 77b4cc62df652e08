package console

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/xela07ax/threatintel-console/internal/console/view"
	"github.com/xela07ax/threatintel-console/internal/domain"
	"go.uber.org/zap"
)

// Сколько символов key_hash показываем в таблице
const hashPrefixLen = 8

// renderer — чистые функции "данные -> поверхность". Тела таблиц
// заменяются целиком.
type renderer struct {
	surface view.Surface
	fmt     *formatter
	logger  *zap.Logger
}

// Tiles рисует шапку дашборда: запросы, клиенты, выручка, нагрузка.
func (r *renderer) Tiles(stats *domain.Stats) {
	r.surface.SetText(view.StatTotalReq, r.fmt.Count(stats.System.Redis.TotalCommandsProcessed))
	r.surface.SetText(view.StatActiveUsers, strconv.FormatInt(stats.Customers.Active, 10))
	r.surface.SetText(view.StatRevenue, r.fmt.Currency(stats.Customers.Revenue))

	sys := stats.System
	r.execute(view.StatSystemLoad, systemLoadTmpl, map[string]string{
		"CPU":       plain(sys.CPU.UsagePercent),
		"RAMUsed":   plain(sys.RAM.UsedGB),
		"RAMTotal":  plain(sys.RAM.TotalGB),
		"DiskUsed":  plain(sys.Disk.UsedGB),
		"DiskTotal": plain(sys.Disk.TotalGB),
	})
}

type customerRow struct {
	Email     string
	Hash      string
	Tier      domain.Tier
	Active    bool
	Usage     string
	Limit     string
	Width     string
	CreatedAt string
}

func (r *renderer) Customers(customers []domain.Customer) {
	rows := make([]customerRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, customerRow{
			Email:     c.Email,
			Hash:      hashPrefix(c.KeyHash),
			Tier:      c.Tier,
			Active:    c.Active,
			Usage:     plain(c.UsageToday),
			Limit:     plain(c.Limit),
			Width:     plain(UsagePercent(c.UsageToday, c.Limit)),
			CreatedAt: r.fmt.Date(c.CreatedAt),
		})
	}
	r.execute(view.CustomersBody, customersTmpl, rows)
}

type testKeyRow struct {
	Email     string
	Tier      domain.Tier
	Note      string
	CreatedAt string
}

func (r *renderer) TestKeys(keys []domain.TestKey) {
	rows := make([]testKeyRow, 0, len(keys))
	for _, k := range keys {
		note := k.Note
		if note == "" {
			note = "-"
		}
		rows = append(rows, testKeyRow{
			Email:     k.Email,
			Tier:      k.Tier,
			Note:      note,
			CreatedAt: r.fmt.Date(k.CreatedAt),
		})
	}
	r.execute(view.TestKeysBody, testKeysTmpl, rows)
}

type auditRow struct {
	Time    string
	Action  string
	Details string
	Status  domain.AuditStatus
	Badge   string
}

func (r *renderer) AuditLogs(logs []domain.AuditLogEntry) {
	if len(logs) == 0 {
		r.surface.SetHTML(view.AuditBody, emptyAuditRow)
		return
	}

	rows := make([]auditRow, 0, len(logs))
	for _, l := range logs {
		// Бейдж берет цвета тарифов: зеленый для успеха, фиолетовый для остального
		badge := string(domain.TierBusiness)
		if l.Status == domain.AuditSuccess {
			badge = string(domain.TierStartup)
		}
		rows = append(rows, auditRow{
			Time:    r.fmt.Date(l.Time),
			Action:  l.Action,
			Details: l.Details,
			Status:  l.Status,
			Badge:   badge,
		})
	}
	r.execute(view.AuditBody, auditTmpl, rows)
}

type capacityRow struct {
	Name    string
	Current int64
	Limit   int64
}

func (r *renderer) Capacity(capacity *domain.Capacity) {
	r.execute(view.LimitsList, capacityTmpl, []capacityRow{
		{Name: "Total Capacity", Current: capacity.Current.Total, Limit: capacity.Limits.Total},
		{Name: "Startup Tier", Current: capacity.Current.Startup, Limit: capacity.Limits.Startup},
		{Name: "Business Tier", Current: capacity.Current.Business, Limit: capacity.Limits.Business},
	})
}

func (r *renderer) execute(sel string, tmpl *template.Template, data any) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		r.logger.Error("render failed", zap.String("selector", sel), zap.Error(err))
		return
	}
	r.surface.SetHTML(sel, b.String())
}

func hashPrefix(hash string) string {
	if len(hash) > hashPrefixLen {
		return hash[:hashPrefixLen]
	}
	return hash
}
