package console

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: прогоны конвейера обновления по вкладкам
	RefreshTotal *prometheus.CounterVec

	// Errors: классификация отказов при обновлении
	RefreshErrors *prometheus.CounterVec

	// Действия оператора и их исход
	ActionTotal *prometheus.CounterVec

	// Saturation: есть ли связь с API (0 - нет, 1 - да)
	Connected prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RefreshTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_refresh_total",
			Help: "Total number of refresh pipeline runs.",
		}, []string{"tab"}),

		RefreshErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_refresh_errors_total",
			Help: "Total number of failed refreshes by type.",
		}, []string{"type"}), // типы: transport, forbidden, api, no_key

		ActionTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "console_actions_total",
			Help: "Operator actions by result.",
		}, []string{"action", "result"}), // ok, error, declined

		Connected: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "console_connected",
			Help: "Whether the last stats fetch succeeded (1) or not (0).",
		}),
	}
}
