package console

import (
	"sync"

	"github.com/xela07ax/threatintel-console/internal/console/view"
	"github.com/xela07ax/threatintel-console/internal/domain"
)

const (
	colorGreen  = "#00ff9d"
	colorAmber  = "#fbbf24"
	colorRed    = "#ef4444"
	colorSky    = "#38bdf8"
	colorIndigo = "#818cf8"
	colorTrack  = "#1f2732"

	// Выше этого процента занятая доля краснеет
	capacityAlert = 80
)

// ChartDefaults — глобальные умолчания, выставляются при загрузке.
var ChartDefaults = view.ChartDefaults{
	Color:      "#94a3b8",
	FontFamily: "'Inter', sans-serif",
}

// charts держит пять графиков дашборда. Создаются все сразу при первом
// обращении, если хотя бы одного нет.
type charts struct {
	mu      sync.Mutex
	surface view.Surface

	traffic  view.Chart
	latency  view.Chart
	status   view.Chart
	customer view.Chart
	capacity view.Chart
}

func newCharts(surface view.Surface) *charts {
	return &charts{surface: surface}
}

// ensure вызывать под mu.
func (c *charts) ensure() {
	if c.traffic != nil && c.latency != nil && c.status != nil && c.customer != nil && c.capacity != nil {
		return
	}

	noBorder := 0
	tooltipsOff := false

	c.traffic = c.surface.BindChart(view.TrafficCanvas, view.ChartConfig{
		Type:   view.ChartLine,
		Legend: "none",
		YTitle: "Reqs",
		Datasets: []view.Dataset{{
			Label:           "Requests",
			BorderColor:     colorGreen,
			BackgroundColor: []string{"rgba(0, 255, 157, 0.1)"},
			Fill:            true,
			Tension:         0.4,
		}},
	})

	c.latency = c.surface.BindChart(view.LatencyCanvas, view.ChartConfig{
		Type:   view.ChartLine,
		Legend: "none",
		YTitle: "ms",
		Datasets: []view.Dataset{{
			Label:           "Avg Latency (ms)",
			BorderColor:     colorAmber,
			BackgroundColor: []string{"rgba(251, 191, 36, 0.1)"},
			Fill:            true,
			Tension:         0.4,
			BorderDash:      []int{5, 5},
		}},
	})

	c.status = c.surface.BindChart(view.StatusCanvas, view.ChartConfig{
		Type:   view.ChartDoughnut,
		Labels: []string{"2xx OK", "4xx Client", "5xx Server"},
		Cutout: "70%",
		Legend: "right",
		Datasets: []view.Dataset{{
			Data:            []float64{0, 0, 0},
			BackgroundColor: []string{colorGreen, colorAmber, colorRed},
			BorderWidth:     &noBorder,
		}},
	})

	c.customer = c.surface.BindChart(view.CustomerCanvas, view.ChartConfig{
		Type:   view.ChartDoughnut,
		Labels: []string{"Startup", "Business"},
		Cutout: "70%",
		Legend: "right",
		Datasets: []view.Dataset{{
			Data:            []float64{0, 0},
			BackgroundColor: []string{colorSky, colorIndigo},
			BorderWidth:     &noBorder,
		}},
	})

	c.capacity = c.surface.BindChart(view.CapacityCanvas, view.ChartConfig{
		Type:     view.ChartDoughnut,
		Labels:   []string{"Used", "Available"},
		Cutout:   "80%",
		Legend:   "none",
		Tooltips: &tooltipsOff,
		Datasets: []view.Dataset{{
			Data:            []float64{0, 100},
			BackgroundColor: []string{colorRed, colorTrack},
			BorderWidth:     &noBorder,
		}},
	})
}

// UpdateStats переносит историю трафика и разбивку по тарифам на графики.
func (c *charts) UpdateStats(stats *domain.Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure()

	labels := make([]string, len(stats.TrafficHistory))
	counts := make([]float64, len(stats.TrafficHistory))
	latency := make([]float64, len(stats.TrafficHistory))
	var ok, clientErr, serverErr float64
	for i, p := range stats.TrafficHistory {
		labels[i] = p.Time
		counts[i] = p.Count
		latency[i] = p.Latency
		ok += p.Status.OK
		clientErr += p.Status.ClientError
		serverErr += p.Status.ServerError
	}

	if c.traffic != nil && c.latency != nil {
		c.traffic.SetLabels(labels)
		c.traffic.SetData(0, counts)
		c.traffic.Update()

		c.latency.SetLabels(labels)
		c.latency.SetData(0, latency)
		c.latency.Update()

		if c.status != nil {
			c.status.SetData(0, []float64{ok, clientErr, serverErr})
			c.status.Update()
		}
	}

	if c.customer != nil {
		c.customer.SetData(0, []float64{
			float64(stats.Customers.ByTier.Startup),
			float64(stats.Customers.ByTier.Business),
		})
		c.customer.Update()
	}
}

// UpdateCapacity рисует занятость: [used, 100-used], красный выше порога.
func (c *charts) UpdateCapacity(capacity *domain.Capacity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensure()

	if c.capacity == nil {
		return
	}
	used := capacity.Utilization.TotalPercent
	c.capacity.SetData(0, []float64{used, 100 - used})
	c.capacity.SetColors(0, CapacityColors(used))
	c.capacity.Update()
}

// CapacityColors цвета долей графика занятости
func CapacityColors(used float64) []string {
	if used > capacityAlert {
		return []string{colorRed, colorTrack}
	}
	return []string{colorGreen, colorTrack}
}
