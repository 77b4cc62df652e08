package dom

import (
	"slices"

	"github.com/xela07ax/threatintel-console/internal/console/view"
)

type chart struct {
	doc     *Document
	canvas  string
	cfg     view.ChartConfig
	updates int
}

func (d *Document) ConfigureCharts(defaults view.ChartDefaults) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.chartDefaults = defaults
	d.version++
}

// BindChart создает график на существующем canvas. Повторная привязка
// заменяет прежний экземпляр, как new Chart(ctx) в браузере.
func (d *Document) BindChart(canvas string, cfg view.ChartConfig) view.Chart {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.elements[canvas]; !ok {
		return nil
	}
	c := &chart{doc: d, canvas: canvas, cfg: cloneConfig(cfg)}
	d.charts[canvas] = c
	d.version++
	return c
}

func (c *chart) SetLabels(labels []string) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	c.cfg.Labels = slices.Clone(labels)
}

func (c *chart) SetData(dataset int, data []float64) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if dataset < 0 || dataset >= len(c.cfg.Datasets) {
		return
	}
	c.cfg.Datasets[dataset].Data = slices.Clone(data)
}

func (c *chart) SetColors(dataset int, colors []string) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	if dataset < 0 || dataset >= len(c.cfg.Datasets) {
		return
	}
	c.cfg.Datasets[dataset].BackgroundColor = slices.Clone(colors)
}

func (c *chart) Update() {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	c.updates++
	c.doc.version++
}

// ChartState Снимок графика для оболочки и тестов.
type ChartState struct {
	view.ChartConfig
	Updates int `json:"updates"`
}

// Chart возвращает снимок графика на canvas.
func (d *Document) Chart(canvas string) (ChartState, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.charts[canvas]
	if !ok {
		return ChartState{}, false
	}
	return ChartState{ChartConfig: cloneConfig(c.cfg), Updates: c.updates}, true
}

func cloneConfig(cfg view.ChartConfig) view.ChartConfig {
	out := cfg
	out.Labels = slices.Clone(cfg.Labels)
	out.Datasets = make([]view.Dataset, len(cfg.Datasets))
	for i, ds := range cfg.Datasets {
		ds.Data = slices.Clone(ds.Data)
		ds.BackgroundColor = slices.Clone(ds.BackgroundColor)
		ds.BorderDash = slices.Clone(ds.BorderDash)
		out.Datasets[i] = ds
	}
	return out
}
