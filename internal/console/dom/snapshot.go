package dom

import "github.com/xela07ax/threatintel-console/internal/console/view"

// Snapshot — согласованная копия документа для отдачи в браузер.
type Snapshot struct {
	Version       uint64                `json:"version"`
	Elements      map[string]Element    `json:"elements"`
	Forms         map[string]uint64     `json:"forms"`
	Charts        map[string]ChartState `json:"charts"`
	ChartDefaults view.ChartDefaults    `json:"chart_defaults"`
}

func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Snapshot{
		Version:       d.version,
		Elements:      make(map[string]Element, len(d.elements)),
		Forms:         make(map[string]uint64, len(d.forms)),
		Charts:        make(map[string]ChartState, len(d.charts)),
		ChartDefaults: d.chartDefaults,
	}
	for sel, el := range d.elements {
		s.Elements[sel] = *el
	}
	for sel, gen := range d.forms {
		s.Forms[sel] = gen
	}
	for canvas, c := range d.charts {
		s.Charts[canvas] = ChartState{ChartConfig: cloneConfig(c.cfg), Updates: c.updates}
	}
	return s
}
