// Package view описывает поверхность, на которую рисует консоль: набор
// операций рендера и селекторы DOM-контракта страницы.
package view

// Surface Минимальный набор операций, которыми пользуются рендеры.
// Селекторы берутся из DOM-контракта ниже.
type Surface interface {
	SetText(sel, text string)
	Text(sel string) string
	SetHTML(sel, html string)
	// SetClass заменяет список классов целиком
	SetClass(sel, class string)
	ToggleClass(sel, class string, on bool)
	ResetForm(sel string)

	ConfigureCharts(d ChartDefaults)
	// BindChart создает график на canvas; nil, если canvas нет на странице
	BindChart(canvas string, cfg ChartConfig) Chart
}

// Chart изменяемый экземпляр графика. Изменения видны после Update.
type Chart interface {
	SetLabels(labels []string)
	SetData(dataset int, data []float64)
	SetColors(dataset int, colors []string)
	Update()
}

type ChartType string

const (
	ChartLine     ChartType = "line"
	ChartDoughnut ChartType = "doughnut"
)

// ChartConfig — модель графика, которую оболочка страницы отдает библиотеке графиков.
type ChartConfig struct {
	Type     ChartType `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`

	Cutout   string `json:"cutout,omitempty"`   // "70%" для doughnut
	Legend   string `json:"legend,omitempty"`   // "", "right", "none"
	YTitle   string `json:"y_title,omitempty"`  // подпись оси Y для line
	Tooltips *bool  `json:"tooltips,omitempty"` // nil — как у библиотеки
}

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"border_color,omitempty"`
	BackgroundColor []string  `json:"background_color,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
	BorderDash      []int     `json:"border_dash,omitempty"`
	BorderWidth     *int      `json:"border_width,omitempty"`
}

// ChartDefaults Глобальные умолчания библиотеки графиков.
type ChartDefaults struct {
	Color      string `json:"color"`
	FontFamily string `json:"font_family"`
}
