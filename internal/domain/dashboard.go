package domain

// Capacity — ответ GET /admin/capacity: текущая загрузка против лимитов по тарифам.
type Capacity struct {
	Current     TierTotals  `json:"current"`
	Limits      TierTotals  `json:"limits"`
	Utilization Utilization `json:"utilization"`
}

type TierTotals struct {
	Total    int64 `json:"total"`
	Startup  int64 `json:"startup"`
	Business int64 `json:"business"`
}

type Utilization struct {
	TotalPercent float64 `json:"total_percent"`
}
