package domain

// Stats — ответ GET /admin/stats. Общая шапка дашборда, обновляется на каждом тике.
type Stats struct {
	System         SystemStats    `json:"system"`
	Customers      CustomerStats  `json:"customers"`
	TrafficHistory []TrafficPoint `json:"traffic_history"`
}

type SystemStats struct {
	CPU   CPUStats   `json:"cpu"`
	RAM   UsageGB    `json:"ram"`
	Disk  UsageGB    `json:"disk"`
	Redis RedisStats `json:"redis"`
}

type CPUStats struct {
	UsagePercent float64 `json:"usage_percent"`
}

// UsageGB пара used/total в гигабайтах (RAM, диск)
type UsageGB struct {
	UsedGB  float64 `json:"used_gb"`
	TotalGB float64 `json:"total_gb"`
}

type RedisStats struct {
	TotalCommandsProcessed int64 `json:"total_commands_processed"`
}

type CustomerStats struct {
	Active  int64     `json:"active"`
	Revenue float64   `json:"revenue"` // Уже посчитана бэкендом
	ByTier  TierCount `json:"by_tier"`
}

type TierCount struct {
	Startup  int64 `json:"startup"`
	Business int64 `json:"business"`
}

// TrafficPoint Агрегат одного бакета истории трафика.
type TrafficPoint struct {
	Time    string        `json:"time"`
	Count   float64       `json:"count"`
	Latency float64       `json:"latency"`
	Status  StatusBuckets `json:"status"`
}

type StatusBuckets struct {
	OK          float64 `json:"2xx"`
	ClientError float64 `json:"4xx"`
	ServerError float64 `json:"5xx"`
}
