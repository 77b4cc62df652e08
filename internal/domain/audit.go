package domain

// Статусы записи аудита
type AuditStatus string

const (
	AuditSuccess AuditStatus = "success"
	AuditFailure AuditStatus = "failure"
)

// AuditLogEntry Запись журнала административных действий (append-only).
type AuditLogEntry struct {
	Time    string      `json:"time"`
	Action  string      `json:"action"`
	Details string      `json:"details"`
	Status  AuditStatus `json:"status"`
}

type AuditLogList struct {
	Logs []AuditLogEntry `json:"logs"`
}
