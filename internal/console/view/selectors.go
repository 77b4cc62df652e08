package view

import "fmt"

// DOM-контракт страницы консоли.
const (
	AuthModal   = "#auth-modal"
	AuthForm    = "#auth-form"
	APIKeyInput = "#api-key-input"

	StatusDot  = "#status-dot"
	StatusText = "#status-text"
	LogoutBtn  = "#logout-btn"
	RefreshBtn = "#refresh-btn"
	LastUpdate = "#last-update"
	Toast      = "#toast"
	PageTitle  = "#page-title"
	Sidebar    = ".sidebar"
	Main       = ".main-content"

	StatTotalReq    = "#stat-total-req"
	StatActiveUsers = "#stat-active-users"
	StatRevenue     = "#stat-revenue"
	StatSystemLoad  = "#stat-system-load"

	TrafficCanvas  = "#trafficChart"
	LatencyCanvas  = "#latencyChart"
	StatusCanvas   = "#statusChart"
	CustomerCanvas = "#customerChart"
	CapacityCanvas = "#capacityChart"

	CustomersBody = "#customers-table tbody"
	TestKeysBody  = "#test-keys-table tbody"
	AuditBody     = "#audit-table tbody"

	CreateKeyForm = "#create-key-form"
	NewKeyResult  = "#new-key-result"
	NewKeyValue   = "#new-key-value"

	LimitsList = "#limits-list"
)

// Класс, которым прячут модальное окно и панель с новым ключом
const Hidden = "hidden"

// Класс выбранной вкладки и видимой панели
const Active = "active"

// NavItem — пункт меню, ведущий на вкладку tab (атрибут data-tab).
func NavItem(tab string) string {
	return fmt.Sprintf(`.nav-item[data-tab="%s"]`, tab)
}

// Panel возвращает панель вкладки: .view#view-<tab>
func Panel(tab string) string {
	return "#view-" + tab
}

// ByID превращает id из data-target кнопки копирования в селектор.
func ByID(id string) string {
	return "#" + id
}
