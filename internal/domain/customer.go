package domain

// Tier тарифный план клиента
type Tier string

const (
	TierStartup  Tier = "startup"
	TierBusiness Tier = "business"
)

// Customer — клиент API. Идентифицируется по Email.
type Customer struct {
	Email      string  `json:"email"`
	KeyHash    string  `json:"key_hash"`
	Tier       Tier    `json:"tier"`
	Active     bool    `json:"active"`
	UsageToday float64 `json:"usage_today"`
	Limit      float64 `json:"limit"`
	CreatedAt  string  `json:"created_at"`
}

// CustomerList конверт ответа GET /admin/customers
type CustomerList struct {
	Customers []Customer `json:"customers"`
}

// TestKey Тестовый ключ, выданный администратором. Идентифицируется по Email.
type TestKey struct {
	Email     string `json:"email"`
	Tier      Tier   `json:"tier"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type TestKeyList struct {
	TestKeys []TestKey `json:"test_keys"`
}

// CreateTestKeyRequest тело POST /admin/test-keys/create
type CreateTestKeyRequest struct {
	Email string `json:"email"`
	Tier  Tier   `json:"tier"`
	Note  string `json:"note"`
}

// CreateTestKeyResponse содержит ключ в открытом виде. Показывается один раз.
type CreateTestKeyResponse struct {
	APIKey string `json:"api_key"`
}
