package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/threatintel-console/internal/adminapi"
	"github.com/xela07ax/threatintel-console/internal/console/dom"
	"github.com/xela07ax/threatintel-console/internal/console/view"
	"github.com/xela07ax/threatintel-console/internal/domain"
	"github.com/xela07ax/threatintel-console/internal/keystore"
)

var fixedNow = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

type harness struct {
	c     *Controller
	api   *fakeAPI
	doc   *dom.Document
	store *keystore.Memory
}

func newHarness(t *testing.T, storedKey string) *harness {
	t.Helper()

	api := newFakeAPI()
	doc := dom.New(dom.WithTabs(TabIDs()...))
	store := keystore.NewMemory(storedKey)
	session := NewSession(store, doc, zap.NewNop())

	c := New(api, session, doc, Options{
		// Таймер не должен вмешиваться в подсчет запросов
		RefreshInterval: time.Hour,
		ToastDuration:   time.Hour,
		Location:        time.UTC,
		Now:             func() time.Time { return fixedNow },
	})
	t.Cleanup(c.Close)

	return &harness{c: c, api: api, doc: doc, store: store}
}

func (h *harness) storedKey(t *testing.T) (string, bool) {
	t.Helper()
	key, ok, err := h.store.Load(context.Background())
	require.NoError(t, err)
	return key, ok
}

func accept() Confirmer {
	return ConfirmFunc(func(context.Context, string) bool { return true })
}

func TestBootWithoutKey(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.c.Boot(context.Background()))

	assert.False(t, h.doc.HasClass(view.AuthModal, view.Hidden), "modal must be visible")
	assert.Equal(t, "Disconnected", h.doc.Text(view.StatusText))
	assert.Equal(t, "dot", h.doc.Class(view.StatusDot))
	assert.Zero(t, h.api.total(), "no network activity without a key")
	assert.Equal(t, PhaseUnauthenticated, h.c.Session().Phase())

	// Тики без ключа ничего не делают
	h.c.Refresh(context.Background())
	assert.Zero(t, h.api.total())
}

func TestBootWithStoredKey(t *testing.T) {
	h := newHarness(t, "stored-key")

	require.NoError(t, h.c.Boot(context.Background()))

	assert.True(t, h.doc.HasClass(view.AuthModal, view.Hidden))
	assert.Equal(t, 1, h.api.count("getStats"))
	assert.Equal(t, 1, h.api.count("getCapacity"))
	assert.Equal(t, PhaseConnected, h.c.Session().Phase())
	assert.Equal(t, "Connected", h.doc.Text(view.StatusText))
	assert.Equal(t, "dot connected", h.doc.Class(view.StatusDot))
	assert.Equal(t, "3:04:05 PM", h.doc.Text(view.LastUpdate))
}

func TestBootTreatsSentinelsAsAbsent(t *testing.T) {
	for _, stored := range []string{"null", "undefined"} {
		t.Run(stored, func(t *testing.T) {
			h := newHarness(t, stored)
			require.NoError(t, h.c.Boot(context.Background()))
			assert.False(t, h.doc.HasClass(view.AuthModal, view.Hidden))
			assert.Zero(t, h.api.total())
		})
	}
}

func TestLoginSanitizesKey(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.c.Boot(context.Background()))

	require.NoError(t, h.c.Login(context.Background(), "  abc123🔑  "))

	key, ok := h.storedKey(t)
	require.True(t, ok)
	assert.Equal(t, "abc123", key)

	inMemory, ok := h.c.Session().APIKey()
	require.True(t, ok)
	assert.Equal(t, "abc123", inMemory)

	assert.True(t, h.doc.HasClass(view.AuthModal, view.Hidden))
	assert.Equal(t, 1, h.api.count("getStats"))
}

func TestLoginRejectsEmptyKey(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.c.Boot(context.Background()))

	err := h.c.Login(context.Background(), " 🔑🔑 \t")
	assert.ErrorIs(t, err, ErrEmptyAPIKey)

	_, ok := h.storedKey(t)
	assert.False(t, ok)
	assert.False(t, h.doc.HasClass(view.AuthModal, view.Hidden))
	assert.Zero(t, h.api.total())
}

func TestLogout(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	require.Equal(t, PhaseConnected, h.c.Session().Phase())

	require.NoError(t, h.c.Logout(context.Background()))

	_, ok := h.storedKey(t)
	assert.False(t, ok)
	_, ok = h.c.Session().APIKey()
	assert.False(t, ok)
	assert.False(t, h.doc.HasClass(view.AuthModal, view.Hidden))
	assert.Equal(t, "Disconnected", h.doc.Text(view.StatusText))
	assert.Equal(t, PhaseUnauthenticated, h.c.Session().Phase())
}

func TestDashboardRefreshCycle(t *testing.T) {
	h := newHarness(t, "k")
	h.api.stats = &domain.Stats{
		Customers: domain.CustomerStats{
			Active:  7,
			Revenue: 1234.5,
			ByTier:  domain.TierCount{Startup: 5, Business: 2},
		},
		System: domain.SystemStats{
			CPU:   domain.CPUStats{UsagePercent: 42},
			RAM:   domain.UsageGB{UsedGB: 3, TotalGB: 16},
			Disk:  domain.UsageGB{UsedGB: 50, TotalGB: 500},
			Redis: domain.RedisStats{TotalCommandsProcessed: 1000000},
		},
		TrafficHistory: []domain.TrafficPoint{{
			Time:    "10:00",
			Count:   10,
			Latency: 120,
			Status:  domain.StatusBuckets{OK: 8, ClientError: 1, ServerError: 1},
		}},
	}
	h.api.capacity = &domain.Capacity{
		Current:     domain.TierTotals{Total: 7, Startup: 5, Business: 2},
		Limits:      domain.TierTotals{Total: 100, Startup: 80, Business: 20},
		Utilization: domain.Utilization{TotalPercent: 7},
	}

	require.NoError(t, h.c.Boot(context.Background()))

	assert.Equal(t, "1,000,000", h.doc.Text(view.StatTotalReq))
	assert.Equal(t, "7", h.doc.Text(view.StatActiveUsers))
	assert.Equal(t, "$1,234.50", h.doc.Text(view.StatRevenue))

	load := h.doc.HTML(view.StatSystemLoad)
	assert.Contains(t, load, "<strong>CPU:</strong> 42%")
	assert.Contains(t, load, "<strong>RAM:</strong> 3/16 GB")
	assert.Contains(t, load, "<strong>DSK:</strong> 50/500 GB")

	customer, ok := h.doc.Chart(view.CustomerCanvas)
	require.True(t, ok)
	assert.Equal(t, []float64{5, 2}, customer.Datasets[0].Data)

	status, ok := h.doc.Chart(view.StatusCanvas)
	require.True(t, ok)
	assert.Equal(t, []float64{8, 1, 1}, status.Datasets[0].Data)

	traffic, ok := h.doc.Chart(view.TrafficCanvas)
	require.True(t, ok)
	assert.Equal(t, []string{"10:00"}, traffic.Labels)
	assert.Equal(t, []float64{10}, traffic.Datasets[0].Data)

	latency, ok := h.doc.Chart(view.LatencyCanvas)
	require.True(t, ok)
	assert.Equal(t, []float64{120}, latency.Datasets[0].Data)
	assert.Equal(t, []int{5, 5}, latency.Datasets[0].BorderDash)

	capacity, ok := h.doc.Chart(view.CapacityCanvas)
	require.True(t, ok)
	assert.Equal(t, []float64{7, 93}, capacity.Datasets[0].Data)
	assert.Equal(t, []string{"#00ff9d", "#1f2732"}, capacity.Datasets[0].BackgroundColor)

	limits := h.doc.HTML(view.LimitsList)
	assert.Contains(t, limits, "<strong>7 / 100</strong>")
	assert.Contains(t, limits, "<strong>5 / 80</strong>")
	assert.Contains(t, limits, "<strong>2 / 20</strong>")

	snap := h.doc.Snapshot()
	assert.Equal(t, ChartDefaults, snap.ChartDefaults)

	cached, ok := h.c.LastData(TabDashboard)
	require.True(t, ok)
	assert.Same(t, h.api.capacity, cached)
}

func TestCapacityChartTurnsRed(t *testing.T) {
	h := newHarness(t, "k")
	h.api.capacity = &domain.Capacity{Utilization: domain.Utilization{TotalPercent: 85}}

	require.NoError(t, h.c.Boot(context.Background()))

	capacity, ok := h.doc.Chart(view.CapacityCanvas)
	require.True(t, ok)
	assert.Equal(t, []float64{85, 15}, capacity.Datasets[0].Data)
	assert.Equal(t, []string{"#ef4444", "#1f2732"}, capacity.Datasets[0].BackgroundColor)
}

func TestChartsInitializedOnce(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	h.c.Refresh(context.Background())

	traffic, ok := h.doc.Chart(view.TrafficCanvas)
	require.True(t, ok)
	assert.Equal(t, 2, traffic.Updates, "second refresh must update the same instance")
}

func TestSwitchTabFetchesOnce(t *testing.T) {
	tests := []struct {
		tab   string
		op    string
		title string
	}{
		{"dashboard", "getCapacity", "Dashboard"},
		{"customers", "getCustomers", "Customers"},
		{"test-keys", "getTestKeys", "Test-keys"},
		{"audit", "getAuditLogs", "Audit"},
	}

	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			h := newHarness(t, "k")
			require.NoError(t, h.c.Boot(context.Background()))
			h.api.reset()

			require.NoError(t, h.c.SwitchTab(context.Background(), tt.tab))

			assert.Equal(t, 1, h.api.count("getStats"))
			assert.Equal(t, 1, h.api.count(tt.op))
			assert.Equal(t, 2, h.api.total())

			assert.Equal(t, tt.title, h.doc.Text(view.PageTitle))
			for _, id := range TabIDs() {
				assert.Equal(t, id == tt.tab, h.doc.HasClass(view.NavItem(id), view.Active), "nav %s", id)
				assert.Equal(t, id == tt.tab, h.doc.HasClass(view.Panel(id), view.Active), "panel %s", id)
			}
		})
	}
}

func TestSwitchTabUnknown(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	h.api.reset()

	err := h.c.SwitchTab(context.Background(), "settings")
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Zero(t, h.api.total())
	assert.Equal(t, TabDashboard, h.c.CurrentTab())
}

func TestRefreshStatsFailureDisconnects(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	require.Equal(t, PhaseConnected, h.c.Session().Phase())

	h.api.fail("getStats", &adminapi.APIError{Op: "getStats", Status: 500, Message: "boom"})
	h.api.reset()
	h.c.Refresh(context.Background())

	assert.Equal(t, PhaseDisconnected, h.c.Session().Phase())
	assert.Equal(t, "Disconnected", h.doc.Text(view.StatusText))
	assert.Equal(t, "Connection failed: boom", h.doc.Text(view.Toast))
	assert.Equal(t, "toast show error", h.doc.Class(view.Toast))
	assert.Zero(t, h.api.count("getCapacity"), "dispatch must abort after stats failure")
}

func TestRefreshTabAPIErrorStaysConnected(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	require.NoError(t, h.c.SwitchTab(context.Background(), "customers"))

	h.api.fail("getCustomers", &adminapi.APIError{Op: "getCustomers", Status: 500, Message: "db down"})
	h.c.Refresh(context.Background())

	assert.Equal(t, PhaseConnected, h.c.Session().Phase())
	assert.Equal(t, "db down", h.doc.Text(view.Toast))
	assert.Equal(t, "toast show error", h.doc.Class(view.Toast))
}

func TestRefreshTabTransportErrorDisconnects(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))

	h.api.fail("getCapacity", &adminapi.TransportError{Op: "getCapacity", Err: errors.New("connection refused")})
	h.c.Refresh(context.Background())

	assert.Equal(t, PhaseDisconnected, h.c.Session().Phase())
	assert.Equal(t, "Connection failed: getCapacity: connection refused", h.doc.Text(view.Toast))
}

func TestEmptyTables(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))

	require.NoError(t, h.c.SwitchTab(context.Background(), "customers"))
	assert.NotContains(t, h.doc.HTML(view.CustomersBody), "<tr>")

	require.NoError(t, h.c.SwitchTab(context.Background(), "test-keys"))
	assert.NotContains(t, h.doc.HTML(view.TestKeysBody), "<tr>")

	require.NoError(t, h.c.SwitchTab(context.Background(), "audit"))
	assert.Equal(t, `<tr><td colspan="4" class="empty">No audit logs found.</td></tr>`, h.doc.HTML(view.AuditBody))
}

func TestActionsConfirmedRefreshOnce(t *testing.T) {
	tests := []struct {
		name    string
		act     func(c *Controller, confirm Confirmer) error
		op      string
		prompt  string
		success string
	}{
		{
			name:    "deactivate",
			act:     func(c *Controller, cf Confirmer) error { return c.DeactivateCustomer(context.Background(), "a@b.com", cf) },
			op:      "deactivateCustomer",
			prompt:  "Deactivate a@b.com?",
			success: "Customer deactivated",
		},
		{
			name:    "rotate",
			act:     func(c *Controller, cf Confirmer) error { return c.RotateKey(context.Background(), "a@b.com", cf) },
			op:      "rotateKey",
			prompt:  RotateKeyPrompt("a@b.com"),
			success: "New key sent via email",
		},
		{
			name:    "delete customer",
			act:     func(c *Controller, cf Confirmer) error { return c.DeleteCustomer(context.Background(), "a@b.com", cf) },
			op:      "deleteCustomer",
			prompt:  DeleteCustomerPrompt("a@b.com"),
			success: "Utente eliminato correttamente",
		},
		{
			name:    "delete test key",
			act:     func(c *Controller, cf Confirmer) error { return c.DeleteTestKey(context.Background(), "a@b.com", cf) },
			op:      "deleteTestKey",
			prompt:  "Delete key for a@b.com?",
			success: "Key deleted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "k")
			require.NoError(t, h.c.Boot(context.Background()))
			h.api.reset()

			var asked string
			err := tt.act(h.c, ConfirmFunc(func(_ context.Context, prompt string) bool {
				asked = prompt
				return true
			}))
			require.NoError(t, err)

			assert.Equal(t, tt.prompt, asked)
			assert.Equal(t, 1, h.api.count(tt.op))
			assert.Equal(t, 1, h.api.count("getStats"), "exactly one refresh after success")
			assert.Equal(t, tt.success, h.doc.Text(view.Toast))
			assert.Equal(t, "toast show success", h.doc.Class(view.Toast))
		})
	}
}

func TestActionDeclined(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	h.api.reset()
	before := h.doc.Text(view.Toast)

	decline := ConfirmFunc(func(context.Context, string) bool { return false })
	err := h.c.DeleteCustomer(context.Background(), "a@b.com", decline)

	assert.ErrorIs(t, err, ErrDeclined)
	assert.Zero(t, h.api.total())
	assert.Equal(t, before, h.doc.Text(view.Toast))

	err = h.c.DeactivateCustomer(context.Background(), "a@b.com", nil)
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Zero(t, h.api.total())
}

func TestActionFailureToastsError(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	h.api.fail("deactivateCustomer", &adminapi.APIError{Op: "deactivateCustomer", Status: 404, Message: "Customer not found"})
	h.api.reset()

	err := h.c.DeactivateCustomer(context.Background(), "x@y.z", accept())

	var apiErr *adminapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Customer not found", h.doc.Text(view.Toast))
	assert.Equal(t, "toast show error", h.doc.Class(view.Toast))
	assert.Zero(t, h.api.count("getStats"), "no refresh after a failed action")
}

// rotateProbe запоминает тост, видимый в момент вызова API.
type rotateProbe struct {
	*fakeAPI
	doc    *dom.Document
	during string
}

func (p *rotateProbe) RotateKey(ctx context.Context, email string) error {
	p.during = p.doc.Text(view.Toast) + "|" + p.doc.Class(view.Toast)
	return p.fakeAPI.RotateKey(ctx, email)
}

func TestRotateShowsPendingToast(t *testing.T) {
	doc := dom.New(dom.WithTabs(TabIDs()...))
	probe := &rotateProbe{fakeAPI: newFakeAPI(), doc: doc}
	session := NewSession(keystore.NewMemory("k"), doc, zap.NewNop())
	c := New(probe, session, doc, Options{RefreshInterval: time.Hour, ToastDuration: time.Hour})
	t.Cleanup(c.Close)
	require.NoError(t, c.Boot(context.Background()))

	require.NoError(t, c.RotateKey(context.Background(), "a@b.com", accept()))

	assert.Equal(t, "Rotating key...|toast show info", probe.during)
	assert.Equal(t, "New key sent via email", doc.Text(view.Toast))
	assert.Contains(t, RotateKeyPrompt("a@b.com"), "DELETE the old key for a@b.com")
	assert.Contains(t, RotateKeyPrompt("a@b.com"), "cannot be restored")
}

func TestCreateTestKey(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	h.api.created = "K"
	h.api.reset()
	formGen := h.doc.FormGeneration(view.CreateKeyForm)

	key, err := h.c.CreateTestKey(context.Background(), domain.CreateTestKeyRequest{
		Email: "t@x",
		Tier:  domain.TierStartup,
		Note:  "n",
	})
	require.NoError(t, err)

	assert.Equal(t, "K", key)
	assert.Equal(t, "K", h.doc.Text(view.NewKeyValue))
	assert.False(t, h.doc.HasClass(view.NewKeyResult, view.Hidden))
	assert.Equal(t, formGen+1, h.doc.FormGeneration(view.CreateKeyForm))
	assert.Equal(t, "Test key created", h.doc.Text(view.Toast))
	assert.Equal(t, 1, h.api.count("getStats"))
	assert.Equal(t, domain.CreateTestKeyRequest{Email: "t@x", Tier: domain.TierStartup, Note: "n"}, h.api.lastReq)
}

func TestCreateTestKeyFailureKeepsForm(t *testing.T) {
	h := newHarness(t, "k")
	require.NoError(t, h.c.Boot(context.Background()))
	h.api.fail("createTestKey", &adminapi.APIError{Status: 400, Message: "Key already exists"})
	formGen := h.doc.FormGeneration(view.CreateKeyForm)

	_, err := h.c.CreateTestKey(context.Background(), domain.CreateTestKeyRequest{Email: "t@x"})
	require.Error(t, err)

	assert.Equal(t, formGen, h.doc.FormGeneration(view.CreateKeyForm))
	assert.True(t, h.doc.HasClass(view.NewKeyResult, view.Hidden))
	assert.Equal(t, "Key already exists", h.doc.Text(view.Toast))
}

type recordingClipboard struct {
	text string
	err  error
}

func (r *recordingClipboard) WriteAll(text string) error {
	r.text = text
	return r.err
}

func TestCopy(t *testing.T) {
	h := newHarness(t, "k")
	clip := &recordingClipboard{err: errors.New("no xclip")}
	h.c.clipboard = clip
	h.doc.SetText(view.NewKeyValue, "secret-key")

	text, err := h.c.Copy("new-key-value")
	require.NoError(t, err, "clipboard failure is ignored")
	assert.Equal(t, "secret-key", text)
	assert.Equal(t, "secret-key", clip.text)
	assert.Equal(t, "Copied to clipboard", h.doc.Text(view.Toast))

	_, err = h.c.Copy("")
	assert.ErrorIs(t, err, ErrNoCopyTarget)
}

func TestToastHidesAfterDuration(t *testing.T) {
	doc := dom.New()
	toast := newToaster(doc, 20*time.Millisecond)

	toast.Show("first", ToastInfo)
	assert.Equal(t, "toast show info", doc.Class(view.Toast))

	assert.Eventually(t, func() bool {
		return doc.Class(view.Toast) == "toast hidden"
	}, time.Second, 5*time.Millisecond)
}

func TestTickerRefreshes(t *testing.T) {
	api := newFakeAPI()
	doc := dom.New(dom.WithTabs(TabIDs()...))
	session := NewSession(keystore.NewMemory("k"), doc, zap.NewNop())
	c := New(api, session, doc, Options{RefreshInterval: 10 * time.Millisecond, ToastDuration: time.Hour})
	t.Cleanup(c.Close)

	require.NoError(t, c.Boot(context.Background()))

	assert.Eventually(t, func() bool {
		return api.count("getStats") >= 3
	}, time.Second, 5*time.Millisecond)
}
