package console

import (
	"context"
	"sync"

	"github.com/xela07ax/threatintel-console/internal/domain"
)

// fakeAPI отвечает заготовленными данными и запоминает вызовы.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error

	stats     *domain.Stats
	capacity  *domain.Capacity
	customers []domain.Customer
	testKeys  []domain.TestKey
	logs      []domain.AuditLogEntry
	created   string
	lastEmail string
	lastReq   domain.CreateTestKeyRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		errs:     make(map[string]error),
		stats:    &domain.Stats{},
		capacity: &domain.Capacity{},
	}
}

func (f *fakeAPI) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.errs[op]
}

func (f *fakeAPI) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeAPI) GetStats(context.Context) (*domain.Stats, error) {
	if err := f.record("getStats"); err != nil {
		return nil, err
	}
	return f.stats, nil
}

func (f *fakeAPI) GetCustomers(context.Context) ([]domain.Customer, error) {
	if err := f.record("getCustomers"); err != nil {
		return nil, err
	}
	return f.customers, nil
}

func (f *fakeAPI) GetTestKeys(context.Context) ([]domain.TestKey, error) {
	if err := f.record("getTestKeys"); err != nil {
		return nil, err
	}
	return f.testKeys, nil
}

func (f *fakeAPI) GetCapacity(context.Context) (*domain.Capacity, error) {
	if err := f.record("getCapacity"); err != nil {
		return nil, err
	}
	return f.capacity, nil
}

func (f *fakeAPI) GetAuditLogs(context.Context) ([]domain.AuditLogEntry, error) {
	if err := f.record("getAuditLogs"); err != nil {
		return nil, err
	}
	return f.logs, nil
}

func (f *fakeAPI) CreateTestKey(_ context.Context, req domain.CreateTestKeyRequest) (*domain.CreateTestKeyResponse, error) {
	if err := f.record("createTestKey"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()
	return &domain.CreateTestKeyResponse{APIKey: f.created}, nil
}

func (f *fakeAPI) mutate(op, email string) error {
	if err := f.record(op); err != nil {
		return err
	}
	f.mu.Lock()
	f.lastEmail = email
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) DeleteTestKey(_ context.Context, email string) error {
	return f.mutate("deleteTestKey", email)
}

func (f *fakeAPI) DeactivateCustomer(_ context.Context, email string) error {
	return f.mutate("deactivateCustomer", email)
}

func (f *fakeAPI) DeleteCustomer(_ context.Context, email string) error {
	return f.mutate("deleteCustomer", email)
}

func (f *fakeAPI) RotateKey(_ context.Context, email string) error {
	return f.mutate("rotateKey", email)
}
