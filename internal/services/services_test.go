package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"aras-dashboard/internal/entities"
	"aras-dashboard/internal/metrics"
	"aras-dashboard/pkg/contextkeys"
	"aras-dashboard/pkg/service"
)

func userCtx(id string) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, id)
	return context.WithValue(ctx, contextkeys.UserInfoKey, &service.JwtCustomClaim{
		UserID:  id,
		Name:    "Lena",
		Email:   "lena@example.com",
		Plan:    "pro",
		Company: "Acme",
	})
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// fakeFetcher отдаёт заранее заданный ответ и считает вызовы.
type fakeFetcher struct {
	mu    sync.Mutex
	body  string
	err   error
	calls int
}

func (f *fakeFetcher) FetchOverview(context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.body), nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeAPI - APIClient для диспетчера.
type fakeAPI struct {
	mu    sync.Mutex
	err   error
	data  any
	calls []string
	block chan struct{}
}

func (a *fakeAPI) Do(_ context.Context, method, endpoint string, _ any) (any, error) {
	if a.block != nil {
		<-a.block
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, method+" "+endpoint)
	if a.err != nil {
		return nil, a.err
	}
	return a.data, nil
}

var errNetwork = errors.New("dial tcp: connection refused")

type mockActionLogRepo struct {
	mock.Mock
}

func (m *mockActionLogRepo) Create(ctx context.Context, entry *entities.ActionLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockActionLogRepo) List(ctx context.Context, filter entities.ActionLogFilter) ([]entities.ActionLog, uint64, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]entities.ActionLog)
	return list, args.Get(1).(uint64), args.Error(2)
}
