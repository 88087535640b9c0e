package actions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aras-dashboard/internal/entities"
	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/types"
)

// trace - общий журнал вызовов HTTP и Capabilities, чтобы проверять порядок.
type trace struct {
	mu     sync.Mutex
	events []string
}

func (t *trace) add(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, fmt.Sprintf(format, args...))
}

func (t *trace) list() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string{}, t.events...)
}

type apiCall struct {
	Method   string
	Endpoint string
	Body     any
}

type fakeAPI struct {
	trace *trace
	calls []apiCall
	data  any
	err   error
	panic bool
}

func (f *fakeAPI) Do(_ context.Context, method, endpoint string, body any) (any, error) {
	f.calls = append(f.calls, apiCall{Method: method, Endpoint: endpoint, Body: body})
	f.trace.add("http %s %s", method, endpoint)
	if f.panic {
		panic("connection pool exploded")
	}
	return f.data, f.err
}

type traceCaps struct{ trace *trace }

func (c traceCaps) Navigate(path string) { c.trace.add("navigate %s", path) }
func (c traceCaps) OpenModal(id string, _ map[string]any) {
	c.trace.add("modal %s", id)
}
func (c traceCaps) ShowToast(message string, severity types.Severity) {
	c.trace.add("toast %s: %s", severity, message)
}
func (c traceCaps) RefetchDashboard(context.Context) { c.trace.add("refetch") }

type mockTaskStore struct{ mock.Mock }

func (m *mockTaskStore) Append(ctx context.Context, task entities.LocalTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type fixture struct {
	trace *trace
	api   *fakeAPI
	store *mockTaskStore
	caps  traceCaps
	d     *Dispatcher
}

func newFixture() *fixture {
	tr := &trace{}
	f := &fixture{
		trace: tr,
		api:   &fakeAPI{trace: tr},
		store: &mockTaskStore{},
		caps:  traceCaps{trace: tr},
	}
	f.d = NewDispatcher(f.api, f.store, zap.NewNop())
	f.d.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }
	f.d.newID = func() string { return "task-local-1" }
	return f
}

func (f *fixture) dispatch(actionType types.ActionType, payload map[string]any) Result {
	return f.d.Dispatch(context.Background(), types.Cta{ActionType: actionType, Payload: payload}, f.caps)
}

func TestDispatch_IsTotalOverActionTypes(t *testing.T) {
	all := append(append([]types.ActionType{}, types.ActionTypes...), "DEFINITELY_NOT_AN_ACTION")

	for _, failing := range []bool{false, true} {
		for _, at := range all {
			t.Run(fmt.Sprintf("%s/api_fails=%v", at, failing), func(t *testing.T) {
				f := newFixture()
				if failing {
					f.api.err = apperrors.ErrUpstreamUnavailable
					f.store.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full")).Maybe()
				}

				assert.NotPanics(t, func() {
					_ = f.dispatch(at, map[string]any{})
					_ = f.dispatch(at, nil)
					_ = f.d.Dispatch(context.Background(), types.Cta{ActionType: at}, nil)
				})
			})
		}
	}
}

func TestDispatch_EveryEnumMemberHasHandler(t *testing.T) {
	d := NewDispatcher(&fakeAPI{trace: &trace{}}, &mockTaskStore{}, zap.NewNop())
	for _, at := range types.ActionTypes {
		assert.True(t, d.Supports(at), at)
	}
	assert.False(t, d.Supports("LAUNCH_ROCKET"))
}

func TestDispatch_UnknownActionFailsSoft(t *testing.T) {
	f := newFixture()

	res := f.dispatch("LAUNCH_ROCKET", map[string]any{"path": "/x"})

	assert.Equal(t, Result{Success: false, Message: "Unknown action: LAUNCH_ROCKET"}, res)
	assert.Empty(t, f.trace.list())
}

func TestNavigate(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		f := newFixture()
		res := f.dispatch(types.ActionNavigate, map[string]any{})

		assert.Equal(t, Result{Success: false, Message: "No path provided"}, res)
		assert.Empty(t, f.trace.list())
	})

	t.Run("navigates once without network", func(t *testing.T) {
		f := newFixture()
		res := f.dispatch(types.ActionNavigate, map[string]any{"path": "/app/contacts/42"})

		assert.True(t, res.Success)
		assert.Equal(t, []string{"navigate /app/contacts/42"}, f.trace.list())
		assert.Empty(t, f.api.calls)
	})
}

func TestOpenModal(t *testing.T) {
	f := newFixture()
	res := f.dispatch(types.ActionOpenModal, map[string]any{})
	assert.Equal(t, Result{Success: false, Message: "No modal ID provided"}, res)

	res = f.dispatch(types.ActionOpenModal, map[string]any{"modalId": "upgrade-plan"})
	assert.True(t, res.Success)
	assert.Equal(t, []string{"modal upgrade-plan"}, f.trace.list())
}

func TestAPICall_RefetchShortCircuits(t *testing.T) {
	f := newFixture()

	res := f.dispatch(types.ActionAPICall, map[string]any{"action": "refetch", "endpoint": "/api/ignored"})

	assert.True(t, res.Success)
	assert.Equal(t, []string{"refetch", "toast info: Dashboard refreshed"}, f.trace.list())
	assert.Empty(t, f.api.calls)
}

func TestAPICall_OrderIsRequestToastRefetch(t *testing.T) {
	f := newFixture()
	f.api.data = map[string]any{"queued": 3.0}

	res := f.dispatch(types.ActionAPICall, map[string]any{
		"endpoint": "/api/campaigns/7/resume",
		"body":     map[string]any{"force": true},
	})

	require.True(t, res.Success)
	assert.Equal(t, map[string]any{"queued": 3.0}, res.Data)
	assert.Equal(t, []string{
		"http POST /api/campaigns/7/resume",
		"toast success: Action completed",
		"refetch",
	}, f.trace.list())
	assert.Equal(t, map[string]any{"force": true}, f.api.calls[0].Body)
}

func TestAPICall_UsesPayloadMethod(t *testing.T) {
	f := newFixture()
	f.dispatch(types.ActionAPICall, map[string]any{"endpoint": "/api/calls/9", "method": "delete", "successMessage": "Call removed"})

	require.Len(t, f.api.calls, 1)
	assert.Equal(t, "DELETE", f.api.calls[0].Method)
	assert.Contains(t, f.trace.list(), "toast success: Call removed")
}

func TestAPICall_MissingEndpoint(t *testing.T) {
	f := newFixture()
	res := f.dispatch(types.ActionAPICall, map[string]any{"method": "GET"})

	assert.Equal(t, Result{Success: false, Message: "No endpoint provided"}, res)
	assert.Empty(t, f.api.calls)
}

func TestAPICall_UpstreamErrorBecomesFailedResultAndErrorToast(t *testing.T) {
	f := newFixture()
	f.api.err = &apperrors.UpstreamError{Method: "POST", Endpoint: "/api/x", Status: 500}

	res := f.dispatch(types.ActionAPICall, map[string]any{"endpoint": "/api/x"})

	assert.False(t, res.Success)
	assert.Equal(t, "POST /api/x failed with status 500", res.Message)
	assert.Equal(t, []string{
		"http POST /api/x",
		"toast error: POST /api/x failed with status 500",
	}, f.trace.list())
}

func TestCreateEntity(t *testing.T) {
	tests := []struct {
		entityType string
		endpoint   string
		toast      string
	}{
		{"task", "/api/tasks", "toast success: Task created"},
		{"campaign", "/api/campaigns", "toast success: Campaign created"},
		{"contact", "/api/contacts", "toast success: Contact created"},
		{"space", "/api/chat/sessions", "toast success: Space created"},
	}

	for _, tt := range tests {
		t.Run(tt.entityType, func(t *testing.T) {
			f := newFixture()
			res := f.dispatch(types.ActionCreateEntity, map[string]any{
				"entityType": tt.entityType,
				"data":       map[string]any{"name": "Q3 outreach"},
			})

			assert.True(t, res.Success)
			assert.Equal(t, []string{"http POST " + tt.endpoint, tt.toast, "refetch"}, f.trace.list())
			assert.Equal(t, map[string]any{"name": "Q3 outreach"}, f.api.calls[0].Body)
		})
	}

	t.Run("unknown entity does no network call", func(t *testing.T) {
		f := newFixture()
		res := f.dispatch(types.ActionCreateEntity, map[string]any{"entityType": "invoice"})

		assert.False(t, res.Success)
		assert.Equal(t, "Unknown entity type: invoice", res.Message)
		assert.Empty(t, f.api.calls)
		assert.Empty(t, f.trace.list())
	})

	t.Run("body without data drops entityType", func(t *testing.T) {
		f := newFixture()
		f.dispatch(types.ActionCreateEntity, map[string]any{"entityType": "contact", "phone": "+4930123"})
		assert.Equal(t, map[string]any{"phone": "+4930123"}, f.api.calls[0].Body)
	})
}

func TestNavigationHandlers(t *testing.T) {
	tests := []struct {
		name    string
		action  types.ActionType
		payload map[string]any
		want    string
	}{
		{"start call bare", types.ActionStartCall, nil, "/app/power"},
		{"start call with contact", types.ActionStartCall, map[string]any{"phone": "+491701234567", "contactId": 17.0, "name": "Anna K"}, "/app/power?contactId=17&name=Anna+K&phone=%2B491701234567"},
		{"start campaign", types.ActionStartCampaign, map[string]any{}, "/app/campaigns"},
		{"new campaign", types.ActionStartCampaign, map[string]any{"new": true}, "/app/campaigns?new=true"},
		{"existing campaign", types.ActionStartCampaign, map[string]any{"campaignId": "c-9"}, "/app/campaigns?id=c-9"},
		{"import contacts", types.ActionImportContacts, nil, "/app/contacts?import=true"},
		{"import contacts from hubspot", types.ActionImportContacts, map[string]any{"source": "hubspot"}, "/app/contacts?import=true&source=hubspot"},
		{"add kb source", types.ActionAddKBSource, nil, "/app/knowledge"},
		{"add kb url source", types.ActionAddKBSource, map[string]any{"sourceType": "url"}, "/app/knowledge?type=url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			res := f.dispatch(tt.action, tt.payload)

			assert.Equal(t, Result{Success: true}, res)
			assert.Equal(t, []string{"navigate " + tt.want}, f.trace.list())
			assert.Empty(t, f.api.calls)
		})
	}
}

func TestCreateSpace_FailureIsMaskedByNavigation(t *testing.T) {
	f := newFixture()
	f.api.err = apperrors.ErrUpstreamUnavailable

	res := f.dispatch(types.ActionCreateSpace, nil)

	assert.True(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Message)
	assert.Equal(t, []string{"http POST /api/chat/sessions", "navigate /app/space"}, f.trace.list())
}

func TestCreateSpace_OpensCreatedSession(t *testing.T) {
	f := newFixture()
	f.api.data = map[string]any{"id": "s-123"}

	res := f.dispatch(types.ActionCreateSpace, map[string]any{"title": "Pipeline review"})

	assert.True(t, res.Success)
	assert.False(t, res.Degraded)
	assert.Equal(t, map[string]any{"title": "Pipeline review"}, f.api.calls[0].Body)
	assert.Equal(t, "navigate /app/space?session=s-123", f.trace.list()[1])
}

func TestCreateTask_LocalFallbackOnFailure(t *testing.T) {
	f := newFixture()
	f.api.err = apperrors.ErrUpstreamUnavailable

	want := entities.LocalTask{
		ID:        "task-local-1",
		Title:     "X",
		DueDate:   "2026-02-10",
		Priority:  "medium",
		CreatedAt: "2026-02-03T04:05:06.000Z",
	}
	f.store.On("Append", mock.Anything, want).Return(nil).Once()

	res := f.dispatch(types.ActionCreateTask, map[string]any{"title": "X", "dueDate": "2026-02-10", "priority": "someday"})

	assert.True(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Equal(t, want, res.Data)
	f.store.AssertExpectations(t)
	assert.Equal(t, []string{
		"http POST /api/tasks",
		"toast info: Task saved locally and will sync once the server is reachable",
	}, f.trace.list())
}

func TestCreateTask_CreatedOnServer(t *testing.T) {
	f := newFixture()
	f.api.data = map[string]any{"id": "t-1"}

	res := f.dispatch(types.ActionCreateTask, map[string]any{"title": "Call Anna", "priority": "high"})

	assert.True(t, res.Success)
	assert.False(t, res.Degraded)
	assert.Equal(t, []string{"http POST /api/tasks", "toast success: Task created", "refetch"}, f.trace.list())
	assert.Equal(t, "high", f.api.calls[0].Body.(map[string]any)["priority"])
	f.store.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCreateTask_LocalStoreFailureIsReported(t *testing.T) {
	f := newFixture()
	f.api.err = apperrors.ErrUpstreamUnavailable
	f.store.On("Append", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	res := f.dispatch(types.ActionCreateTask, map[string]any{"title": "X"})

	assert.False(t, res.Success)
	assert.Equal(t, "task could not be saved: redis down", res.Message)
	assert.Equal(t, "toast error: task could not be saved: redis down", f.trace.list()[1])
}

func TestCreateTask_CompleteToleratesFailure(t *testing.T) {
	f := newFixture()
	f.api.err = &apperrors.UpstreamError{Method: "PATCH", Endpoint: "/api/tasks/42", Status: 404}

	res := f.dispatch(types.ActionCreateTask, map[string]any{"taskId": 42.0, "title": "ignored"})

	assert.True(t, res.Success)
	assert.True(t, res.Degraded)
	assert.Equal(t, []string{"http PATCH /api/tasks/42", "toast success: Task completed", "refetch"}, f.trace.list())
}

func TestCreateTask_NoData(t *testing.T) {
	f := newFixture()
	res := f.dispatch(types.ActionCreateTask, map[string]any{"description": "orphan"})

	assert.Equal(t, Result{Success: false, Message: "No task data provided"}, res)
	assert.Empty(t, f.api.calls)
}

func TestFixError(t *testing.T) {
	tests := []struct {
		service string
		want    []string
	}{
		{"twilio", []string{"navigate /app/settings?tab=integrations&service=twilio"}},
		{"retell", []string{"navigate /app/settings?tab=voice"}},
		{"api", []string{"refetch", "toast info: Reconnecting to ARAS…"}},
		{"stripe", []string{"navigate /app/settings"}},
		{"", []string{"navigate /app/settings"}},
	}

	for _, tt := range tests {
		t.Run("service="+tt.service, func(t *testing.T) {
			f := newFixture()
			res := f.dispatch(types.ActionFixError, map[string]any{"service": tt.service})

			assert.True(t, res.Success)
			assert.Equal(t, tt.want, f.trace.list())
			assert.Empty(t, f.api.calls)
		})
	}
}

func TestDispatch_RecoversFromHandlerPanic(t *testing.T) {
	f := newFixture()
	f.api.panic = true

	var res Result
	require.NotPanics(t, func() {
		res = f.dispatch(types.ActionAPICall, map[string]any{"endpoint": "/api/x"})
	})

	assert.False(t, res.Success)
	assert.Equal(t, msgUnexpectedPanic, res.Message)
	assert.Equal(t, "toast error: "+msgUnexpectedPanic, f.trace.list()[1])
}

func TestEffectRecorder_RecordsInOrderAndCallsRefetchHook(t *testing.T) {
	f := newFixture()
	f.api.data = map[string]any{}
	refetched := 0
	rec := NewEffectRecorder(func(context.Context) { refetched++ })

	res := f.d.Dispatch(context.Background(), types.Cta{
		ActionType: types.ActionCreateEntity,
		Payload:    map[string]any{"entityType": "contact"},
	}, rec)

	require.True(t, res.Success)
	assert.Equal(t, 1, refetched)
	assert.Equal(t, []Effect{
		{Kind: EffectToast, Message: "Contact created", Severity: types.SeveritySuccess},
		{Kind: EffectRefetch},
	}, rec.Effects())
}
