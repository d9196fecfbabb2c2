package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/events"
	"github.com/hotelops/housekeeping/internal/persistence"
	"github.com/hotelops/housekeeping/internal/repository"
)

type testEnv struct {
	requests   *RequestService
	users      *UserService
	requestDB  repository.RequestRepository
	userDB     repository.UserRepository
	recorder   *eventRecorder
	supervisor *domain.User
	runner     *domain.User
	house      *domain.User
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := persistence.NewSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, repository.AutoMigrate(db.DB))

	userDB := repository.NewGormUserRepository(db.DB)
	requestDB := repository.NewGormRequestRepository(db.DB)

	recorder := &eventRecorder{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range []events.EventType{
		events.EventRequestCreated,
		events.EventRequestAssigned,
		events.EventRequestStatusChanged,
		events.EventRequestUpdated,
		events.EventRequestDeleted,
	} {
		dispatcher.Subscribe(eventType, recorder.handle)
	}

	env := &testEnv{
		requests: NewRequestService(RequestDependencies{
			RequestRepo: requestDB,
			UserRepo:    userDB,
			Dispatcher:  dispatcher,
			Clock:       steppingClock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)),
		}),
		users:     NewUserService(userDB),
		requestDB: requestDB,
		userDB:    userDB,
		recorder:  recorder,
	}

	ctx := context.Background()
	env.supervisor, err = env.users.Create(ctx, UserDraft{Name: "Sam Supervisor", Role: domain.UserRoleSupervisor})
	require.NoError(t, err)
	env.runner, err = env.users.Create(ctx, UserDraft{Name: "Rita Runner", Role: domain.UserRoleRunner})
	require.NoError(t, err)
	env.house, err = env.users.Create(ctx, UserDraft{Name: "Hal Houseperson", Role: domain.UserRoleHousePerson})
	require.NoError(t, err)
	return env
}

func (e *testEnv) createRequest(t *testing.T) *domain.Request {
	t.Helper()
	request, err := e.requests.Create(context.Background(), RequestDraft{
		RoomNumber:  strPtr("1204"),
		RequestType: "TOWEL",
		Priority:    domain.RequestPriorityHigh,
		Description: "Need towels",
		CreatedByID: e.supervisor.ID,
	})
	require.NoError(t, err)
	return request
}

func identityOf(user *domain.User) *domain.Identity {
	return &domain.Identity{ID: user.ID, Name: user.Name, Role: user.Role}
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.RequestStatus) *domain.RequestStatus { return &s }

// assertCompletionInvariant checks completedAt is set exactly when the request is COMPLETED.
func assertCompletionInvariant(t *testing.T, request *domain.Request) {
	t.Helper()
	if request.Status == domain.RequestStatusCompleted {
		require.NotNil(t, request.CompletedAt, "completed request must carry completedAt")
	} else {
		require.Nil(t, request.CompletedAt, "only completed requests carry completedAt")
	}
}
