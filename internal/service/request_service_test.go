package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/events"
	apperrors "github.com/hotelops/housekeeping/pkg/util/errorutil"
)

func TestCreateRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	request, err := env.requests.Create(ctx, RequestDraft{
		RoomNumber:  strPtr(" 1204 "),
		GuestName:   strPtr(""),
		RequestType: "TOWEL",
		Priority:    domain.RequestPriorityHigh,
		Description: "Need towels",
		Notes:       strPtr("before noon"),
		CreatedByID: env.supervisor.ID,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, request.ID)
	assert.Equal(t, domain.RequestStatusPending, request.Status)
	assert.Nil(t, request.CompletedAt)
	assert.Nil(t, request.AssignedToID)
	assert.Equal(t, "1204", *request.RoomNumber)
	assert.Nil(t, request.GuestName, "blank optional fields are stored as absent")
	assert.False(t, request.CreatedAt.IsZero())
	assert.True(t, request.CreatedAt.Equal(request.UpdatedAt))
	assert.Equal(t, []events.EventType{events.EventRequestCreated}, env.recorder.types())
}

func TestCreateRequestRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category := domain.TaskCategory("LAUNDRY")

	created, err := env.requests.Create(ctx, RequestDraft{
		RoomNumber:   strPtr("808"),
		GuestName:    strPtr("Mr. Huang"),
		Location:     strPtr("8F"),
		RequestType:  "MAINTENANCE",
		Priority:     domain.RequestPriorityUrgent,
		Description:  "Air conditioning not cooling",
		Notes:        strPtr("guest waiting"),
		TaskCategory: &category,
		CreatedByID:  env.supervisor.ID,
		AssignedToID: strPtr(env.house.ID),
	})
	require.NoError(t, err)

	fetched, err := env.requests.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "808", *fetched.RoomNumber)
	assert.Equal(t, "Mr. Huang", *fetched.GuestName)
	assert.Equal(t, "8F", *fetched.Location)
	assert.Equal(t, "MAINTENANCE", fetched.RequestType)
	assert.Equal(t, domain.RequestPriorityUrgent, fetched.Priority)
	assert.Equal(t, "Air conditioning not cooling", fetched.Description)
	assert.Equal(t, "guest waiting", *fetched.Notes)
	assert.Equal(t, category, *fetched.TaskCategory)
	assert.Equal(t, env.supervisor.ID, fetched.CreatedByID)
	assert.Equal(t, env.house.ID, *fetched.AssignedToID)
	assert.Equal(t, domain.RequestStatusPending, fetched.Status, "an assignee on create does not start the work")
	assert.WithinDuration(t, created.CreatedAt, fetched.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, created.UpdatedAt, fetched.UpdatedAt, time.Millisecond)
	assert.Nil(t, fetched.CompletedAt)
}

func TestCreateRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft RequestDraft
		code  string
	}{
		{
			name:  "missing description",
			draft: RequestDraft{RequestType: "TOWEL", Priority: domain.RequestPriorityLow, CreatedByID: env.supervisor.ID},
			code:  apperrors.CodeValidation,
		},
		{
			name:  "blank request type",
			draft: RequestDraft{Description: "x", RequestType: "   ", Priority: domain.RequestPriorityLow, CreatedByID: env.supervisor.ID},
			code:  apperrors.CodeValidation,
		},
		{
			name:  "missing priority",
			draft: RequestDraft{Description: "x", RequestType: "TOWEL", CreatedByID: env.supervisor.ID},
			code:  apperrors.CodeValidation,
		},
		{
			name:  "unknown priority",
			draft: RequestDraft{Description: "x", RequestType: "TOWEL", Priority: "CRITICAL", CreatedByID: env.supervisor.ID},
			code:  apperrors.CodeValidation,
		},
		{
			name:  "missing creator",
			draft: RequestDraft{Description: "x", RequestType: "TOWEL", Priority: domain.RequestPriorityLow},
			code:  apperrors.CodeValidation,
		},
		{
			name:  "unknown creator",
			draft: RequestDraft{Description: "x", RequestType: "TOWEL", Priority: domain.RequestPriorityLow, CreatedByID: "missing-user"},
			code:  apperrors.CodeInvalidReference,
		},
		{
			name: "unknown assignee",
			draft: RequestDraft{Description: "x", RequestType: "TOWEL", Priority: domain.RequestPriorityLow,
				CreatedByID: env.supervisor.ID, AssignedToID: strPtr("missing-user")},
			code: apperrors.CodeInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.requests.Create(ctx, tt.draft)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}

	all, err := env.requests.List(ctx, RequestListFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "failed creates must not write")
}

func TestCreateRequestReportsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.requests.Create(context.Background(), RequestDraft{Priority: domain.RequestPriorityLow})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, []string{"description", "requestType", "createdById"}, domainErr.Details["fields"])
}

func TestCreateStripingTask(t *testing.T) {
	env := newTestEnv(t)

	request, err := env.requests.CreateStripingTask(context.Background(), RequestDraft{
		RoomNumber:  strPtr("510"),
		RequestType: "BED",
		Priority:    domain.RequestPriorityMedium,
		Description: "Strip beds after checkout",
		CreatedByID: env.supervisor.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, request.TaskCategory)
	assert.Equal(t, domain.TaskCategoryStriper, *request.TaskCategory)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	started, err := env.requests.UpdateStatus(ctx, nil, request.ID, domain.RequestStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusInProgress, started.Status)
	assertCompletionInvariant(t, started)

	completed, err := env.requests.UpdateStatus(ctx, nil, request.ID, domain.RequestStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assertCompletionInvariant(t, completed)

	again, err := env.requests.UpdateStatus(ctx, nil, request.ID, domain.RequestStatusCompleted)
	require.NoError(t, err, "repeating the same status is a no-op")
	require.NotNil(t, again.CompletedAt)
	assert.WithinDuration(t, *completed.CompletedAt, *again.CompletedAt, time.Millisecond, "completedAt is set once")

	_, err = env.requests.UpdateStatus(ctx, nil, request.ID, domain.RequestStatusPending)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))

	stored, err := env.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusCompleted, stored.Status)
	assertCompletionInvariant(t, stored)
}

func TestUpdateStatusTerminalStatesAreFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	completed := env.createRequest(t)
	_, err := env.requests.UpdateStatus(ctx, nil, completed.ID, domain.RequestStatusInProgress)
	require.NoError(t, err)
	_, err = env.requests.UpdateStatus(ctx, nil, completed.ID, domain.RequestStatusCompleted)
	require.NoError(t, err)

	cancelled := env.createRequest(t)
	_, err = env.requests.UpdateStatus(ctx, nil, cancelled.ID, domain.RequestStatusCancelled)
	require.NoError(t, err)

	cases := map[string][]domain.RequestStatus{
		completed.ID: {domain.RequestStatusPending, domain.RequestStatusInProgress, domain.RequestStatusCancelled},
		cancelled.ID: {domain.RequestStatusPending, domain.RequestStatusInProgress, domain.RequestStatusCompleted},
	}
	for id, targets := range cases {
		for _, target := range targets {
			_, err := env.requests.UpdateStatus(ctx, nil, id, target)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition), "%s -> %s", id, target)
		}
	}
}

func TestUpdateStatusRejectsSkippingInProgress(t *testing.T) {
	env := newTestEnv(t)
	request := env.createRequest(t)

	_, err := env.requests.UpdateStatus(context.Background(), nil, request.ID, domain.RequestStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}

func TestUpdateStatusErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	_, err := env.requests.UpdateStatus(ctx, nil, request.ID, domain.RequestStatus("DONE"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = env.requests.UpdateStatus(ctx, nil, "does-not-exist", domain.RequestStatusCancelled)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = env.requests.UpdateStatus(ctx, identityOf(env.runner), request.ID, domain.RequestStatusCancelled)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "workers may only move their own requests")
}

func TestAssignStartsPendingWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)
	env.recorder.reset()

	assigned, err := env.requests.Assign(ctx, identityOf(env.supervisor), request.ID, env.runner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusInProgress, assigned.Status)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, env.runner.ID, *assigned.AssignedToID)
	assert.True(t, assigned.UpdatedAt.After(request.UpdatedAt))
	assertCompletionInvariant(t, assigned)
	assert.Equal(t, []events.EventType{events.EventRequestAssigned, events.EventRequestStatusChanged}, env.recorder.types())

	stored, err := env.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusInProgress, stored.Status)
	assert.Equal(t, env.runner.ID, *stored.AssignedToID)
}

func TestAssignIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	first, err := env.requests.Assign(ctx, nil, request.ID, env.runner.ID)
	require.NoError(t, err)
	second, err := env.requests.Assign(ctx, nil, request.ID, env.runner.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.AssignedToID, *second.AssignedToID)
	assert.Equal(t, first.Description, second.Description)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestAssignKeepsInProgressStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	_, err := env.requests.Assign(ctx, nil, request.ID, env.runner.ID)
	require.NoError(t, err)
	reassigned, err := env.requests.Assign(ctx, nil, request.ID, env.house.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusInProgress, reassigned.Status)
	assert.Equal(t, env.house.ID, *reassigned.AssignedToID)
}

func TestAssignErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	_, err := env.requests.Assign(ctx, nil, "nonexistent", env.runner.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = env.requests.Assign(ctx, nil, request.ID, "missing-user")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = env.requests.Assign(ctx, nil, request.ID, "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	cancelled := env.createRequest(t)
	_, err = env.requests.UpdateStatus(ctx, nil, cancelled.ID, domain.RequestStatusCancelled)
	require.NoError(t, err)
	_, err = env.requests.Assign(ctx, nil, cancelled.ID, env.runner.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))

	stored, err := env.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, stored.Status)
	assert.Nil(t, stored.AssignedToID)
}

func TestAssignByWorker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	_, err := env.requests.Assign(ctx, identityOf(env.runner), request.ID, env.house.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "workers cannot hand work to others")

	claimed, err := env.requests.Assign(ctx, identityOf(env.runner), request.ID, env.runner.ID)
	require.NoError(t, err)
	assert.Equal(t, env.runner.ID, *claimed.AssignedToID)

	_, err = env.requests.Assign(ctx, identityOf(env.house), request.ID, env.house.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "claimed work cannot be taken over")
}

func TestConcurrentAssignLastWriteWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, assignee := range []string{env.runner.ID, env.house.ID} {
		wg.Add(1)
		go func(i int, assignee string) {
			defer wg.Done()
			_, errs[i] = env.requests.Assign(ctx, nil, request.ID, assignee)
		}(i, assignee)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	stored, err := env.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedToID)
	assert.Contains(t, []string{env.runner.ID, env.house.ID}, *stored.AssignedToID)
	assert.Equal(t, domain.RequestStatusInProgress, stored.Status)
	assert.Equal(t, request.Description, stored.Description)
	assert.Equal(t, request.RequestType, stored.RequestType)
	assert.Equal(t, request.Priority, stored.Priority)
	assert.Equal(t, request.CreatedByID, stored.CreatedByID)
	assert.Equal(t, *request.RoomNumber, *stored.RoomNumber)
	assertCompletionInvariant(t, stored)
}

func TestUpdateAppliesPatchInOneWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)
	env.recorder.reset()

	updated, err := env.requests.Update(ctx, identityOf(env.supervisor), request.ID, RequestPatch{
		Status:       statusPtr(domain.RequestStatusInProgress),
		AssignedToID: strPtr(env.house.ID),
		Notes:        strPtr("bring two sets"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusInProgress, updated.Status)
	assert.Equal(t, env.house.ID, *updated.AssignedToID)
	assert.Equal(t, "bring two sets", *updated.Notes)
	assert.Equal(t, []events.EventType{
		events.EventRequestUpdated,
		events.EventRequestAssigned,
		events.EventRequestStatusChanged,
	}, env.recorder.types())

	stored, err := env.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusInProgress, stored.Status)
	assert.Equal(t, env.house.ID, *stored.AssignedToID)
	assert.Equal(t, "bring two sets", *stored.Notes)
}

func TestUpdateRejectsInvalidTransitionWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	_, err := env.requests.Update(ctx, nil, request.ID, RequestPatch{
		Status: statusPtr(domain.RequestStatusCompleted),
		Notes:  strPtr("should not persist"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))

	stored, err := env.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusPending, stored.Status)
	assert.Nil(t, stored.Notes)
	assert.Nil(t, stored.CompletedAt)
}

func TestUpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	_, err := env.requests.Update(ctx, nil, request.ID, RequestPatch{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = env.requests.Update(ctx, nil, request.ID, RequestPatch{Description: strPtr("  ")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	priority := domain.RequestPriority("SOON")
	_, err = env.requests.Update(ctx, nil, request.ID, RequestPatch{Priority: &priority})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = env.requests.Update(ctx, nil, request.ID, RequestPatch{AssignedToID: strPtr("missing-user")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidReference))

	_, err = env.requests.Update(ctx, nil, "nope", RequestPatch{Notes: strPtr("x")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdateClearsAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)
	_, err := env.requests.Assign(ctx, nil, request.ID, env.runner.ID)
	require.NoError(t, err)

	updated, err := env.requests.Update(ctx, nil, request.ID, RequestPatch{AssignedToID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedToID)
	assert.Equal(t, domain.RequestStatusInProgress, updated.Status)
}

func TestUpdateCannotReassignFinishedRequest(t *testing.T) {
	for _, final := range []domain.RequestStatus{domain.RequestStatusCompleted, domain.RequestStatusCancelled} {
		t.Run(string(final), func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			request := env.createRequest(t)
			_, err := env.requests.Assign(ctx, nil, request.ID, env.runner.ID)
			require.NoError(t, err)
			_, err = env.requests.UpdateStatus(ctx, nil, request.ID, final)
			require.NoError(t, err)

			_, err = env.requests.Update(ctx, nil, request.ID, RequestPatch{AssignedToID: strPtr(env.house.ID)})
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))

			_, err = env.requests.Update(ctx, nil, request.ID, RequestPatch{AssignedToID: strPtr("")})
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))

			stored, err := env.requests.Get(ctx, request.ID)
			require.NoError(t, err)
			assert.Equal(t, final, stored.Status)
			require.NotNil(t, stored.AssignedToID)
			assert.Equal(t, env.runner.ID, *stored.AssignedToID)

			noted, err := env.requests.Update(ctx, nil, request.ID, RequestPatch{
				AssignedToID: strPtr(env.runner.ID),
				Notes:        strPtr("left at front desk"),
			})
			require.NoError(t, err, "repeating the current assignee is not a reassignment")
			assert.Equal(t, "left at front desk", *noted.Notes)
		})
	}
}

func TestWorkerCannotClearAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)
	_, err := env.requests.Assign(ctx, nil, request.ID, env.runner.ID)
	require.NoError(t, err)

	_, err = env.requests.Update(ctx, identityOf(env.runner), request.ID, RequestPatch{AssignedToID: strPtr("")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = env.requests.Update(ctx, identityOf(env.runner), request.ID, RequestPatch{AssignedToID: strPtr("  ")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	stored, err := env.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedToID)
	assert.Equal(t, env.runner.ID, *stored.AssignedToID)
	assert.Equal(t, domain.RequestStatusInProgress, stored.Status)
}

func TestUpdateByWorker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	_, err := env.requests.Update(ctx, identityOf(env.runner), request.ID, RequestPatch{Notes: strPtr("mine now")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	claimed, err := env.requests.Update(ctx, identityOf(env.runner), request.ID, RequestPatch{
		AssignedToID: strPtr(env.runner.ID),
		Status:       statusPtr(domain.RequestStatusInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, env.runner.ID, *claimed.AssignedToID)

	done, err := env.requests.Update(ctx, identityOf(env.runner), request.ID, RequestPatch{Status: statusPtr(domain.RequestStatusCompleted)})
	require.NoError(t, err)
	assertCompletionInvariant(t, done)

	_, err = env.requests.Update(ctx, identityOf(env.house), request.ID, RequestPatch{Notes: strPtr("not mine")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestDeleteRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)

	err := env.requests.Delete(ctx, identityOf(env.runner), request.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	require.NoError(t, env.requests.Delete(ctx, identityOf(env.supervisor), request.ID))

	_, err = env.requests.Get(ctx, request.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	err = env.requests.Delete(ctx, nil, request.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	users, err := env.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3, "deleting a request leaves users alone")
}

func TestListAndResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.createRequest(t)
	second := env.createRequest(t)
	_, err := env.requests.Assign(ctx, nil, second.ID, env.runner.ID)
	require.NoError(t, err)

	all, err := env.requests.List(ctx, RequestListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	mine, err := env.requests.List(ctx, RequestListFilter{AssigneeID: &env.runner.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	pending, err := env.requests.List(ctx, RequestListFilter{Statuses: []domain.RequestStatus{domain.RequestStatusPending}})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	resolved, err := env.requests.Resolve(ctx, all)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	require.NotNil(t, resolved[0].CreatedBy)
	assert.Equal(t, env.supervisor.Name, resolved[0].CreatedBy.Name)
	require.NotNil(t, resolved[0].AssignedTo)
	assert.Equal(t, env.runner.Name, resolved[0].AssignedTo.Name)
	assert.Nil(t, resolved[1].AssignedTo)
}

func TestCompletionInvariantAcrossOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := env.createRequest(t)
	assertCompletionInvariant(t, request)
	low := domain.RequestPriorityLow

	steps := []func() (*domain.Request, error){
		func() (*domain.Request, error) { return env.requests.Assign(ctx, nil, request.ID, env.house.ID) },
		func() (*domain.Request, error) {
			return env.requests.Update(ctx, nil, request.ID, RequestPatch{Notes: strPtr("on it")})
		},
		func() (*domain.Request, error) {
			return env.requests.UpdateStatus(ctx, nil, request.ID, domain.RequestStatusCompleted)
		},
		func() (*domain.Request, error) {
			return env.requests.Update(ctx, nil, request.ID, RequestPatch{Priority: &low})
		},
	}
	for _, step := range steps {
		result, err := step()
		require.NoError(t, err)
		assertCompletionInvariant(t, result)

		stored, err := env.requests.Get(ctx, request.ID)
		require.NoError(t, err)
		assertCompletionInvariant(t, stored)
	}
}
