package usecases_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netreq/internal/application/request/testutil"
	"netreq/internal/application/request/usecases"
	"netreq/internal/domain/request"
	"netreq/internal/shared/authorization"
	apperrors "netreq/internal/shared/errors"
)

type fixture struct {
	store  *testutil.Store
	create *usecases.CreateRequestUseCase
	cancel *usecases.CancelRequestUseCase
	update *usecases.UpdateRequestStatusUseCase
	get    *usecases.GetRequestUseCase
	list   *usecases.ListRequestsUseCase
	report *usecases.GenerateReportUseCase
}

func newFixture() *fixture {
	store := testutil.NewStore()
	log := testutil.NopLogger()
	return &fixture{
		store: store,
		create: usecases.NewCreateRequestUseCase(
			store.Locations(), store.Resources(), store.Requests(), store.Notifications(), store, log),
		cancel: usecases.NewCancelRequestUseCase(
			store.Resources(), store.Requests(), store.Notifications(), store, log),
		update: usecases.NewUpdateRequestStatusUseCase(
			store.Requests(), store.Notifications(), store, log),
		get:    usecases.NewGetRequestUseCase(store.Requests(), log),
		list:   usecases.NewListRequestsUseCase(store.Requests(), log),
		report: usecases.NewGenerateReportUseCase(store.Requests(), store.Locations(), log),
	}
}

func userActor(id uint) authorization.Actor {
	return authorization.Actor{UserID: id, Role: authorization.RoleUser}
}

func adminActor(id uint) authorization.Actor {
	return authorization.Actor{UserID: id, Role: authorization.RoleAdmin}
}

func TestCreateRequest_ReservesAllLines(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)
	switchID := f.store.SeedResource("Switch", 5, 5)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources: []usecases.ResourceLine{
			{ResourceID: routerID, Quantity: 3},
			{ResourceID: switchID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, request.StatusPending.String(), result.Status)
	assert.Equal(t, 7, f.store.ResourceAvailable(routerID))
	assert.Equal(t, 3, f.store.ResourceAvailable(switchID))
	assert.Equal(t, 2, f.store.AllocationCount(result.ID))

	messages := f.store.NotificationMessages(1)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "pending review")
}

func TestCreateRequest_InsufficientLineRollsBackEverything(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)
	switchID := f.store.SeedResource("Switch", 5, 1)

	_, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources: []usecases.ResourceLine{
			{ResourceID: routerID, Quantity: 4},
			{ResourceID: switchID, Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientQuantityError(err))
	assert.Contains(t, err.Error(), "Switch")

	// The router reservation made before the failing line must be undone.
	assert.Equal(t, 10, f.store.ResourceAvailable(routerID))
	assert.Equal(t, 1, f.store.ResourceAvailable(switchID))
	assert.Equal(t, 0, f.store.RequestCount())
	assert.Empty(t, f.store.NotificationMessages(1))
}

func TestCreateRequest_UnknownResourceRollsBack(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	_, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources: []usecases.ResourceLine{
			{ResourceID: routerID, Quantity: 2},
			{ResourceID: 999, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Equal(t, 10, f.store.ResourceAvailable(routerID))
	assert.Equal(t, 0, f.store.RequestCount())
}

func TestCreateRequest_LocationUnavailable(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("Remote Valley", false)
	routerID := f.store.SeedResource("Router", 10, 10)

	_, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, 10, f.store.ResourceAvailable(routerID))
}

func TestCreateRequest_UnknownLocation(t *testing.T) {
	f := newFixture()

	_, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     42,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: 1, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestCreateRequest_NoDoubleSpendUnderConcurrency(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 5, 5)

	cmd := func(userID uint) usecases.CreateRequestCommand {
		return usecases.CreateRequestCommand{
			UserID:         userID,
			LocationID:     locID,
			ConnectionType: "fiber",
			Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 5}},
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.create.Execute(context.Background(), cmd(uint(i+1)))
		}(i)
	}
	wg.Wait()

	// Exactly one request wins the pool; the other fails cleanly.
	var okCount, insufficientCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else if apperrors.IsInsufficientQuantityError(err) {
			insufficientCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, insufficientCount)
	assert.Equal(t, 0, f.store.ResourceAvailable(routerID))
	assert.Equal(t, 1, f.store.RequestCount())
}

func TestCancelRequest_ReleasesAllocations(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)
	switchID := f.store.SeedResource("Switch", 5, 5)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources: []usecases.ResourceLine{
			{ResourceID: routerID, Quantity: 3},
			{ResourceID: switchID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	err = f.cancel.Execute(context.Background(), usecases.CancelRequestCommand{
		RequestID: result.ID,
		Actor:     userActor(1),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, f.store.ResourceAvailable(routerID))
	assert.Equal(t, 5, f.store.ResourceAvailable(switchID))
	assert.Equal(t, request.StatusCancelled, f.store.RequestStatus(result.ID))
	assert.Equal(t, 0, f.store.AllocationCount(result.ID))

	messages := f.store.NotificationMessages(1)
	require.Len(t, messages, 2)
	assert.Contains(t, messages[1], "cancelled")
}

func TestCancelRequest_SecondCancelFails(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 4}},
	})
	require.NoError(t, err)

	require.NoError(t, f.cancel.Execute(context.Background(), usecases.CancelRequestCommand{
		RequestID: result.ID, Actor: userActor(1),
	}))
	assert.Equal(t, 10, f.store.ResourceAvailable(routerID))

	err = f.cancel.Execute(context.Background(), usecases.CancelRequestCommand{
		RequestID: result.ID, Actor: userActor(1),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransitionError(err))

	// No second release: the pool stays at its total.
	assert.Equal(t, 10, f.store.ResourceAvailable(routerID))
}

func TestCancelRequest_NonPendingFails(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 4}},
	})
	require.NoError(t, err)

	require.NoError(t, f.update.Execute(context.Background(), usecases.UpdateRequestStatusCommand{
		RequestID: result.ID, Status: "Approved",
	}))

	err = f.cancel.Execute(context.Background(), usecases.CancelRequestCommand{
		RequestID: result.ID, Actor: userActor(1),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransitionError(err))
	assert.Equal(t, 6, f.store.ResourceAvailable(routerID))
}

// staleStatusRepo serves reads from a snapshot taken before a concurrent
// status change committed, the way a repeatable-read transaction would.
type staleStatusRepo struct {
	request.Repository
	stale map[uint]*request.Request
}

func (r *staleStatusRepo) GetByID(ctx context.Context, id uint) (*request.Request, error) {
	if req, ok := r.stale[id]; ok {
		return req, nil
	}
	return r.Repository.GetByID(ctx, id)
}

func TestCancelRequest_StaleSnapshotLosesToStatusChange(t *testing.T) {
	f := newFixture()
	log := testutil.NopLogger()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 4}},
	})
	require.NoError(t, err)

	// Snapshot the request while it is still pending.
	pendingView, err := f.store.Requests().GetByID(context.Background(), result.ID)
	require.NoError(t, err)

	// A concurrent admin decision lands first.
	require.NoError(t, f.update.Execute(context.Background(), usecases.UpdateRequestStatusCommand{
		RequestID: result.ID, Status: "Approved",
	}))

	cancel := usecases.NewCancelRequestUseCase(
		f.store.Resources(),
		&staleStatusRepo{Repository: f.store.Requests(), stale: map[uint]*request.Request{result.ID: pendingView}},
		f.store.Notifications(), f.store, log)

	err = cancel.Execute(context.Background(), usecases.CancelRequestCommand{
		RequestID: result.ID, Actor: userActor(1),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransitionError(err))

	// The aborted cancel released nothing and changed nothing.
	assert.Equal(t, 6, f.store.ResourceAvailable(routerID))
	assert.Equal(t, request.Status("Approved"), f.store.RequestStatus(result.ID))
	assert.Equal(t, 1, f.store.AllocationCount(result.ID))
}

func TestCancelRequest_ForbiddenForOtherUser(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 4}},
	})
	require.NoError(t, err)

	err = f.cancel.Execute(context.Background(), usecases.CancelRequestCommand{
		RequestID: result.ID, Actor: userActor(2),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))
	assert.Equal(t, 6, f.store.ResourceAvailable(routerID))
	assert.Equal(t, request.StatusPending, f.store.RequestStatus(result.ID))
}

func TestCancelRequest_AdminMayCancelAnyRequest(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 4}},
	})
	require.NoError(t, err)

	err = f.cancel.Execute(context.Background(), usecases.CancelRequestCommand{
		RequestID: result.ID, Actor: adminActor(99),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, f.store.ResourceAvailable(routerID))
}

func TestUpdateRequestStatus_NeverTouchesLedger(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 4}},
	})
	require.NoError(t, err)

	for _, status := range []string{"Approved", "Rejected", "On Hold", "Approved"} {
		require.NoError(t, f.update.Execute(context.Background(), usecases.UpdateRequestStatusCommand{
			RequestID: result.ID, Status: status,
		}))
		assert.Equal(t, 1, f.store.AllocationCount(result.ID))
		assert.Equal(t, 6, f.store.ResourceAvailable(routerID), "status %s must not touch the ledger", status)
	}
	assert.Equal(t, request.Status("Approved"), f.store.RequestStatus(result.ID))

	// One notification per status update, plus the creation one.
	assert.Len(t, f.store.NotificationMessages(1), 5)
}

func TestUpdateRequestStatus_EmptyStatusRejected(t *testing.T) {
	f := newFixture()

	err := f.update.Execute(context.Background(), usecases.UpdateRequestStatusCommand{RequestID: 1, Status: ""})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestUpdateRequestStatus_UnknownRequest(t *testing.T) {
	f := newFixture()

	err := f.update.Execute(context.Background(), usecases.UpdateRequestStatusCommand{RequestID: 77, Status: "approved"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestGetRequest_OwnerAndAdminOnly(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 10, 10)

	result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
		UserID:         1,
		LocationID:     locID,
		ConnectionType: "fiber",
		Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 2}},
	})
	require.NoError(t, err)

	dto, err := f.get.Execute(context.Background(), usecases.GetRequestQuery{RequestID: result.ID, Actor: userActor(1)})
	require.NoError(t, err)
	require.Len(t, dto.Resources, 1)
	assert.Equal(t, "Router", dto.Resources[0].ResourceName)
	assert.Equal(t, 2, dto.Resources[0].QuantityUsed)

	_, err = f.get.Execute(context.Background(), usecases.GetRequestQuery{RequestID: result.ID, Actor: userActor(2)})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))

	_, err = f.get.Execute(context.Background(), usecases.GetRequestQuery{RequestID: result.ID, Actor: adminActor(9)})
	require.NoError(t, err)
}

func TestListRequests_NonAdminScopedToOwn(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 100, 100)

	for _, userID := range []uint{1, 1, 2} {
		_, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
			UserID:         userID,
			LocationID:     locID,
			ConnectionType: "fiber",
			Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	// A non-admin asking for another user's requests still gets their own.
	result, err := f.list.Execute(context.Background(), usecases.ListRequestsQuery{
		Actor:  userActor(1),
		UserID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	for _, req := range result.Requests {
		assert.Equal(t, uint(1), req.UserID)
	}

	result, err = f.list.Execute(context.Background(), usecases.ListRequestsQuery{Actor: adminActor(9)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
}

func TestListRequests_StatusFilterAndPagination(t *testing.T) {
	f := newFixture()
	locID := f.store.SeedLocation("North Campus", true)
	routerID := f.store.SeedResource("Router", 100, 100)

	var ids []uint
	for i := 0; i < 3; i++ {
		result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
			UserID:         1,
			LocationID:     locID,
			ConnectionType: "fiber",
			Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, result.ID)
	}
	require.NoError(t, f.update.Execute(context.Background(), usecases.UpdateRequestStatusCommand{
		RequestID: ids[0], Status: "Approved",
	}))

	result, err := f.list.Execute(context.Background(), usecases.ListRequestsQuery{
		Actor:  adminActor(9),
		Status: "Pending",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	result, err = f.list.Execute(context.Background(), usecases.ListRequestsQuery{
		Actor: adminActor(9),
		Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Len(t, result.Requests, 2)
}

func TestGenerateReport_AggregatesByStatusLocationAndType(t *testing.T) {
	f := newFixture()
	northID := f.store.SeedLocation("North Campus", true)
	southID := f.store.SeedLocation("South Campus", true)
	routerID := f.store.SeedResource("Router", 100, 100)

	seed := []struct {
		locID    uint
		connType string
	}{
		{northID, "fiber"},
		{northID, "wireless"},
		{southID, "fiber"},
	}
	var ids []uint
	for _, s := range seed {
		result, err := f.create.Execute(context.Background(), usecases.CreateRequestCommand{
			UserID:         1,
			LocationID:     s.locID,
			ConnectionType: s.connType,
			Resources:      []usecases.ResourceLine{{ResourceID: routerID, Quantity: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, result.ID)
	}
	require.NoError(t, f.update.Execute(context.Background(), usecases.UpdateRequestStatusCommand{
		RequestID: ids[0], Status: "Approved",
	}))

	report, err := f.report.Execute(context.Background(), usecases.GenerateReportQuery{Period: usecases.PeriodDaily})
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.TotalRequests)
	assert.Equal(t, int64(1), report.ByStatus["Approved"])
	assert.Equal(t, int64(2), report.ByStatus["Pending"])
	assert.Equal(t, int64(2), report.ByLocation["North Campus"])
	assert.Equal(t, int64(1), report.ByLocation["South Campus"])
	assert.Equal(t, int64(2), report.ByConnectionType["fiber"])
	assert.Equal(t, int64(1), report.ByConnectionType["wireless"])
}

func TestGenerateReport_InvalidPeriod(t *testing.T) {
	f := newFixture()

	_, err := f.report.Execute(context.Background(), usecases.GenerateReportQuery{Period: "hourly"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}
