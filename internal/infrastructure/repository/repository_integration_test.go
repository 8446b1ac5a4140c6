package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"netreq/internal/domain/notification"
	"netreq/internal/domain/request"
	"netreq/internal/domain/resource"
	"netreq/internal/domain/user"
	"netreq/internal/infrastructure/persistence/models"
	"netreq/internal/shared/authorization"
	"netreq/internal/shared/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.UserModel{},
		&models.LocationModel{},
		&models.ResourceModel{},
		&models.RequestModel{},
		&models.AllocationModel{},
		&models.NotificationModel{},
	)
	require.NoError(t, err)

	return gdb
}

func createTestResource(t *testing.T, repo resource.Repository, name string, total, available int) *resource.Resource {
	res, err := resource.NewResource(name, total, available)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), res))
	return res
}

func createTestRequest(t *testing.T, repo request.Repository, userID uint, allocations []*request.Allocation) *request.Request {
	req, err := request.NewRequest(userID, 1, "fiber", allocations)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), req))
	return req
}

func TestResourceRepository_Reserve(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewResourceRepository(gdb)
	ctx := context.Background()

	t.Run("reserve decrements availability", func(t *testing.T) {
		res := createTestResource(t, repo, "Router", 10, 10)

		err := repo.Reserve(ctx, res.ID(), 4)
		require.NoError(t, err)

		found, err := repo.GetByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, 6, found.QuantityAvailable())
		assert.Equal(t, 10, found.QuantityTotal())
	})

	t.Run("reserve more than available fails without mutation", func(t *testing.T) {
		res := createTestResource(t, repo, "Switch", 5, 3)

		err := repo.Reserve(ctx, res.ID(), 4)
		assert.ErrorIs(t, err, resource.ErrInsufficientQuantity)

		found, err := repo.GetByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, 3, found.QuantityAvailable())
	})

	t.Run("reserve exact remainder drains the pool", func(t *testing.T) {
		res := createTestResource(t, repo, "Modem", 5, 5)

		require.NoError(t, repo.Reserve(ctx, res.ID(), 5))
		err := repo.Reserve(ctx, res.ID(), 1)
		assert.ErrorIs(t, err, resource.ErrInsufficientQuantity)
	})

	t.Run("reserve on unknown resource", func(t *testing.T) {
		err := repo.Reserve(ctx, 9999, 1)
		assert.ErrorIs(t, err, resource.ErrNotFound)
	})
}

func TestResourceRepository_Release(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewResourceRepository(gdb)
	ctx := context.Background()

	t.Run("release restores availability", func(t *testing.T) {
		res := createTestResource(t, repo, "Router", 10, 10)
		require.NoError(t, repo.Reserve(ctx, res.ID(), 6))

		require.NoError(t, repo.Release(ctx, res.ID(), 6))

		found, err := repo.GetByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, 10, found.QuantityAvailable())
	})

	t.Run("release is clamped at total", func(t *testing.T) {
		res := createTestResource(t, repo, "Switch", 5, 4)

		require.NoError(t, repo.Release(ctx, res.ID(), 3))

		found, err := repo.GetByID(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, 5, found.QuantityAvailable())
	})

	t.Run("release on unknown resource", func(t *testing.T) {
		err := repo.Release(ctx, 9999, 1)
		assert.ErrorIs(t, err, resource.ErrNotFound)
	})
}

func TestRequestRepository_CreateAndLoad(t *testing.T) {
	gdb := setupTestDB(t)
	resourceRepo := NewResourceRepository(gdb)
	requestRepo := NewRequestRepository(gdb)
	ctx := context.Background()

	router := createTestResource(t, resourceRepo, "Router", 10, 10)
	switchRes := createTestResource(t, resourceRepo, "Switch", 5, 5)

	alloc1, err := request.NewAllocation(router.ID(), 3)
	require.NoError(t, err)
	alloc2, err := request.NewAllocation(switchRes.ID(), 2)
	require.NoError(t, err)

	req := createTestRequest(t, requestRepo, 1, []*request.Allocation{alloc1, alloc2})
	require.NotZero(t, req.ID())

	found, err := requestRepo.GetByID(ctx, req.ID())
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, found.Status())
	require.Len(t, found.Allocations(), 2)
	assert.Equal(t, "Router", found.Allocations()[0].ResourceName())
	assert.Equal(t, 3, found.Allocations()[0].QuantityUsed())
	assert.Equal(t, "Switch", found.Allocations()[1].ResourceName())
}

func TestRequestRepository_MarkCancelled(t *testing.T) {
	gdb := setupTestDB(t)
	resourceRepo := NewResourceRepository(gdb)
	requestRepo := NewRequestRepository(gdb)
	ctx := context.Background()

	router := createTestResource(t, resourceRepo, "Router", 10, 10)
	alloc, err := request.NewAllocation(router.ID(), 3)
	require.NoError(t, err)
	req := createTestRequest(t, requestRepo, 1, []*request.Allocation{alloc})

	require.NoError(t, requestRepo.MarkCancelled(ctx, req.ID()))

	found, err := requestRepo.GetByID(ctx, req.ID())
	require.NoError(t, err)
	assert.Equal(t, request.StatusCancelled, found.Status())
	assert.Empty(t, found.Allocations())
}

func TestRequestRepository_MarkCancelled_RefusesNonPending(t *testing.T) {
	gdb := setupTestDB(t)
	resourceRepo := NewResourceRepository(gdb)
	requestRepo := NewRequestRepository(gdb)
	ctx := context.Background()

	router := createTestResource(t, resourceRepo, "Router", 10, 10)
	alloc, err := request.NewAllocation(router.ID(), 3)
	require.NoError(t, err)
	req := createTestRequest(t, requestRepo, 1, []*request.Allocation{alloc})

	require.NoError(t, requestRepo.UpdateStatus(ctx, req.ID(), request.StatusApproved))

	err = requestRepo.MarkCancelled(ctx, req.ID())
	assert.ErrorIs(t, err, request.ErrNotPending)

	// The refused cancel touches neither the status nor the allocations.
	found, err := requestRepo.GetByID(ctx, req.ID())
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, found.Status())
	assert.Len(t, found.Allocations(), 1)
}

func TestRequestRepository_MarkCancelled_SecondCancelRefused(t *testing.T) {
	gdb := setupTestDB(t)
	resourceRepo := NewResourceRepository(gdb)
	requestRepo := NewRequestRepository(gdb)
	ctx := context.Background()

	router := createTestResource(t, resourceRepo, "Router", 10, 10)
	alloc, err := request.NewAllocation(router.ID(), 3)
	require.NoError(t, err)
	req := createTestRequest(t, requestRepo, 1, []*request.Allocation{alloc})

	require.NoError(t, requestRepo.MarkCancelled(ctx, req.ID()))

	err = requestRepo.MarkCancelled(ctx, req.ID())
	assert.ErrorIs(t, err, request.ErrNotPending)

	err = requestRepo.MarkCancelled(ctx, 9999)
	assert.ErrorIs(t, err, request.ErrNotFound)
}

func TestRequestRepository_List(t *testing.T) {
	gdb := setupTestDB(t)
	resourceRepo := NewResourceRepository(gdb)
	requestRepo := NewRequestRepository(gdb)
	ctx := context.Background()

	router := createTestResource(t, resourceRepo, "Router", 100, 100)

	for i := 0; i < 3; i++ {
		alloc, err := request.NewAllocation(router.ID(), 1)
		require.NoError(t, err)
		createTestRequest(t, requestRepo, uint(i%2+1), []*request.Allocation{alloc})
	}

	all, total, err := requestRepo.List(ctx, request.ListFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	own, total, err := requestRepo.List(ctx, request.ListFilter{UserID: 1}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, req := range own {
		assert.Equal(t, uint(1), req.UserID())
	}

	page, total, err := requestRepo.List(ctx, request.ListFilter{}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
}

func TestTransactionManager_RollbackUndoesEverything(t *testing.T) {
	gdb := setupTestDB(t)
	resourceRepo := NewResourceRepository(gdb)
	requestRepo := NewRequestRepository(gdb)
	notificationRepo := NewNotificationRepository(gdb)
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	router := createTestResource(t, resourceRepo, "Router", 10, 10)

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		alloc, err := request.NewAllocation(router.ID(), 4)
		if err != nil {
			return err
		}
		req, err := request.NewRequest(1, 1, "fiber", []*request.Allocation{alloc})
		if err != nil {
			return err
		}
		if err := requestRepo.Create(txCtx, req); err != nil {
			return err
		}
		if err := resourceRepo.Reserve(txCtx, router.ID(), 4); err != nil {
			return err
		}
		notif, err := notification.NewNotification(1, "request submitted")
		if err != nil {
			return err
		}
		if err := notificationRepo.Create(txCtx, notif); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	require.Error(t, err)

	// Nothing from the aborted scope is visible.
	found, err := resourceRepo.GetByID(ctx, router.ID())
	require.NoError(t, err)
	assert.Equal(t, 10, found.QuantityAvailable())

	_, total, err := requestRepo.List(ctx, request.ListFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	notifs, notifTotal, err := notificationRepo.ListByUserID(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, notifs)
	assert.Equal(t, int64(0), notifTotal)
}

func TestTransactionManager_CommitPersistsEverything(t *testing.T) {
	gdb := setupTestDB(t)
	resourceRepo := NewResourceRepository(gdb)
	requestRepo := NewRequestRepository(gdb)
	notificationRepo := NewNotificationRepository(gdb)
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	router := createTestResource(t, resourceRepo, "Router", 10, 10)

	var requestID uint
	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		alloc, err := request.NewAllocation(router.ID(), 4)
		if err != nil {
			return err
		}
		req, err := request.NewRequest(1, 1, "fiber", []*request.Allocation{alloc})
		if err != nil {
			return err
		}
		if err := requestRepo.Create(txCtx, req); err != nil {
			return err
		}
		requestID = req.ID()
		if err := resourceRepo.Reserve(txCtx, router.ID(), 4); err != nil {
			return err
		}
		notif, err := notification.NewNotification(1, "request submitted")
		if err != nil {
			return err
		}
		return notificationRepo.Create(txCtx, notif)
	})
	require.NoError(t, err)

	found, err := resourceRepo.GetByID(ctx, router.ID())
	require.NoError(t, err)
	assert.Equal(t, 6, found.QuantityAvailable())

	req, err := requestRepo.GetByID(ctx, requestID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, req.Status())

	_, notifTotal, err := notificationRepo.ListByUserID(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), notifTotal)
}

func TestNotificationRepository_MarkSeen(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewNotificationRepository(gdb)
	ctx := context.Background()

	notif, err := notification.NewNotification(1, "hello")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, notif))

	count, err := repo.CountUnseen(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.MarkSeen(ctx, notif.ID(), 1))

	count, err = repo.CountUnseen(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Marking again is a no-op, not an error.
	require.NoError(t, repo.MarkSeen(ctx, notif.ID(), 1))

	// Another user's notification is invisible.
	err = repo.MarkSeen(ctx, notif.ID(), 2)
	assert.ErrorIs(t, err, notification.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewUserRepository(gdb)
	ctx := context.Background()

	u1, err := user.NewUser("Ada Lovelace", "ada@example.com", "hash", "", authorization.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u1))

	u2, err := user.NewUser("Ada Byron", "ada@example.com", "hash", "", authorization.RoleUser)
	require.NoError(t, err)
	err = repo.Create(ctx, u2)
	assert.ErrorIs(t, err, user.ErrEmailExists)
}
