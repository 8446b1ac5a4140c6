package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	t.Run("creates pending request", func(t *testing.T) {
		alloc, err := NewAllocation(3, 2)
		require.NoError(t, err)

		req, err := NewRequest(1, 2, "fiber", []*Allocation{alloc})
		require.NoError(t, err)

		assert.Equal(t, StatusPending, req.Status())
		assert.Equal(t, uint(1), req.UserID())
		assert.Equal(t, uint(2), req.LocationID())
		assert.Equal(t, "fiber", req.ConnectionType())
		assert.Len(t, req.Allocations(), 1)
	})

	t.Run("requires user", func(t *testing.T) {
		_, err := NewRequest(0, 2, "fiber", nil)
		assert.Error(t, err)
	})

	t.Run("requires location", func(t *testing.T) {
		_, err := NewRequest(1, 0, "fiber", nil)
		assert.Error(t, err)
	})

	t.Run("requires connection type", func(t *testing.T) {
		_, err := NewRequest(1, 2, "", nil)
		assert.Error(t, err)
	})
}

func TestNewAllocation(t *testing.T) {
	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewAllocation(1, 0)
		assert.Error(t, err)
	})

	t.Run("rejects missing resource", func(t *testing.T) {
		_, err := NewAllocation(0, 1)
		assert.Error(t, err)
	})
}

func TestRequestCancel(t *testing.T) {
	newPending := func(t *testing.T) *Request {
		alloc, err := NewAllocation(3, 2)
		require.NoError(t, err)
		req, err := ReconstructRequest(10, 1, 2, "fiber", StatusPending, []*Allocation{alloc}, time.Now())
		require.NoError(t, err)
		return req
	}

	t.Run("cancels pending request", func(t *testing.T) {
		req := newPending(t)
		err := req.Cancel()
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, req.Status())
		assert.Empty(t, req.Allocations())
	})

	t.Run("second cancel fails", func(t *testing.T) {
		req := newPending(t)
		require.NoError(t, req.Cancel())
		err := req.Cancel()
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("approved request cannot be cancelled", func(t *testing.T) {
		req := newPending(t)
		require.NoError(t, req.SetStatus(StatusApproved))
		err := req.Cancel()
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Equal(t, StatusApproved, req.Status())
	})
}

func TestRequestSetStatus(t *testing.T) {
	req, err := ReconstructRequest(10, 1, 2, "fiber", StatusPending, nil, time.Now())
	require.NoError(t, err)

	t.Run("accepts open-set statuses", func(t *testing.T) {
		err := req.SetStatus(Status("Completed"))
		require.NoError(t, err)
		assert.Equal(t, Status("Completed"), req.Status())
	})

	t.Run("rejects empty status", func(t *testing.T) {
		err := req.SetStatus("")
		assert.Error(t, err)
	})
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.IsPending())
	assert.True(t, StatusCancelled.IsCancelled())
	assert.False(t, StatusApproved.IsPending())
	assert.True(t, Status("Completed").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestRequestOwnership(t *testing.T) {
	req, err := ReconstructRequest(10, 7, 2, "wireless", StatusPending, nil, time.Now())
	require.NoError(t, err)

	assert.True(t, req.IsOwnedBy(7))
	assert.False(t, req.IsOwnedBy(8))
}
