package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	t.Run("available defaults to total", func(t *testing.T) {
		res, err := NewResource("Router", 10, -1)
		require.NoError(t, err)
		assert.Equal(t, 10, res.QuantityTotal())
		assert.Equal(t, 10, res.QuantityAvailable())
	})

	t.Run("explicit available is kept", func(t *testing.T) {
		res, err := NewResource("Router", 10, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, res.QuantityAvailable())
	})

	t.Run("available cannot exceed total", func(t *testing.T) {
		_, err := NewResource("Router", 10, 11)
		assert.Error(t, err)
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := NewResource("", 10, -1)
		assert.Error(t, err)
	})
}

func TestResourceAdjustTotal(t *testing.T) {
	t.Run("growing total grows available", func(t *testing.T) {
		res, err := ReconstructResource(1, "Switch", 10, 6)
		require.NoError(t, err)

		require.NoError(t, res.AdjustTotal(15))
		assert.Equal(t, 15, res.QuantityTotal())
		assert.Equal(t, 11, res.QuantityAvailable())
	})

	t.Run("shrinking total below reservations clamps available to zero", func(t *testing.T) {
		res, err := ReconstructResource(1, "Switch", 10, 2)
		require.NoError(t, err)

		// 8 units reserved; shrinking total to 5 cannot make available negative
		require.NoError(t, res.AdjustTotal(5))
		assert.Equal(t, 5, res.QuantityTotal())
		assert.Equal(t, 0, res.QuantityAvailable())
	})
}

func TestResourceSetAvailable(t *testing.T) {
	res, err := ReconstructResource(1, "AP", 10, 10)
	require.NoError(t, err)

	t.Run("clamped at total", func(t *testing.T) {
		require.NoError(t, res.SetAvailable(25))
		assert.Equal(t, 10, res.QuantityAvailable())
	})

	t.Run("rejects negative", func(t *testing.T) {
		assert.Error(t, res.SetAvailable(-1))
	})
}
