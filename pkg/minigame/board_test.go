package minigame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apu-inti/guardian/pkg/meter"
)

func available(b Board, id string) bool {
	for _, a := range b.Actions() {
		if a.ID == id {
			return a.Available
		}
	}
	return false
}

func TestSierraBoard(t *testing.T) {
	t.Run("opening state", func(t *testing.T) {
		s := NewSierraBoard()
		assert.True(t, available(s, ActionProtectCrops))
		assert.True(t, available(s, ActionReforest))
		assert.False(t, available(s, ActionComplete))
	})

	t.Run("reforest trades protection for forest", func(t *testing.T) {
		s := NewSierraBoard()
		require.NoError(t, s.Apply(ActionReforest))
		assert.Equal(t, meter.Meter(25), s.Protection)
		assert.Equal(t, meter.Meter(65), s.Forest)
		assert.Equal(t, meter.Meter(65), s.Ecosystem)

		assert.False(t, available(s, ActionReforest), "protection below 30")
		err := s.Apply(ActionReforest)
		assert.True(t, errors.Is(err, ErrActionUnavailable))
	})

	t.Run("protect crops caps and disables", func(t *testing.T) {
		s := NewSierraBoard()
		for range 4 {
			require.NoError(t, s.Apply(ActionProtectCrops))
		}
		assert.Equal(t, meter.Meter(100), s.Protection)
		assert.Equal(t, meter.Meter(100), s.Ecosystem)
		assert.True(t, errors.Is(s.Apply(ActionProtectCrops), ErrActionUnavailable))
		assert.True(t, s.CanComplete())
	})

	t.Run("reforest at exactly 30 is a no-op", func(t *testing.T) {
		s := &SierraBoard{Protection: 30, Forest: 40, Ecosystem: 45}
		require.NoError(t, s.Apply(ActionReforest))
		assert.Equal(t, meter.Meter(30), s.Protection)
		assert.Equal(t, meter.Meter(40), s.Forest)
	})

	t.Run("terraces reach the goal", func(t *testing.T) {
		s := NewSierraBoard()
		for range 4 {
			require.NoError(t, s.Apply(ActionCultivateTerraces))
		}
		assert.Equal(t, meter.Meter(85), s.Ecosystem)
		assert.True(t, s.CanComplete())
	})

	t.Run("unknown action", func(t *testing.T) {
		assert.True(t, errors.Is(NewSierraBoard().Apply("dance"), ErrActionUnavailable))
	})
}

func TestSelvaBoard(t *testing.T) {
	s := NewSelvaBoard()
	assert.False(t, available(s, ActionPlantTrees), "deforestation too high to plant")
	assert.True(t, errors.Is(s.Apply(ActionPlantTrees), ErrActionUnavailable))

	require.NoError(t, s.Apply(ActionStopDeforestation))
	assert.Equal(t, meter.Meter(15), s.Deforestation)
	assert.Equal(t, meter.Meter(75), s.Ecosystem)
	assert.Equal(t, meter.Meter(75), s.Biodiversity)
	assert.False(t, s.CanComplete())

	require.NoError(t, s.Apply(ActionPlantTrees))
	assert.Equal(t, meter.Meter(65), s.CO2)
	assert.Equal(t, meter.Meter(90), s.Ecosystem)
	assert.False(t, s.CanComplete(), "deforestation still at 15")

	require.NoError(t, s.Apply(ActionStopDeforestation))
	assert.Equal(t, meter.Meter(0), s.Deforestation)
	assert.False(t, available(s, ActionStopDeforestation))
	assert.True(t, s.CanComplete())

	require.NoError(t, s.Apply(ActionActivateSensors))
	assert.Equal(t, meter.Meter(100), s.Biodiversity)
}
