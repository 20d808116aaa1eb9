package minigame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/meter"
)

func testTrash() []content.Item {
	items := make([]content.Item, 0, 20)
	for id := 1; id <= 20; id++ {
		items = append(items, content.Item{ID: id, Good: id <= 15})
	}
	return items
}

func TestCleanup_Pick(t *testing.T) {
	items := testTrash()
	c := NewCleanup(items)
	assert.Equal(t, 7, c.Step)

	for id := 1; id <= 14; id++ {
		_, err := c.Pick(id, items)
		require.NoError(t, err)
		assert.LessOrEqual(t, c.Cleaned.Int(), meter.Max)
	}
	assert.Equal(t, meter.Meter(98), c.Cleaned)
	assert.False(t, c.Done())
	assert.True(t, errors.Is(c.Complete(), ErrNotFinished))

	_, err := c.Pick(15, items)
	require.NoError(t, err)
	assert.Equal(t, meter.Meter(100), c.Cleaned, "15th pick lands exactly on 100")
	assert.True(t, c.Done())
	assert.NoError(t, c.Complete())
	assert.Len(t, c.Remaining, 5)
}

func TestCleanup_NaturalItemsStay(t *testing.T) {
	items := testTrash()
	c := NewCleanup(items)

	for range 7 {
		it, err := c.Pick(16, items)
		require.NoError(t, err)
		assert.False(t, it.Good)
	}
	assert.Equal(t, 0, c.Lives, "lives floor at zero")
	assert.Contains(t, c.Remaining, 16)
	assert.Equal(t, meter.Meter(0), c.Cleaned)

	_, err := c.Pick(1, items)
	require.NoError(t, err)
	_, err = c.Pick(1, items)
	assert.True(t, errors.Is(err, ErrUnknownItem))
}
