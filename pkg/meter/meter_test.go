package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeter_Add(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  Meter
	}{
		{"increment within range", 40, 20, 60},
		{"increment clamps at max", 90, 20, 100},
		{"decrement within range", 40, -15, 25},
		{"decrement clamps at min", 10, -20, 0},
		{"zero delta", 55, 0, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.start).Add(tt.delta))
		})
	}
}

func TestNew_Clamps(t *testing.T) {
	assert.Equal(t, Meter(0), New(-5))
	assert.Equal(t, Meter(100), New(250))
	assert.True(t, New(100).Full())
	assert.True(t, New(0).Empty())
	assert.False(t, New(50).Full())
}
