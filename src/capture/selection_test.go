package capture

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionDragCommit(t *testing.T) {
	var s Selection
	assert.Equal(t, PhaseIdle, s.Phase())
	s.Arm()
	assert.Equal(t, PhaseArmed, s.Phase())

	assert.True(t, s.Press(image.Pt(100, 80)))
	assert.Equal(t, PhaseDragging, s.Phase())
	assert.True(t, s.Move(image.Pt(40, 20)))
	assert.False(t, s.Move(image.Pt(40, 20)), "same point needs no redraw")
	assert.Equal(t, image.Rect(40, 20, 100, 80), s.Rect())

	r, ok := s.Release(image.Pt(30, 10))
	assert.True(t, ok)
	assert.Equal(t, image.Rect(30, 10, 100, 80), r)
	assert.Equal(t, PhaseCommitting, s.Phase())
	assert.True(t, s.Terminal())

	assert.False(t, s.Press(image.Pt(0, 0)))
	assert.False(t, s.Cancel())
}

func TestSelectionZeroSizeIsNotCommittable(t *testing.T) {
	tests := []struct {
		name string
		end  image.Point
	}{
		{"click", image.Pt(10, 10)},
		{"horizontal line", image.Pt(50, 10)},
		{"vertical line", image.Pt(10, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selection
			s.Arm()
			s.Press(image.Pt(10, 10))
			_, ok := s.Release(tt.end)
			assert.False(t, ok)
			assert.Equal(t, PhaseCancelled, s.Phase())
		})
	}
}

func TestSelectionCancel(t *testing.T) {
	var s Selection
	s.Arm()
	assert.True(t, s.Cancel())
	assert.Equal(t, PhaseCancelled, s.Phase())
	assert.False(t, s.Move(image.Pt(1, 1)))
	_, ok := s.Release(image.Pt(5, 5))
	assert.False(t, ok)

	var d Selection
	d.Arm()
	d.Press(image.Pt(1, 1))
	d.Move(image.Pt(20, 20))
	assert.True(t, d.Cancel())
	assert.Equal(t, image.Rectangle{}, d.Rect())
}

func TestSelectionIgnoresMoveBeforePress(t *testing.T) {
	var s Selection
	s.Arm()
	assert.False(t, s.Move(image.Pt(3, 3)))
	_, ok := s.Release(image.Pt(3, 3))
	assert.False(t, ok)
	assert.Equal(t, PhaseArmed, s.Phase())
}
