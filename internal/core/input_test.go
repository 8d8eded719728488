package core

import (
	"slices"
	"testing"
)

func TestInputFrameKeepsPressOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRight)
	f.Set(ActionNone)
	f.Set(ActionRight)
	f.Set(ActionFlip)

	want := []Action{ActionRight, ActionRight, ActionFlip}
	if !slices.Equal(f.Actions, want) {
		t.Errorf("Actions = %v, expected %v", f.Actions, want)
	}
	if f.Count(ActionRight) != 2 {
		t.Errorf("Count(Right) = %d, expected 2", f.Count(ActionRight))
	}
	if !f.Has(ActionFlip) || f.Has(ActionLeft) {
		t.Error("Has() reports the wrong actions")
	}
}

func TestInputFrameClearAndClone(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionUp)
	clone := f.Clone()

	f.Clear()
	if !f.Empty() {
		t.Error("frame should be empty after Clear")
	}
	if !clone.Has(ActionUp) {
		t.Error("clone should not be affected by Clear")
	}

	f.Set(ActionDown)
	if clone.Has(ActionDown) {
		t.Error("clone should not share storage with the original")
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionNone, "None"},
		{ActionLeft, "Left"},
		{ActionFlip, "Flip"},
		{ActionRestart, "Restart"},
		{Action(99), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.action.String(); got != tc.expected {
			t.Errorf("Action(%d).String() = %q, expected %q", tc.action, got, tc.expected)
		}
	}
}
