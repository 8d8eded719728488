package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
		{3, 3, 3, 3},    // single value range
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		val, n, expected int
	}{
		{0, 4, 0},
		{3, 4, 3},
		{4, 4, 0},
		{-1, 4, 3},
		{-5, 4, 3},
		{9, 4, 1},
	}

	for _, tc := range tests {
		if got := Wrap(tc.val, tc.n); got != tc.expected {
			t.Errorf("Wrap(%d, %d) = %d, expected %d", tc.val, tc.n, got, tc.expected)
		}
	}
}

func TestFaceColor(t *testing.T) {
	if FaceColor(-1) != ColorDefault {
		t.Error("negative identity should use the default color")
	}
	if FaceColor(0) == ColorDefault {
		t.Error("face colors should never be the default color")
	}
	if FaceColor(0) != FaceColor(len(facePalette)) {
		t.Error("face colors should cycle through the palette")
	}
	if FaceColor(0) == FaceColor(1) {
		t.Error("adjacent identities should get different colors")
	}
}
