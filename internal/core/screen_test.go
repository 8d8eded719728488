package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blank {
				t.Fatalf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}
	if s.GetCell(5, 5).Color != ColorDefault {
		t.Errorf("Set should use the default color, got %d", s.GetCell(5, 5).Color)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.GetCell(100, 0) != blank {
		t.Error("Out of bounds GetCell should return a blank cell")
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetColor(1, 1, '@', ColorCyan)

	got := s.GetCell(1, 1)
	if got.Rune != '@' || got.Color != ColorCyan {
		t.Errorf("GetCell(1, 1) = %+v, expected {@ cyan}", got)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(0, 0, 10, 10), 'X', ColorRed)

	s.Clear()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if c := s.GetCell(x, y); c != blank {
				t.Errorf("After Clear, expected blank at (%d, %d), got %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")

	expected := "Hello"
	for i, ch := range expected {
		if s.Get(2+i, 1) != ch {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", ch, 2+i, s.Get(2+i, 1))
		}
	}

	// Text should be clipped at boundaries
	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenDrawTextMultibyte(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextColor(0, 0, "★●◆", ColorYellow)

	for i, want := range []rune{'★', '●', '◆'} {
		c := s.GetCell(i, 0)
		if c.Rune != want || c.Color != ColorYellow {
			t.Errorf("cell %d = %+v, expected %q in yellow", i, c, want)
		}
	}
	if s.Get(3, 0) != ' ' {
		t.Error("multibyte text should advance one column per rune")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi", ColorGreen)

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}
	if s.GetCell(x, 2).Color != ColorGreen {
		t.Error("DrawTextCentered should apply the color")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), '#', ColorDefault)

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != '#' {
				t.Errorf("DrawRect: expected '#' at (%d, %d), got %q", x, y, s.Get(x, y))
			}
		}
	}
	if s.Get(1, 1) != ' ' || s.Get(5, 5) != ' ' {
		t.Error("DrawRect should not affect outside area")
	}
}

func TestScreenDrawBox(t *testing.T) {
	tests := []struct {
		name   string
		style  BoxStyle
		corner rune
		edge   rune
	}{
		{"light", BoxLight, '┌', '─'},
		{"heavy", BoxHeavy, '┏', '━'},
		{"double", BoxDouble, '╔', '═'},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScreen(10, 10)
			s.DrawBox(NewRect(1, 1, 5, 4), tc.style, ColorBlue)

			if s.Get(1, 1) != tc.corner {
				t.Errorf("Top-left corner = %q, expected %q", s.Get(1, 1), tc.corner)
			}
			for x := 2; x < 5; x++ {
				if s.Get(x, 1) != tc.edge || s.Get(x, 4) != tc.edge {
					t.Errorf("horizontal edge at x=%d = %q/%q, expected %q", x, s.Get(x, 1), s.Get(x, 4), tc.edge)
				}
			}
			if s.GetCell(5, 4).Color != ColorBlue {
				t.Error("box should be drawn in the requested color")
			}
			if s.Get(3, 2) != ' ' {
				t.Error("box interior should stay empty")
			}
		})
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	result := s.String()
	expected := "AAAAA\nBBBBB\nCCCCC"

	if result != expected {
		t.Errorf("String() = %q, expected %q", result, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColor(0, 0, "Hello", ColorRed)
	s.DrawText(0, 5, "World")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("After resize, dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}

	row0 := s.Row(0)
	if !strings.HasPrefix(row0, "Hello") {
		t.Errorf("Content should be preserved, row 0 = %q", row0)
	}
	if s.GetCell(0, 0).Color != ColorRed {
		t.Error("Colors should be preserved across resize")
	}

	s.Resize(15, 8)
	row0 = s.Row(0)
	if !strings.HasPrefix(row0, "Hello") {
		t.Errorf("Content should be preserved after enlarging, row 0 = %q", row0)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "Test")

	row := s.Row(2)
	if !strings.HasPrefix(row, "Test") {
		t.Errorf("Row(2) should start with 'Test', got %q", row)
	}
	if len(row) != 10 {
		t.Errorf("Row length should be 10, got %d", len(row))
	}

	if outOfBounds := s.Row(-1); outOfBounds != "          " {
		t.Errorf("Out of bounds row should be spaces, got %q", outOfBounds)
	}
}
