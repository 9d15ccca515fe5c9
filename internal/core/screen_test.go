package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)
	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("dimensions = %dx%d, expected 80x24", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("new screen should be blank, got %q at (%d, %d)", s.Get(x, y), x, y)
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

	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Trial")
	if !strings.HasPrefix(s.Row(1)[2:], "Trial") {
		t.Errorf("row 1 = %q", s.Row(1))
	}

	s.DrawText(18, 0, "Hello")
	if s.Get(18, 0) != 'H' || s.Get(19, 0) != 'e' {
		t.Error("text should be clipped at the right boundary")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), '#')

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != '#' {
				t.Errorf("expected '#' at (%d, %d), got %q", x, y, s.Get(x, y))
			}
		}
	}
	if s.Get(1, 1) != ' ' || s.Get(5, 5) != ' ' {
		t.Error("DrawRect should not touch the outside area")
	}
}

func TestScreenClearAndResize(t *testing.T) {
	s := NewScreen(10, 4)
	s.DrawHLine(0, 3, 10, '=')
	s.Resize(6, 2)
	if s.Width() != 6 || s.Height() != 2 {
		t.Fatalf("after resize: %dx%d", s.Width(), s.Height())
	}
	if s.String() != "      \n      " {
		t.Errorf("resized screen should be blank, got %q", s.String())
	}

	s.DrawText(0, 0, "abc")
	s.Clear()
	if s.Row(0) != "      " {
		t.Errorf("Clear should blank the row, got %q", s.Row(0))
	}
	if s.Row(-1) != "      " {
		t.Error("out of bounds row should be spaces")
	}
}

func TestViewportProject(t *testing.T) {
	v := Viewport{WorldW: 280, WorldH: 512, ScreenW: 70, ScreenH: 32}

	tests := []struct {
		name     string
		in       Rect
		expected Rect
	}{
		{"scaled", NewRect(40, 64, 40, 64), NewRect(10, 4, 10, 4)},
		{"tiny box keeps a cell", NewRect(0, 0, 1, 1), NewRect(0, 0, 1, 1)},
		{"off-screen left", NewRect(-52, 0, 52, 16), NewRect(-13, 0, 13, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Project(tc.in); got != tc.expected {
				t.Errorf("Project(%+v) = %+v, expected %+v", tc.in, got, tc.expected)
			}
		})
	}

	if row := v.ProjectY(256); row != 16 {
		t.Errorf("ProjectY(256) = %d, expected 16", row)
	}
}
