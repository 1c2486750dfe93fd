package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(10, 5)

	if s.Width() != 10 {
		t.Errorf("Width() = %d, expected 10", s.Width())
	}
	if s.Height() != 5 {
		t.Errorf("Height() = %d, expected 5", s.Height())
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("Get(%d, %d) = %q, expected space", x, y, s.Get(x, y))
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 5)

	s.Set(3, 2, 'X')
	if got := s.Get(3, 2); got != 'X' {
		t.Errorf("Get(3, 2) = %q, expected 'X'", got)
	}

	// Out of bounds writes are ignored and reads return space.
	s.Set(-1, 0, 'Y')
	s.Set(10, 0, 'Y')
	s.Set(0, 5, 'Y')
	if got := s.Get(-1, 0); got != ' ' {
		t.Errorf("Get(-1, 0) = %q, expected space", got)
	}
	if got := s.Get(10, 0); got != ' ' {
		t.Errorf("Get(10, 0) = %q, expected space", got)
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetColor(1, 1, '↑', ColorCyan)

	c := s.GetCell(1, 1)
	if c.Rune != '↑' || c.Color != ColorCyan {
		t.Errorf("GetCell(1, 1) = %+v, expected {↑ cyan}", c)
	}

	s.Set(1, 1, 'x')
	if got := s.GetCell(1, 1).Color; got != ColorDefault {
		t.Errorf("Set() kept color %d, expected default", got)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(5, 3)
	s.SetColor(1, 1, 'X', ColorRed)
	s.Clear()

	c := s.GetCell(1, 1)
	if c.Rune != ' ' || c.Color != ColorDefault {
		t.Errorf("after Clear() cell = %+v, expected blank", c)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawText(2, 1, "Hello")

	if got := s.Row(1); got != "  Hello   " {
		t.Errorf("Row(1) = %q, expected %q", got, "  Hello   ")
	}

	// Clipped at the right edge.
	s.DrawText(8, 0, "abc")
	if got := s.Row(0); got != "        ab" {
		t.Errorf("Row(0) = %q, expected %q", got, "        ab")
	}
}

func TestScreenDrawTextColorMultibyte(t *testing.T) {
	s := NewScreen(6, 1)
	s.DrawTextColor(0, 0, "←↓↑→", ColorYellow)

	if got := s.Row(0); got != "←↓↑→  " {
		t.Errorf("Row(0) = %q, expected %q", got, "←↓↑→  ")
	}
	if got := s.GetCell(3, 0).Color; got != ColorYellow {
		t.Errorf("GetCell(3, 0).Color = %d, expected yellow", got)
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "abc", ColorDefault)

	if got := s.Row(0); got != "    abc    " {
		t.Errorf("Row(0) = %q, expected %q", got, "    abc    ")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawRect(NewRect(1, 1, 2, 2), '#')

	expected := []string{
		"     ",
		" ##  ",
		" ##  ",
		"     ",
	}
	for y, want := range expected {
		if got := s.Row(y); got != want {
			t.Errorf("Row(%d) = %q, expected %q", y, got, want)
		}
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawBox(NewRect(0, 0, 5, 3), ColorGray)

	expected := []string{
		"┌───┐",
		"│   │",
		"└───┘",
	}
	for y, want := range expected {
		if got := s.Row(y); got != want {
			t.Errorf("Row(%d) = %q, expected %q", y, got, want)
		}
	}
	if got := s.GetCell(0, 0).Color; got != ColorGray {
		t.Errorf("corner color = %d, expected gray", got)
	}
}

func TestScreenDrawLines(t *testing.T) {
	s := NewScreen(4, 4)
	s.DrawHLine(0, 3, 4, '═', ColorDefault)
	s.DrawVLine(1, 0, 3, '│', ColorDefault)

	if got := s.Row(3); got != "════" {
		t.Errorf("Row(3) = %q, expected %q", got, "════")
	}
	for y := 0; y < 3; y++ {
		if got := s.Get(1, y); got != '│' {
			t.Errorf("Get(1, %d) = %q, expected '│'", y, got)
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "ab")
	s.DrawText(0, 1, "cd")

	if got := s.String(); got != "ab \ncd " {
		t.Errorf("String() = %q, expected %q", got, "ab \ncd ")
	}
	if strings.Count(s.String(), "\n") != 1 {
		t.Error("String() should join rows with newlines")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawText(0, 0, "abcd")
	s.Resize(2, 3)

	if s.Width() != 2 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 2x3", s.Width(), s.Height())
	}
	if got := s.Row(0); got != "ab" {
		t.Errorf("Row(0) = %q, expected %q", got, "ab")
	}
	if got := s.Row(2); got != "  " {
		t.Errorf("Row(2) = %q, expected blank", got)
	}
}

func TestActionLane(t *testing.T) {
	tests := []struct {
		action Action
		lane   int
		ok     bool
	}{
		{ActionLaneLeft, 0, true},
		{ActionLaneDown, 1, true},
		{ActionLaneUp, 2, true},
		{ActionLaneRight, 3, true},
		{ActionBack, -1, false},
		{ActionNone, -1, false},
	}

	for _, tc := range tests {
		lane, ok := tc.action.Lane()
		if lane != tc.lane || ok != tc.ok {
			t.Errorf("%s.Lane() = (%d, %v), expected (%d, %v)", tc.action, lane, ok, tc.lane, tc.ok)
		}
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if f.Has(ActionBack) {
		t.Error("new frame should be empty")
	}
	f.Set(ActionBack)
	if !f.Has(ActionBack) {
		t.Error("Has(Back) = false after Set")
	}
	f.Clear()
	if f.Has(ActionBack) {
		t.Error("Has(Back) = true after Clear")
	}

	var zero InputFrame
	zero.Set(ActionQuit)
	if !zero.Has(ActionQuit) {
		t.Error("Set on zero frame should allocate")
	}
}
