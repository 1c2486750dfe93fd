package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/arrowbeat/internal/core"
)

func TestEveryColorHasAStyle(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorGuide; c++ {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("color %d has no style", c)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColor(0, 0, "PERF", core.ColorPerfect)
	s.SetColor(0, 1, '│', core.ColorGuide)

	out := RenderScreen(s)
	if !strings.Contains(out, "PERF") || !strings.Contains(out, "│") {
		t.Errorf("RenderScreen() = %q, lost cell text", out)
	}
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("RenderScreen() has %d newlines, expected 1", n)
	}
}
