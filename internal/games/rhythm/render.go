package rhythm

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/arrowbeat/internal/core"
	"github.com/vovakirdan/arrowbeat/internal/games/rhythm/engine"
)

// Playfield geometry in screen cells.
const (
	LaneWidth     = 7
	HUDRows       = 2
	HitLineMargin = 4 // rows between the hit line and the bottom edge
)

// Visual characters for rendering
const (
	LaneEdgeChar = '│'
	HitLineChar  = '═'
	TrailChar    = '┊'
)

var laneColors = [engine.LaneCount]core.Color{
	engine.LaneLeft:  core.ColorBrightMagenta,
	engine.LaneDown:  core.ColorBrightCyan,
	engine.LaneUp:    core.ColorBrightGreen,
	engine.LaneRight: core.ColorBrightRed,
}

func verdictColor(v engine.Verdict) core.Color {
	switch v {
	case engine.VerdictPerfect:
		return core.ColorPerfect
	case engine.VerdictGood:
		return core.ColorGood
	case engine.VerdictMiss:
		return core.ColorMiss
	default:
		return core.ColorGray
	}
}

// HitLine returns the hit line row for a screen of height h.
func HitLine(h int) int {
	return core.Max(HUDRows+2, h-HitLineMargin)
}

// Render draws the playfield, HUD and overlays.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.Snapshot()

	w, h := dst.Width(), dst.Height()
	fieldW := LaneWidth*engine.LaneCount + 1
	left := (w - fieldW) / 2
	hit := HitLine(h)

	g.drawLanes(dst, left, hit)
	g.drawNotes(dst, snap, left, hit)
	g.drawReceptors(dst, snap, left, hit)
	g.drawJudgement(dst, snap, hit)
	g.drawHUD(dst, snap)

	switch {
	case snap.Phase == engine.PhaseCountingIn:
		g.drawCountdown(dst, snap)
	case g.ended:
		g.drawResults(dst)
	}
}

func laneCenter(left int, lane engine.Lane) int {
	return left + int(lane)*LaneWidth + LaneWidth/2 + 1
}

func (g *Game) drawLanes(dst *core.Screen, left, hit int) {
	top := HUDRows
	for i := 0; i <= engine.LaneCount; i++ {
		dst.DrawVLine(left+i*LaneWidth, top, dst.Height()-top, LaneEdgeChar, core.ColorGuide)
	}
	dst.DrawHLine(left, hit+1, LaneWidth*engine.LaneCount+1, HitLineChar, core.ColorGuide)
}

func (g *Game) drawNotes(dst *core.Screen, snap engine.Snapshot, left, hit int) {
	for _, n := range snap.Notes {
		if !n.Pending() {
			continue
		}
		y := int(math.Round(engine.NoteY(n, snap.SongTime, hit, snap.Config.ScrollSpeed)))
		if y < HUDRows || y > hit+1 {
			continue
		}
		x := laneCenter(left, n.Lane)
		dst.SetColor(x, y, n.Lane.Arrow(), laneColors[n.Lane])
		if y > HUDRows {
			dst.SetColor(x, y-1, TrailChar, core.ColorGuide)
		}
	}
}

func (g *Game) drawReceptors(dst *core.Screen, snap engine.Snapshot, left, hit int) {
	for l := engine.Lane(0); l < engine.LaneCount; l++ {
		x := laneCenter(left, l)
		c := core.ColorWhite

		if snap.SongTime-g.pressedAt[l] < PressGlow {
			c = laneColors[l]
		}
		if f := g.flashes[l]; f.verdict != engine.VerdictNone && snap.SongTime-f.at < PressGlow {
			c = verdictColor(f.verdict)
		}

		dst.SetColor(x-2, hit, '[', core.ColorGray)
		dst.SetColor(x, hit, l.Arrow(), c)
		dst.SetColor(x+2, hit, ']', core.ColorGray)
	}
}

func (g *Game) drawJudgement(dst *core.Screen, snap engine.Snapshot, hit int) {
	f := g.last
	if f.verdict == engine.VerdictNone || snap.SongTime-f.at > JudgementHold {
		return
	}
	text := strings.ToUpper(f.verdict.String())
	if f.verdict != engine.VerdictMiss {
		text += fmt.Sprintf(" %+dms", int(math.Round(f.offset*1000)))
	}
	if snap.Combo > 1 {
		text += fmt.Sprintf("  x%d", snap.Combo)
	}
	dst.DrawTextCentered(hit+2, text, verdictColor(f.verdict))
}

func (g *Game) drawHUD(dst *core.Screen, snap engine.Snapshot) {
	title := fmt.Sprintf(" %s [%s] ", g.Title(), g.difficulty)
	dst.DrawTextColor(1, 0, title, core.ColorBrightWhite)

	stats := fmt.Sprintf("Score %07d  Combo %3d  Acc %3d%% ", snap.Score, snap.Combo, snap.Accuracy)
	dst.DrawTextColor(dst.Width()-len(stats)-1, 0, stats, core.ColorBrightCyan)

	// Progress bar across the second row.
	barW := dst.Width() - 2
	if barW <= 0 || snap.Config.Duration <= 0 {
		return
	}
	progress := (snap.SongTime - snap.Config.StartOffset) / snap.Config.Duration
	filled := core.Clamp(int(progress*float64(barW)), 0, barW)
	dst.DrawHLine(1, 1, filled, '━', core.ColorBlue)
	dst.DrawHLine(1+filled, 1, barW-filled, '─', core.ColorGray)
}

func (g *Game) drawCountdown(dst *core.Screen, snap engine.Snapshot) {
	n := snap.CountdownRemaining()
	if n <= 0 {
		return
	}
	g.drawCenteredMessage(dst, []string{fmt.Sprintf("%d", n), "Get ready"}, core.ColorBrightYellow)
}

func (g *Game) drawResults(dst *core.Screen) {
	r := g.result
	lines := []string{
		"SONG COMPLETE",
		"",
		fmt.Sprintf("Score     %8d", r.Score),
		fmt.Sprintf("Accuracy  %7d%%", r.Accuracy),
		fmt.Sprintf("Max combo %8d", r.MaxCombo),
		fmt.Sprintf("Hits      %4d/%-3d", r.HitCount, r.TotalNotes),
		fmt.Sprintf("P %d  G %d  M %d", r.Perfects, r.Goods, r.Misses),
	}
	g.drawCenteredMessage(dst, lines, core.ColorBrightWhite)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, lines []string, c core.Color) {
	boxW := 0
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW += 6
	boxH := len(lines) + 2

	r := core.CenteredRect(dst.Width(), dst.Height(), boxW, boxH)
	dst.DrawRect(r, ' ')
	dst.DrawBox(r, core.ColorGray)

	for i, l := range lines {
		x := r.X + (boxW-len([]rune(l)))/2
		dst.DrawTextColor(x, r.Y+1+i, l, c)
	}
}
