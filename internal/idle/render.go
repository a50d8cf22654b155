package idle

import (
	"fmt"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/core"
)

const (
	headerRows = 3
	footerRows = 3
	nameWidth  = 18
	helpLine   = "↑/↓ select  b buy  m max  a all  n notation  p pause  esc menu  q quit"
)

// Render draws the header, the track list and the footer.
func (g *Game) Render(dst *core.Screen) {
	area := core.NewRect(0, 0, dst.Width(), dst.Height())
	header, rest := area.SplitTop(headerRows)
	list, footer := rest.SplitBottom(footerRows)

	g.renderHeader(dst, header)
	g.renderTracks(dst, list)
	g.renderFooter(dst, footer)
}

func (g *Game) renderHeader(dst *core.Screen, r core.Rect) {
	dst.DrawTextColor(r.X+1, r.Y, g.cfg.Title, core.ColorTitle)
	if g.paused {
		dst.DrawTextRight(r.Right()-1, r.Y, "PAUSED", core.ColorWarning)
	}

	x := dst.DrawTextColor(r.X+1, r.Y+1, fmt.Sprintf("%s: %s", g.cfg.Currency, g.format.Format(g.wallet)), core.ColorTitle)
	dst.DrawTextColor(x+2, r.Y+1, fmt.Sprintf("+%s/s", g.format.Format(g.Income())), core.ColorIncome)
	dst.DrawTextRight(r.Right()-1, r.Y+1, "peak "+g.format.Format(g.peak), core.ColorMuted)
}

func (g *Game) renderTracks(dst *core.Screen, r core.Rect) {
	dst.DrawBox(r, "Tracks", core.ColorMuted)
	inner := r.Inset(1)
	if inner.H <= 0 {
		return
	}

	offset := 0
	if g.selected >= inner.H {
		offset = g.selected - inner.H + 1
	}
	for row := 0; row < inner.H && offset+row < len(g.tracks); row++ {
		g.renderTrack(dst, inner.X, inner.Y+row, offset+row)
	}
}

func (g *Game) renderTrack(dst *core.Screen, x, y, i int) {
	tc, res := g.cfg.Tracks[i], g.tracks[i]
	next := res.NextCost()
	affordable := !next.Greater(g.wallet)

	nameColor := core.ColorDefault
	marker := "  "
	if i == g.selected {
		nameColor = core.ColorSelected
		marker = "› "
	}
	x = dst.DrawTextColor(x, y, marker+fmt.Sprintf("%-*s", nameWidth, core.Truncate(tc.Name, nameWidth)), nameColor)
	x = dst.DrawText(x, y, fmt.Sprintf(" Lv %-7d", res.Level))

	if mult := g.cfg.Milestones.Multiplier(res.Level); mult.Greater(bignum.One) {
		dst.DrawTextColor(x, y, "×"+g.format.Format(mult), core.ColorMilestone)
	}
	x += 11

	costColor := core.ColorLocked
	if affordable {
		costColor = core.ColorAffordable
	}
	x = dst.DrawTextColor(x, y, "next "+g.format.Format(next), costColor)

	if p := res.Preview(g.wallet); p.Levels > 1 {
		dst.DrawTextColor(x+2, y, fmt.Sprintf("max +%d", p.Levels), core.ColorAffordable)
	}
}

func (g *Game) renderFooter(dst *core.Screen, r core.Rect) {
	if len(g.tracks) > 0 {
		res := g.tracks[g.selected]
		next := res.NextCost()
		x := dst.DrawText(r.X+1, r.Y, "next level ")
		dst.DrawBar(x, r.Y, 20, g.wallet.Div(next).Float64(), core.ColorAffordable)
		x += 21

		if at, ok := g.cfg.Milestones.NextMilestone(res.Level); ok {
			gain := g.cfg.Milestones.Multiplier(at).Div(g.cfg.Milestones.Multiplier(res.Level))
			dst.DrawTextColor(x, r.Y, fmt.Sprintf("breakthrough at Lv %d (×%s)", at, g.format.Format(gain)), core.ColorMilestone)
		}
	}

	if g.status != "" {
		dst.DrawTextColor(r.X+1, r.Y+1, g.status, core.ColorMilestone)
	}
	dst.DrawTextColor(r.X+1, r.Y+2, core.Truncate(helpLine, r.W-2), core.ColorMuted)
}
