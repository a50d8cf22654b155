// Package idle implements the incremental games: a wallet of one currency, a set
// of upgrade tracks priced on geometric curves, and breakthrough milestones that
// multiply each track's output.
package idle

import (
	"fmt"
	"slices"
	"time"

	"github.com/vovakirdan/tui-idle/internal/bignum"
	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/progression"
	"github.com/vovakirdan/tui-idle/internal/registry"
)

// statusSeconds is how long a status message stays on screen.
const statusSeconds = 3

var notationCycle = []bignum.Notation{
	bignum.NotationScientific,
	bignum.NotationStandard,
	bignum.NotationEngineering,
}

// Game is one idle ruleset in play.
type Game struct {
	cfg    config.GameConfig
	format bignum.Formatter
	tracks []*progression.Resource

	wallet bignum.Number
	peak   bignum.Number
	income bignum.Number // Per second, valid while !dirty
	dirty  bool

	ticks    int64
	tickRate int
	selected int
	paused   bool

	status     string
	statusLeft int // Ticks until the status line clears
}

var (
	_ registry.Game         = (*Game)(nil)
	_ registry.Configurable = (*Game)(nil)
)

// New creates a game for a validated ruleset and starts a fresh run.
func New(cfg config.GameConfig) *Game {
	g := &Game{}
	g.setConfig(cfg)
	g.Reset(core.DefaultConfig())
	return g
}

func (g *Game) setConfig(cfg config.GameConfig) {
	cfg.Tracks = slices.Clone(cfg.Tracks)
	g.cfg = cfg
	f, err := cfg.Format.Formatter()
	if err != nil {
		f = bignum.DefaultFormatter()
	}
	g.format = f
}

// Configure replaces the ruleset and starts a fresh run with it.
func (g *Game) Configure(cfg config.GameConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.setConfig(cfg)
	g.Reset(core.RuntimeConfig{TickRate: g.tickRate})
	return nil
}

// ID returns the ruleset ID.
func (g *Game) ID() string { return g.cfg.ID }

// Title returns the ruleset title.
func (g *Game) Title() string { return g.cfg.Title }

// Config returns the active ruleset.
func (g *Game) Config() config.GameConfig { return g.cfg }

// Formatter returns the formatter currently used for display.
func (g *Game) Formatter() bignum.Formatter { return g.format }

// Reset starts a fresh run with the starting balance and every track at level 0.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}

	g.tracks = make([]*progression.Resource, len(g.cfg.Tracks))
	for i, t := range g.cfg.Tracks {
		g.tracks[i] = progression.NewResource(t.Curve())
	}
	g.wallet = g.cfg.StartCurrency
	g.peak = g.wallet
	g.ticks = 0
	g.selected = 0
	g.paused = false
	g.status = ""
	g.statusLeft = 0
	g.dirty = true
}

// Step applies input and then one tick of production.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	events := g.handleInput(in)

	if !g.paused {
		g.credit(g.Income().Scale(1 / float64(g.tickRate)))
		g.ticks++
	}
	if g.statusLeft > 0 {
		g.statusLeft--
		if g.statusLeft == 0 {
			g.status = ""
		}
	}
	return core.StepResult{State: g.State(), Events: events}
}

func (g *Game) handleInput(in core.InputFrame) []core.Event {
	n := len(g.tracks)
	switch {
	case in.Has(core.ActionUp):
		g.selected = core.Wrap(g.selected-1, n)
	case in.Has(core.ActionDown):
		g.selected = core.Wrap(g.selected+1, n)
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionNotation) {
		g.cycleNotation()
	}

	switch {
	case in.Has(core.ActionBuyAll):
		return g.buyAll()
	case in.Has(core.ActionBuyMax):
		return g.buy(g.selected, true, true)
	case in.Has(core.ActionBuy):
		return g.buy(g.selected, false, true)
	}
	return nil
}

// buy purchases one level, or as many as affordable, on track i.
func (g *Game) buy(i int, all, report bool) []core.Event {
	if i < 0 || i >= len(g.tracks) {
		return nil
	}
	r, tc := g.tracks[i], g.cfg.Tracks[i]
	before := r.Level

	var p progression.Purchase
	ok := true
	if all {
		p = r.BuyMax(&g.wallet)
		ok = p.Levels > 0
	} else {
		p, ok = r.Buy(&g.wallet, 1)
	}
	if !ok {
		if report {
			g.setStatus(fmt.Sprintf("Not enough %s for %s (%s)", g.cfg.Currency, tc.Name, g.format.Format(r.NextCost())))
		}
		return nil
	}
	g.dirty = true

	events := []core.Event{{
		Kind:   core.EventPurchase,
		Track:  tc.ID,
		Levels: p.Levels,
		Cost:   p.Cost,
		Level:  p.NewLevel,
	}}
	if report {
		g.setStatus(fmt.Sprintf("%s +%d → Lv %d for %s", tc.Name, p.Levels, p.NewLevel, g.format.Format(p.Cost)))
	}

	mb, ma := g.cfg.Milestones.Multiplier(before), g.cfg.Milestones.Multiplier(p.NewLevel)
	if ma.Greater(mb) {
		events = append(events, core.Event{Kind: core.EventMilestone, Track: tc.ID, Level: p.NewLevel})
		g.setStatus(fmt.Sprintf("%s breakthrough! Output ×%s", tc.Name, g.format.Format(ma.Div(mb))))
	}
	return events
}

// buyAll spends on every track, most expensive first.
func (g *Game) buyAll() []core.Event {
	var events []core.Event
	var levels int64
	spent := bignum.Zero
	for i := len(g.tracks) - 1; i >= 0; i-- {
		for _, e := range g.buy(i, true, false) {
			if e.Kind == core.EventPurchase {
				levels += e.Levels
				spent = spent.Add(e.Cost)
			}
			events = append(events, e)
		}
	}
	if levels == 0 {
		g.setStatus("Nothing affordable")
	} else if !g.hasMilestone(events) {
		g.setStatus(fmt.Sprintf("Bought %d levels for %s", levels, g.format.Format(spent)))
	}
	return events
}

func (g *Game) hasMilestone(events []core.Event) bool {
	for _, e := range events {
		if e.Kind == core.EventMilestone {
			return true
		}
	}
	return false
}

func (g *Game) cycleNotation() {
	i := slices.Index(notationCycle, g.format.Notation)
	g.format.Notation = notationCycle[core.Wrap(i+1, len(notationCycle))]
	g.setStatus("Notation: " + string(g.format.Notation))
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusLeft = statusSeconds * g.tickRate
}

// credit adds currency and tracks the peak balance.
func (g *Game) credit(amount bignum.Number) {
	if amount.Sign() <= 0 {
		return
	}
	g.wallet = g.wallet.Add(amount)
	g.peak = g.peak.Max(g.wallet)
}

// TrackIncome returns the per-second output of track i:
// output × level × milestone multiplier.
func (g *Game) TrackIncome(i int) bignum.Number {
	level := g.tracks[i].Level
	if level == 0 {
		return bignum.Zero
	}
	return bignum.FromFloat(g.cfg.Tracks[i].Output).
		Mul(bignum.FromInt(level)).
		Mul(g.cfg.Milestones.Multiplier(level))
}

// Income returns total production per second.
func (g *Game) Income() bignum.Number {
	if g.dirty {
		total := bignum.Zero
		for i := range g.tracks {
			total = total.Add(g.TrackIncome(i))
		}
		g.income = total
		g.dirty = false
	}
	return g.income
}

// Level returns the level of track i.
func (g *Game) Level(i int) int64 { return g.tracks[i].Level }

// State returns the current status.
func (g *Game) State() core.GameState {
	return core.GameState{
		Currency: g.wallet,
		Income:   g.Income(),
		Peak:     g.peak,
		Ticks:    g.ticks,
		Paused:   g.paused,
	}
}

// Advance credits income for time away, capped and scaled by the offline settings.
func (g *Game) Advance(elapsed time.Duration) core.OfflineReport {
	rep := core.OfflineReport{Elapsed: elapsed, Gain: bignum.Zero}
	off := g.cfg.Offline
	if elapsed <= 0 || !off.Enabled {
		return rep
	}

	rep.Credited = elapsed
	if limit := off.Cap(); limit > 0 && elapsed > limit {
		rep.Credited = limit
	}
	rep.Gain = g.Income().Scale(rep.Credited.Seconds() * off.Efficiency)
	g.credit(rep.Gain)

	if rep.Gain.Sign() > 0 {
		g.setStatus(fmt.Sprintf("Welcome back! +%s %s while away", g.format.Format(rep.Gain), g.cfg.Currency))
	}
	return rep
}

// Snapshot captures the run.
func (g *Game) Snapshot() core.Snapshot {
	s := core.Snapshot{
		GameID:   g.cfg.ID,
		Currency: g.wallet,
		Peak:     g.peak,
		Ticks:    g.ticks,
		Tracks:   make([]core.TrackSnapshot, len(g.tracks)),
	}
	for i, r := range g.tracks {
		s.Tracks[i] = core.TrackSnapshot{
			ID:         g.cfg.Tracks[i].ID,
			Level:      r.Level,
			TotalSpent: r.TotalSpent,
		}
	}
	return s
}

// Restore resumes a saved run. Tracks missing from the snapshot start at level 0;
// tracks the ruleset no longer has are dropped.
func (g *Game) Restore(s core.Snapshot) error {
	if s.GameID != g.cfg.ID {
		return fmt.Errorf("idle: snapshot is for %q, not %q", s.GameID, g.cfg.ID)
	}

	for i, tc := range g.cfg.Tracks {
		r := progression.NewResource(tc.Curve())
		if ts, ok := s.Track(tc.ID); ok {
			r.Level = min(max(ts.Level, 0), progression.MaxLevel)
			r.TotalSpent = ts.TotalSpent.Max(bignum.Zero)
		}
		g.tracks[i] = r
	}
	g.wallet = s.Currency.Max(bignum.Zero)
	g.peak = s.Peak.Max(g.wallet)
	g.ticks = max(s.Ticks, 0)
	g.dirty = true
	return nil
}
