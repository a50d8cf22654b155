package config

import (
	"fmt"
	"strings"
)

// Pace is a named preset that rescales a ruleset's economy.
type Pace string

const (
	PaceRelaxed Pace = "relaxed"
	PaceNormal  Pace = "normal"
	PaceHard    Pace = "hard"
)

// ParsePace parses a pace name; empty means normal.
func ParsePace(s string) (Pace, error) {
	switch p := Pace(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaceNormal, nil
	case PaceRelaxed, PaceNormal, PaceHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown pace %q (want relaxed, normal or hard)", s)
	}
}

// CostFactor multiplies every track's base price.
func (p Pace) CostFactor() float64 {
	switch p {
	case PaceRelaxed:
		return 0.5
	case PaceHard:
		return 2
	default:
		return 1
	}
}

// OutputFactor multiplies every track's output.
func (p Pace) OutputFactor() float64 {
	switch p {
	case PaceRelaxed:
		return 1.5
	case PaceHard:
		return 0.75
	default:
		return 1
	}
}

// ApplyPace rescales cfg in place. Scales are left alone so that the shape of
// every curve, and therefore buy-max behaviour, is unchanged.
func ApplyPace(cfg *GameConfig, p Pace) {
	if p == PaceNormal || p == "" {
		return
	}
	for i := range cfg.Tracks {
		cfg.Tracks[i].Base *= p.CostFactor()
		cfg.Tracks[i].Output *= p.OutputFactor()
	}
}
