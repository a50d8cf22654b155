package progression

import "github.com/vovakirdan/tui-idle/internal/bignum"

// Resource is an upgradeable progression track owned by the caller.
// Level only increases through Buy/BuyMax and TotalSpent only accumulates.
// A Resource must not be mutated from more than one goroutine.
type Resource struct {
	Level      int64
	Curve      Curve
	TotalSpent bignum.Number
}

// NewResource creates a level-0 resource on the given curve.
func NewResource(curve Curve) *Resource {
	return &Resource{Curve: curve}
}

// NextCost returns the price of the next single level.
func (r *Resource) NextCost() bignum.Number {
	return r.Curve.NextLevelCost(r.Level)
}

// Preview returns what BuyMax would buy with wallet, without mutating anything.
func (r *Resource) Preview(wallet bignum.Number) Purchase {
	return r.Curve.BuyMax(r.Level, wallet)
}

// Buy purchases exactly n levels if wallet covers them, deducting the cost.
func (r *Resource) Buy(wallet *bignum.Number, n int64) (Purchase, bool) {
	p, ok := r.Curve.BuyN(r.Level, n, *wallet)
	if !ok {
		return Purchase{Cost: bignum.Zero, NewLevel: r.Level}, false
	}
	r.apply(p, wallet)
	return p, true
}

// BuyMax purchases as many levels as wallet allows.
func (r *Resource) BuyMax(wallet *bignum.Number) Purchase {
	p := r.Curve.BuyMax(r.Level, *wallet)
	if p.Levels > 0 {
		r.apply(p, wallet)
	}
	return p
}

func (r *Resource) apply(p Purchase, wallet *bignum.Number) {
	r.Level = p.NewLevel
	r.TotalSpent = r.TotalSpent.Add(p.Cost)
	// Rounding in the last digit must not leave a negative balance.
	*wallet = wallet.Sub(p.Cost).Max(bignum.Zero)
}
