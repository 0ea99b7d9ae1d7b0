package domain

import "math"

// ScoringPolicy holds the weights of the route productivity formula.
// The score rewards pallet throughput relative to a weighted cost of average
// mileage and average customer count:
//
//	cost  = avgDistance*MileageWeight + avgCustomers*CustomerWeight
//	score = round(totalPallets / cost * 10, 1)
//
// The weights drifted across historical revisions of the report, so they are
// a policy parameter rather than constants.
type ScoringPolicy struct {
	MileageWeight  float64
	CustomerWeight float64
}

// DefaultScoringPolicy is the weighting of the most recent report revision.
var DefaultScoringPolicy = ScoringPolicy{MileageWeight: 0.4, CustomerWeight: 0.6}

// Productivity computes the productivity score for one route group.
// A zero cost (no mileage and no customers) yields 0, never a division error.
func (p ScoringPolicy) Productivity(totalPallets int, avgDistance, avgCustomers float64) float64 {
	cost := avgDistance*p.MileageWeight + avgCustomers*p.CustomerWeight
	if cost == 0 {
		return 0
	}
	return math.Round(float64(totalPallets)/cost*10*10) / 10
}

// BonusRates holds the per-unit payout rates of the monthly bonus formula:
// PalletRate per pallet moved (sent + received), BasketRate per empty basket
// returned, PlateRate per empty pallet returned. Amounts are in NT$.
type BonusRates struct {
	PalletRate float64
	BasketRate float64
	PlateRate  float64
}

// DefaultBonusRates is the payout rule stable across nearly all revisions:
// $40 per pallet, $0.5 per empty basket, $3 per empty pallet.
var DefaultBonusRates = BonusRates{PalletRate: 40, BasketRate: 0.5, PlateRate: 3}

// TripBonus computes the bonus earned by a single trip. The monthly bonus is
// the sum of TripBonus over every trip in the month — the formula is linear,
// so summing per trip equals applying the rates to the monthly totals.
func (b BonusRates) TripBonus(r TripRecord) float64 {
	return float64(r.PalletsTotal)*b.PalletRate +
		float64(r.EmptyBaskets)*b.BasketRate +
		float64(r.EmptyPallets)*b.PlateRate
}
