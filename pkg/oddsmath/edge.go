package oddsmath

// DefaultStake is the stake used when the caller does not care about scale
const DefaultStake = 100.0

// ExpectedValue returns the expected profit of backing decimal odds with the given stake,
// when the true chance of the outcome is 1/fairOdds
//
// Example:
// odds 2.10, fair 2.00, stake 100 → 0.5×110 - 0.5×100 = 5.00
func ExpectedValue(odds, fairOdds, stake float64) float64 {
	if fairOdds <= 0 || odds <= 0 {
		return 0
	}

	p := 1 / fairOdds
	profit := stake * (odds - 1)
	return roundTo(p*profit-(1-p)*stake, 2)
}
