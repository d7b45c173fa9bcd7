package oddsmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOdds is matched by every InvalidOddsError
var ErrInvalidOdds = errors.New("invalid odds")

// InvalidOddsError describes why an odds set cannot be devigged
type InvalidOddsError struct {
	Odds   []float64
	Reason string
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("invalid odds %v: %s", e.Odds, e.Reason)
}

func (e *InvalidOddsError) Is(target error) bool {
	return target == ErrInvalidOdds
}

// Method selects how the bookmaker margin is removed
type Method string

const (
	// MethodShin models the margin as protection against insider trading (Shin, 1993)
	MethodShin Method = "shin"
	// MethodMultiplicative scales every implied probability by the overround
	MethodMultiplicative Method = "multiplicative"
)

const (
	shinMaxIterations = 1000
	shinTolerance     = 1e-12
)

// Devig converts decimal odds into fair (no-vig) decimal odds using Shin's method
// Output is rounded to 2 decimals and keeps the input order
//
// Example:
// 1.90 / 1.90 (5.26% margin) → 2.00 / 2.00
func Devig(odds []float64) ([]float64, error) {
	return DevigWith(MethodShin, odds)
}

// DevigWith converts decimal odds into fair decimal odds using the given method
func DevigWith(method Method, odds []float64) ([]float64, error) {
	var (
		probs []float64
		err   error
	)

	switch method {
	case MethodShin, "":
		probs, _, err = ShinProbabilities(odds)
	case MethodMultiplicative:
		probs, err = MultiplicativeProbabilities(odds)
	default:
		return nil, fmt.Errorf("unknown devig method %q", method)
	}
	if err != nil {
		return nil, err
	}

	fair := make([]float64, len(probs))
	for i, p := range probs {
		fair[i] = roundTo(1/p, 2)
	}
	return fair, nil
}

// ImpliedProbabilities returns 1/odds for every outcome
func ImpliedProbabilities(odds []float64) ([]float64, error) {
	if len(odds) == 0 {
		return nil, &InvalidOddsError{Odds: odds, Reason: "no outcomes"}
	}

	implied := make([]float64, len(odds))
	for i, o := range odds {
		if o <= 0 || math.IsNaN(o) || math.IsInf(o, 0) {
			return nil, &InvalidOddsError{Odds: odds, Reason: fmt.Sprintf("outcome %d has non-positive price %v", i, o)}
		}
		implied[i] = 1 / o
	}
	return implied, nil
}

// MultiplicativeProbabilities normalizes implied probabilities by their sum
func MultiplicativeProbabilities(odds []float64) ([]float64, error) {
	implied, err := ImpliedProbabilities(odds)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, p := range implied {
		total += p
	}

	fair := make([]float64, len(implied))
	for i, p := range implied {
		fair[i] = p / total
	}
	return fair, nil
}

// ShinProbabilities returns fair probabilities and Shin's z (the estimated share of insider money)
//
// For two outcomes z has a closed form; otherwise it is found by fixed-point iteration:
//
//	z = (Σ sqrt(z² + 4(1-z)·πᵢ²/Σπ) - 2) / (n - 2)
//	pᵢ = (sqrt(z² + 4(1-z)·πᵢ²/Σπ) - z) / (2(1-z))
//
// Falls back to the multiplicative method when the model has no valid solution
func ShinProbabilities(odds []float64) ([]float64, float64, error) {
	implied, err := ImpliedProbabilities(odds)
	if err != nil {
		return nil, 0, err
	}

	n := len(implied)
	if n == 1 {
		return []float64{1}, 0, nil
	}

	booksum := 0.0
	for _, p := range implied {
		booksum += p
	}

	var z float64
	if n == 2 {
		diff := implied[0] - implied[1]
		denom := booksum * (diff*diff - 1)
		if denom == 0 {
			return fallbackMultiplicative(implied, booksum)
		}
		z = ((booksum - 1) * (diff*diff - booksum)) / denom
	} else {
		for i := 0; i < shinMaxIterations; i++ {
			z0 := z
			sum := 0.0
			for _, p := range implied {
				sum += math.Sqrt(z*z + 4*(1-z)*p*p/booksum)
			}
			z = (sum - 2) / float64(n-2)
			if math.Abs(z-z0) < shinTolerance {
				break
			}
		}
	}

	if math.IsNaN(z) || math.IsInf(z, 0) || z >= 1 {
		return fallbackMultiplicative(implied, booksum)
	}

	probs := make([]float64, n)
	total := 0.0
	for i, p := range implied {
		probs[i] = (math.Sqrt(z*z+4*(1-z)*p*p/booksum) - z) / (2 * (1 - z))
		total += probs[i]
	}

	if total <= 0 || math.IsNaN(total) {
		return fallbackMultiplicative(implied, booksum)
	}

	// Iteration stops within tolerance; renormalize so the output sums to exactly 1
	for i := range probs {
		probs[i] /= total
	}

	return probs, z, nil
}

func fallbackMultiplicative(implied []float64, booksum float64) ([]float64, float64, error) {
	probs := make([]float64, len(implied))
	for i, p := range implied {
		probs[i] = p / booksum
	}
	return probs, 0, nil
}

// CalculateMargin returns the bookmaker overround as a fraction (0.05 = 5%)
func CalculateMargin(odds []float64) (float64, error) {
	implied, err := ImpliedProbabilities(odds)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, p := range implied {
		total += p
	}
	return total - 1, nil
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
