package engine

import "math"

// Points holds accumulated points per category. Accumulation is kept
// unrounded; only OverallScore rounds for display.
type Points map[Category]float64

// NewPoints returns a zeroed points map over all five categories.
func NewPoints() Points {
	p := make(Points, len(Categories))
	for _, c := range Categories {
		p[c] = 0
	}
	return p
}

// Award adds the league multiplier to one category's total. Points are
// per category and do not depend on the day ending up full.
func (p Points) Award(category Category, league League) float64 {
	earned := league.Multiplier()
	p[category] += earned
	return earned
}

// Deduct subtracts amount from every category, flooring at zero.
func (p Points) Deduct(amount float64) {
	for _, c := range Categories {
		p[c] = math.Max(0, p[c]-amount)
	}
}

// Min returns the smallest per-category total.
func (p Points) Min() float64 {
	min := math.Inf(1)
	for _, c := range Categories {
		if p[c] < min {
			min = p[c]
		}
	}
	return min
}

// OverallScore averages points across all five categories (dividing by
// the category count, not the number of active categories) and rounds
// to one decimal place.
func OverallScore(p Points) float64 {
	var total float64
	for _, c := range Categories {
		total += p[c]
	}
	return math.Round(total/float64(len(Categories))*10) / 10
}
