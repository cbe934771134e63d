package engine

// League is the tier a user holds, derived from the current streak.
type League string

const (
	LeagueNormal         League = "Normal"
	LeagueNovice         League = "Novice"
	LeagueAdvanced       League = "Advanced"
	LeagueMaster         League = "Master"
	LeagueLegendary      League = "Legendary"
	LeagueDisciplineStar League = "Discipline-Star"
)

type leagueTier struct {
	league     League
	minStreak  int
	multiplier float64
	deduction  float64
}

// Tiers ordered highest first so classification picks the highest
// threshold at or below the streak.
var leagueTiers = []leagueTier{
	{LeagueDisciplineStar, 500, 0.1, 0.4},
	{LeagueLegendary, 250, 0.5, 1.5},
	{LeagueMaster, 100, 1.0, 3.0},
	{LeagueAdvanced, 50, 1.0, 4.0},
	{LeagueNovice, 25, 1.5, 4.0},
	{LeagueNormal, 0, 2.0, 4.0},
}

// Classify maps a current streak to its league. Pure function: equal
// streaks always yield equal leagues.
func Classify(streak int) League {
	for _, t := range leagueTiers {
		if streak >= t.minStreak {
			return t.league
		}
	}
	return LeagueNormal
}

// Multiplier returns the points awarded per completed category while
// in this league. Higher leagues earn less per completion.
func (l League) Multiplier() float64 {
	for _, t := range leagueTiers {
		if t.league == l {
			return t.multiplier
		}
	}
	return 2.0
}

// Deduction returns the per-category penalty applied after two or more
// consecutive missed days while in this league.
func (l League) Deduction() float64 {
	for _, t := range leagueTiers {
		if t.league == l {
			return t.deduction
		}
	}
	return 4.0
}

// rank orders leagues for promotion detection.
func (l League) rank() int {
	for i, t := range leagueTiers {
		if t.league == l {
			return len(leagueTiers) - i
		}
	}
	return 0
}

// PromotedInto reports whether moving from prev to next crossed into a
// strictly higher league.
func PromotedInto(prev, next League) bool {
	return next.rank() > prev.rank()
}
