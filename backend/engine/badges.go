package engine

// Badge identifiers. The catalog is static configuration; per-user
// earned state lives in ProgressionState.Badges.
const (
	BadgeBeginner         = "Beginner"
	BadgeDisciplined      = "Disciplined"
	BadgeMaster           = "Master"
	BadgeBronzeTrophy     = "Bronze Trophy"
	BadgeSilverTrophy     = "Silver Trophy"
	BadgeGoldenTrophy     = "Golden Trophy"
	BadgeDiamondTrophy    = "Diamond Trophy"
	BadgeBlackTrophy      = "Black Trophy"
	BadgeFirstWeekWarrior = "First Week Warrior"
	BadgeMonthMaster      = "Month Master"
	BadgeCenturyClub      = "Century Club"
	BadgeUnstoppable      = "Unstoppable Force"
	BadgeLivingLegend     = "Living Legend"
	BadgeWellRounded      = "Well Rounded"
	BadgePerfectionist    = "Perfectionist"
)

// trophyForLeague maps each league above Normal to the trophy earned on
// promotion into it.
var trophyForLeague = map[League]string{
	LeagueNovice:         BadgeBronzeTrophy,
	LeagueAdvanced:       BadgeSilverTrophy,
	LeagueMaster:         BadgeGoldenTrophy,
	LeagueLegendary:      BadgeDiamondTrophy,
	LeagueDisciplineStar: BadgeBlackTrophy,
}

// BadgeInput is the state a badge predicate is evaluated against.
type BadgeInput struct {
	CurrentStreak int
	BestStreak    int
	PrevLeague    League
	League        League
	Points        Points
}

type badgeRule struct {
	id        string
	predicate func(BadgeInput) bool
}

func streakAtLeast(n int) func(BadgeInput) bool {
	return func(in BadgeInput) bool { return in.CurrentStreak >= n }
}

func bestStreakAtLeast(n int) func(BadgeInput) bool {
	return func(in BadgeInput) bool { return in.BestStreak >= n }
}

var badgeCatalog = []badgeRule{
	{BadgeBeginner, streakAtLeast(3)},
	{BadgeDisciplined, streakAtLeast(7)},
	{BadgeMaster, streakAtLeast(30)},
	{BadgeFirstWeekWarrior, bestStreakAtLeast(7)},
	{BadgeMonthMaster, bestStreakAtLeast(30)},
	{BadgeCenturyClub, bestStreakAtLeast(100)},
	{BadgeUnstoppable, bestStreakAtLeast(250)},
	{BadgeLivingLegend, bestStreakAtLeast(500)},
	{BadgeWellRounded, func(in BadgeInput) bool { return in.Points.Min() >= 10 }},
	{BadgePerfectionist, func(in BadgeInput) bool {
		return in.CurrentStreak >= 14 && in.CurrentStreak == in.BestStreak
	}},
}

// EvaluateBadges returns the badges newly earned by this recomputation.
// Earned badges are never removed, so evaluation only ever inserts.
// Trophy badges fire on the promotion edge only: every league strictly
// between the previous and new league is awarded exactly once, so a
// user who remains in a league does not re-earn its trophy on reads.
func EvaluateBadges(earned map[string]bool, in BadgeInput) []string {
	var added []string

	for _, rule := range badgeCatalog {
		if earned[rule.id] {
			continue
		}
		if rule.predicate(in) {
			added = append(added, rule.id)
		}
	}

	if PromotedInto(in.PrevLeague, in.League) {
		// Walk tiers lowest first so trophies append in promotion order.
		for i := len(leagueTiers) - 1; i >= 0; i-- {
			league := leagueTiers[i].league
			trophy, ok := trophyForLeague[league]
			if !ok || earned[trophy] {
				continue
			}
			if PromotedInto(in.PrevLeague, league) && !PromotedInto(in.League, league) {
				added = append(added, trophy)
			}
		}
	}

	return added
}
