package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallScoreAveragesOverAllFive(t *testing.T) {
	points := Points{
		CategoryIntelligence:  12,
		CategoryPhysical:      11,
		CategorySocial:        10,
		CategoryDiscipline:    15,
		CategoryDetermination: 10,
	}
	assert.Equal(t, 11.6, OverallScore(points))
}

func TestOverallScoreIdempotent(t *testing.T) {
	points := Points{
		CategoryIntelligence: 3.5,
		CategoryPhysical:     0.1,
	}
	for _, c := range Categories {
		if _, ok := points[c]; !ok {
			points[c] = 0
		}
	}
	first := OverallScore(points)
	assert.Equal(t, first, OverallScore(points))
}

func TestOverallScoreDividesByCategoryCount(t *testing.T) {
	// Activity concentrated in one category scores lower than the same
	// total spread across all five.
	concentrated := NewPoints()
	concentrated[CategoryPhysical] = 50
	assert.Equal(t, 10.0, OverallScore(concentrated))

	empty := NewPoints()
	assert.Equal(t, 0.0, OverallScore(empty))
}

func TestAwardUsesLeagueMultiplier(t *testing.T) {
	points := NewPoints()

	earned := points.Award(CategoryPhysical, LeagueNormal)
	assert.Equal(t, 2.0, earned)
	assert.Equal(t, 2.0, points[CategoryPhysical])

	earned = points.Award(CategoryPhysical, LeagueNovice)
	assert.Equal(t, 1.5, earned)
	assert.Equal(t, 3.5, points[CategoryPhysical])

	earned = points.Award(CategorySocial, LeagueDisciplineStar)
	assert.Equal(t, 0.1, earned)
	assert.InDelta(t, 0.1, points[CategorySocial], 1e-9)
}

func TestDeductFloorsAtZero(t *testing.T) {
	points := NewPoints()
	points[CategoryIntelligence] = 10
	points[CategoryPhysical] = 2

	points.Deduct(4)

	assert.Equal(t, 6.0, points[CategoryIntelligence])
	assert.Equal(t, 0.0, points[CategoryPhysical])
	assert.Equal(t, 0.0, points[CategorySocial])
}

func TestMin(t *testing.T) {
	points := NewPoints()
	for _, c := range Categories {
		points[c] = 12
	}
	points[CategorySocial] = 10
	assert.Equal(t, 10.0, points.Min())
}
