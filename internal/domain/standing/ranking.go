package standing

import (
	"sort"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/score"
)

// Build folds scores and pick counts into ranked rows for population.
// Scores and counts of users outside the population are ignored.
func Build(scope Scope, population []string, scores []score.GameweekScore, pickCounts map[string]int, now time.Time) []Standing {
	rows := make(map[string]*Standing, len(population))
	for _, userID := range population {
		if userID == "" {
			continue
		}
		if _, ok := rows[userID]; ok {
			continue
		}
		rows[userID] = &Standing{
			LeagueID:   scope.LeagueID,
			UserID:     userID,
			TotalPicks: pickCounts[userID],
			UpdatedAt:  now,
		}
	}

	for _, s := range scores {
		row, ok := rows[s.UserID]
		if !ok {
			continue
		}
		row.TotalPoints += s.Points
		if s.IsCorrect {
			row.CorrectPicks++
		}
	}

	out := make([]Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	AssignRanks(out)

	return out
}

// AssignRanks sorts rows and applies standard competition ranking on
// TotalPoints: equal totals share a rank and the next total resumes at its
// position (1, 1, 3). Rows inside a tie are ordered by CorrectPicks desc then
// UserID for a stable display order.
func AssignRanks(rows []Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		if rows[i].CorrectPicks != rows[j].CorrectPicks {
			return rows[i].CorrectPicks > rows[j].CorrectPicks
		}
		return rows[i].UserID < rows[j].UserID
	})

	for i := range rows {
		if i > 0 && rows[i].TotalPoints == rows[i-1].TotalPoints {
			rows[i].CurrentRank = rows[i-1].CurrentRank
			continue
		}
		rows[i].CurrentRank = i + 1
	}
}
