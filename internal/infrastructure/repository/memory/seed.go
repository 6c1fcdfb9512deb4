package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/team"
)

// SeedTeams is the demo catalog used when no database is configured.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "team-persija", Name: "Persija Jakarta", ShortCode: "PSJ", Color: "#E4252A"},
		{ID: "team-persib", Name: "Persib Bandung", ShortCode: "PSB", Color: "#1C4E9D"},
		{ID: "team-persebaya", Name: "Persebaya Surabaya", ShortCode: "PRB", Color: "#0A7E3A"},
		{ID: "team-baliutd", Name: "Bali United", ShortCode: "BU", Color: "#D71920"},
	}
}

// SeedGameweeks builds three weekly rounds starting a week after start.
// The first round is current.
func SeedGameweeks(start time.Time) []gameweek.Gameweek {
	start = start.UTC().Truncate(time.Hour)
	out := make([]gameweek.Gameweek, 0, 3)
	for number := 1; number <= 3; number++ {
		out = append(out, gameweek.Gameweek{
			ID:        fmt.Sprintf("gw-%d", number),
			Number:    number,
			Deadline:  start.Add(time.Duration(number) * 7 * 24 * time.Hour),
			IsCurrent: number == 1,
		})
	}
	return out
}

// SeedFixtures pairs the seed teams twice per round, kicking off at each
// round's deadline and two hours after it.
func SeedFixtures(gameweeks []gameweek.Gameweek) []fixture.Fixture {
	pairs := [][2][2]string{
		{{"team-persija", "team-persib"}, {"team-persebaya", "team-baliutd"}},
		{{"team-persib", "team-persebaya"}, {"team-baliutd", "team-persija"}},
		{{"team-persija", "team-persebaya"}, {"team-persib", "team-baliutd"}},
	}

	out := make([]fixture.Fixture, 0, len(gameweeks)*2)
	for idx, gw := range gameweeks {
		if idx >= len(pairs) {
			break
		}
		for slot, pair := range pairs[idx] {
			out = append(out, fixture.Fixture{
				ID:          fmt.Sprintf("fx-%d-%d", gw.Number, slot+1),
				GameweekID:  gw.ID,
				HomeTeamID:  pair[0],
				AwayTeamID:  pair[1],
				KickoffTime: gw.Deadline.Add(time.Duration(slot) * 2 * time.Hour),
				Status:      fixture.StatusScheduled,
			})
		}
	}
	return out
}
