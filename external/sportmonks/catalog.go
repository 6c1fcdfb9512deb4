package sportmonks

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/usecase"
)

const (
	includeFixtureResults = "participants;scores;state"
	fixtureChunkSize      = 20
)

var digitsRegex = regexp.MustCompile(`\d+`)

var _ usecase.CatalogProvider = (*Client)(nil)

func (c *Client) FetchTeams(ctx context.Context, seasonID int64) ([]usecase.ExternalTeam, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	var envelope teamsEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/teams/seasons/%d", seasonID), nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams season_id=%d: %w", seasonID, err)
	}

	out := make([]usecase.ExternalTeam, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		out = append(out, usecase.ExternalTeam{
			ExternalID: item.ID,
			Name:       strings.TrimSpace(item.Name),
			ShortCode:  strings.ToUpper(strings.TrimSpace(item.ShortCode)),
			LogoURL:    strings.TrimSpace(item.ImagePath),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

func (c *Client) FetchRounds(ctx context.Context, seasonID int64) ([]usecase.ExternalRound, error) {
	schedule, err := c.fetchSchedule(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]usecase.ExternalRound)
	for _, stage := range schedule.Data {
		for _, round := range stage.Rounds {
			number := parseRoundNumber(round.Name)
			if number <= 0 {
				continue
			}
			if _, seen := byNumber[number]; seen {
				continue
			}
			byNumber[number] = usecase.ExternalRound{ExternalID: round.ID, Number: number}
		}
	}

	out := make([]usecase.ExternalRound, 0, len(byNumber))
	for _, round := range byNumber {
		out = append(out, round)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// FetchFixtures lists the season schedule, then refreshes status and scores
// through the fixtures/multi endpoint in chunks. A failed chunk keeps the
// schedule-only rows.
func (c *Client) FetchFixtures(ctx context.Context, seasonID int64) ([]usecase.ExternalFixture, error) {
	schedule, err := c.fetchSchedule(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]usecase.ExternalFixture, 128)
	for _, stage := range schedule.Data {
		for _, round := range stage.Rounds {
			number := parseRoundNumber(round.Name)
			for _, item := range round.Fixtures {
				if item.ID <= 0 {
					continue
				}
				homeID, awayID := resolveParticipants(item.Participants)
				fx := usecase.ExternalFixture{
					ExternalID:         item.ID,
					RoundNumber:        number,
					HomeTeamExternalID: homeID,
					AwayTeamExternalID: awayID,
					Status:             statusScheduled,
				}
				if kickoff, ok := parseProviderDateTime(item.StartingAt); ok {
					fx.KickoffTime = kickoff
				}
				byID[item.ID] = fx
			}
		}
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for start := 0; start < len(ids); start += fixtureChunkSize {
		chunk := ids[start:min(start+fixtureChunkSize, len(ids))]
		parts := make([]string, 0, len(chunk))
		for _, id := range chunk {
			parts = append(parts, strconv.FormatInt(id, 10))
		}

		var details fixturesEnvelope
		err := c.doJSON(ctx, "/fixtures/multi/"+strings.Join(parts, ","), map[string]string{"include": includeFixtureResults}, &details)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(ctx, "fetch fixture results failed, keeping schedule rows",
				"season_id", seasonID,
				"chunk_size", len(chunk),
				"error", err,
			)
			continue
		}

		for _, item := range details.Data {
			existing, ok := byID[item.ID]
			if !ok {
				continue
			}
			byID[item.ID] = applyFixtureDetails(existing, item)
		}
	}

	out := make([]usecase.ExternalFixture, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

func (c *Client) fetchSchedule(ctx context.Context, seasonID int64) (scheduleEnvelope, error) {
	if seasonID <= 0 {
		return scheduleEnvelope{}, fmt.Errorf("season id must be greater than zero")
	}

	var schedule scheduleEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/schedules/seasons/%d", seasonID), nil, &schedule); err != nil {
		return scheduleEnvelope{}, fmt.Errorf("fetch schedule season_id=%d: %w", seasonID, err)
	}
	return schedule, nil
}

func applyFixtureDetails(fx usecase.ExternalFixture, item fixtureDetails) usecase.ExternalFixture {
	if kickoff, ok := parseProviderDateTime(item.StartingAt); ok {
		fx.KickoffTime = kickoff
	}
	if homeID, awayID := resolveParticipants(item.Participants); homeID > 0 && awayID > 0 {
		fx.HomeTeamExternalID, fx.AwayTeamExternalID = homeID, awayID
	}

	fx.Status = mapFixtureStatus(item.StateID, item.ResultInfo)
	if fx.Status == statusScheduled {
		fx.HomeScore, fx.AwayScore = nil, nil
		return fx
	}
	fx.HomeScore, fx.AwayScore = resolveScores(item.Scores, fx.HomeTeamExternalID, fx.AwayTeamExternalID)
	return fx
}

func parseRoundNumber(raw string) int {
	candidate := digitsRegex.FindString(strings.TrimSpace(raw))
	if candidate == "" {
		return 0
	}
	value, err := strconv.Atoi(candidate)
	if err != nil || value <= 0 {
		return 0
	}
	return value
}

func parseProviderDateTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func resolveParticipants(participants []participant) (homeID, awayID int64) {
	for _, item := range participants {
		switch strings.ToLower(strings.TrimSpace(item.Meta.Location)) {
		case "home":
			homeID = item.ID
		case "away":
			awayID = item.ID
		}
	}
	return homeID, awayID
}

// resolveScores picks the most final score description available
// (CURRENT over 2ND_HALF over 1ST_HALF).
func resolveScores(scores []scoreItem, homeID, awayID int64) (*int, *int) {
	bestWeight := 0
	var home, away *int
	for _, item := range scores {
		weight := scoreDescriptionWeight(item.Description)
		if weight < bestWeight || item.Score.Goals == nil {
			continue
		}
		if weight > bestWeight {
			bestWeight = weight
			home, away = nil, nil
		}

		goals := *item.Score.Goals
		switch {
		case item.ParticipantID == homeID && homeID > 0:
			home = &goals
		case item.ParticipantID == awayID && awayID > 0:
			away = &goals
		}
	}
	return home, away
}

func scoreDescriptionWeight(raw string) int {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CURRENT":
		return 4
	case "2ND_HALF", "2ND_HALF_ONLY":
		return 3
	case "1ST_HALF":
		return 2
	default:
		return 1
	}
}

const (
	statusScheduled = "SCHEDULED"
	statusLive      = "LIVE"
	statusFinished  = "FINISHED"
)

// mapFixtureStatus maps SportMonks state ids onto the statuses understood by
// fixture.NormalizeStatus. Postponed and cancelled matches stay scheduled.
func mapFixtureStatus(stateID int64, resultInfo string) string {
	switch stateID {
	case 2, 3, 4, 6, 7, 8, 9, 21, 22, 25:
		return statusLive
	case 5, 13, 14:
		return statusFinished
	case 1, 10, 11, 12, 15, 16, 17, 19, 20:
		return statusScheduled
	}

	info := strings.ToLower(strings.TrimSpace(resultInfo))
	switch {
	case strings.Contains(info, "postpon"), strings.Contains(info, "cancel"):
		return statusScheduled
	case strings.Contains(info, "won"), strings.Contains(info, "draw"), strings.Contains(info, "full time"):
		return statusFinished
	default:
		return statusScheduled
	}
}
