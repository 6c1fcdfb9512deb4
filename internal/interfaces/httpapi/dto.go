package httpapi

import (
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/jobscheduler"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/score"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/domain/team"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

type pickRequest struct {
	FixtureID string `json:"fixture_id" validate:"required,max=64"`
	TeamID    string `json:"team_id" validate:"required,max=64"`
}

type createLeagueRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=64"`
	MaxMembers *int   `json:"max_members" validate:"omitempty,min=1,max=500"`
	IsPublic   bool   `json:"is_public"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=4,max=16"`
}

type setCurrentGameweekRequest struct {
	GameweekID string `json:"gameweek_id" validate:"required,max=64"`
}

type teamDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
	Color     string `json:"color,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
}

type gameweekDTO struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	Deadline  time.Time `json:"deadline"`
	IsCurrent bool      `json:"is_current"`
}

type fixtureDTO struct {
	ID          string    `json:"id"`
	GameweekID  string    `json:"gameweek_id"`
	HomeTeamID  string    `json:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id"`
	KickoffTime time.Time `json:"kickoff_time"`
	Status      string    `json:"status"`
	HomeScore   *int      `json:"home_score"`
	AwayScore   *int      `json:"away_score"`
}

type pickDTO struct {
	ID         string    `json:"id"`
	GameweekID string    `json:"gameweek_id"`
	FixtureID  string    `json:"fixture_id"`
	TeamID     string    `json:"team_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type pickDecisionDTO struct {
	Allowed  bool         `json:"allowed"`
	Reason   string       `json:"reason,omitempty"`
	Message  string       `json:"message,omitempty"`
	Fixture  *fixtureDTO  `json:"fixture,omitempty"`
	Gameweek *gameweekDTO `json:"gameweek,omitempty"`
}

type pickViewDTO struct {
	Pick           pickDTO   `json:"pick"`
	GameweekNumber int       `json:"gameweek_number"`
	Deadline       time.Time `json:"deadline"`
	State          string    `json:"state"`
	Score          *scoreDTO `json:"score"`
}

type teamUsageDTO struct {
	TeamID    string `json:"team_id"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

type scoreDTO struct {
	GameweekID string    `json:"gameweek_id"`
	PickID     string    `json:"pick_id"`
	FixtureID  string    `json:"fixture_id"`
	TeamID     string    `json:"team_id"`
	Points     int       `json:"points"`
	IsCorrect  bool      `json:"is_correct"`
	ScoredAt   time.Time `json:"scored_at"`
}

type standingDTO struct {
	LeagueID     string    `json:"league_id,omitempty"`
	UserID       string    `json:"user_id"`
	Rank         int       `json:"rank"`
	TotalPoints  int       `json:"total_points"`
	CorrectPicks int       `json:"correct_picks"`
	TotalPicks   int       `json:"total_picks"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type leagueDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatorUserID string    `json:"creator_user_id"`
	MaxMembers    *int      `json:"max_members"`
	IsPublic      bool      `json:"is_public"`
	InviteCode    string    `json:"invite_code,omitempty"`
	MemberCount   *int      `json:"member_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type jobEventDTO struct {
	DispatchID   string         `json:"dispatch_id"`
	JobName      string         `json:"job_name"`
	JobPath      string         `json:"job_path"`
	Target       string         `json:"target,omitempty"`
	Status       string         `json:"status"`
	Payload      map[string]any `json:"payload,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
	TraceID      string         `json:"trace_id,omitempty"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:        v.ID,
		Name:      v.Name,
		ShortCode: v.ShortCode,
		Color:     v.Color,
		LogoURL:   v.LogoURL,
	}
}

func gameweekToDTO(v gameweek.Gameweek) gameweekDTO {
	return gameweekDTO{
		ID:        v.ID,
		Number:    v.Number,
		Deadline:  v.Deadline.UTC(),
		IsCurrent: v.IsCurrent,
	}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:          v.ID,
		GameweekID:  v.GameweekID,
		HomeTeamID:  v.HomeTeamID,
		AwayTeamID:  v.AwayTeamID,
		KickoffTime: v.KickoffTime.UTC(),
		Status:      string(v.Status),
		HomeScore:   v.HomeScore,
		AwayScore:   v.AwayScore,
	}
}

func pickToDTO(v pick.Pick) pickDTO {
	return pickDTO{
		ID:         v.ID,
		GameweekID: v.GameweekID,
		FixtureID:  v.FixtureID,
		TeamID:     v.TeamID,
		CreatedAt:  v.CreatedAt.UTC(),
	}
}

func pickDecisionToDTO(v usecase.PickDecision) pickDecisionDTO {
	out := pickDecisionDTO{Allowed: v.Allowed}
	if v.Reason != nil {
		out.Reason = rejectionReason(v.Reason)
		out.Message = v.Reason.Error()
		for _, item := range pickRejections {
			if item.reason == out.Reason {
				out.Message = item.hint
				break
			}
		}
	}
	if v.Fixture.ID != "" {
		fx := fixtureToDTO(v.Fixture)
		out.Fixture = &fx
	}
	if v.Gameweek.ID != "" {
		gw := gameweekToDTO(v.Gameweek)
		out.Gameweek = &gw
	}
	return out
}

func pickViewToDTO(v usecase.PickView) pickViewDTO {
	out := pickViewDTO{
		Pick:           pickToDTO(v.Pick),
		GameweekNumber: v.Gameweek.Number,
		Deadline:       v.Gameweek.Deadline.UTC(),
		State:          string(v.State),
	}
	if v.Score != nil {
		sc := scoreToDTO(*v.Score)
		out.Score = &sc
	}
	return out
}

func scoreToDTO(v score.GameweekScore) scoreDTO {
	return scoreDTO{
		GameweekID: v.GameweekID,
		PickID:     v.PickID,
		FixtureID:  v.FixtureID,
		TeamID:     v.TeamID,
		Points:     v.Points,
		IsCorrect:  v.IsCorrect,
		ScoredAt:   v.ScoredAt.UTC(),
	}
}

func standingToDTO(v standing.Standing) standingDTO {
	return standingDTO{
		LeagueID:     v.LeagueID,
		UserID:       v.UserID,
		Rank:         v.CurrentRank,
		TotalPoints:  v.TotalPoints,
		CorrectPicks: v.CorrectPicks,
		TotalPicks:   v.TotalPicks,
		UpdatedAt:    v.UpdatedAt.UTC(),
	}
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:            v.ID,
		Name:          v.Name,
		CreatorUserID: v.CreatorUserID,
		MaxMembers:    v.MaxMembers,
		IsPublic:      v.IsPublic,
		InviteCode:    v.InviteCode,
		CreatedAt:     v.CreatedAt.UTC(),
	}
}

func jobEventToDTO(v jobscheduler.DispatchEvent) jobEventDTO {
	return jobEventDTO{
		DispatchID:   v.DispatchID,
		JobName:      v.JobName,
		JobPath:      v.JobPath,
		Target:       v.Target,
		Status:       string(v.Status),
		Payload:      v.Payload,
		ErrorMessage: v.ErrorMessage,
		OccurredAt:   v.OccurredAt.UTC(),
		TraceID:      v.TraceID,
	}
}

func mapSlice[T, D any](items []T, fn func(T) D) []D {
	out := make([]D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
