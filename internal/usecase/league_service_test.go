package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/pickem-league/internal/domain/standing"
)

func TestLeagueService_JoinLeaveDelete(t *testing.T) {
	ctx := context.Background()
	h := newPickemHarness(t)

	created, err := h.leagueSvc.Create(ctx, CreateLeagueInput{UserID: "owner", Name: "  Friday Club ", MaxMembers: intPtr(2)})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if created.Name != "Friday Club" || len(created.InviteCode) != 8 {
		t.Fatalf("unexpected league: %+v", created)
	}

	if _, err := h.leagueSvc.Join(ctx, "guest", " "+created.InviteCode+" "); err != nil {
		t.Fatalf("join league: %v", err)
	}
	if _, err := h.leagueSvc.Join(ctx, "guest", created.InviteCode); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for repeat join, got %v", err)
	}
	if _, err := h.leagueSvc.Join(ctx, "late", created.InviteCode); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for full league, got %v", err)
	}
	if _, err := h.leagueSvc.Join(ctx, "late", "NOPE1234"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}

	view, err := h.leagueSvc.Get(ctx, "guest", created.ID)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if view.MemberCount != 2 {
		t.Fatalf("unexpected member count: %d", view.MemberCount)
	}
	if _, err := h.leagueSvc.Get(ctx, "late", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}

	if err := h.leagueSvc.Leave(ctx, "owner", created.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected creator leave to conflict, got %v", err)
	}
	if err := h.leagueSvc.Leave(ctx, "guest", created.ID); err != nil {
		t.Fatalf("leave league: %v", err)
	}
	if _, err := h.leagueSvc.Join(ctx, "late", created.InviteCode); err != nil {
		t.Fatalf("join after leave: %v", err)
	}

	if err := h.leagueSvc.Delete(ctx, "late", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-creator delete, got %v", err)
	}
	before, err := h.standingSvc.ListMine(ctx, "owner")
	if err != nil {
		t.Fatalf("list owner standings: %v", err)
	}
	if !hasLeagueRow(before, created.ID) {
		t.Fatalf("expected a board row for league %s before delete, got %+v", created.ID, before)
	}
	if err := h.leagueSvc.Delete(ctx, "owner", created.ID); err != nil {
		t.Fatalf("delete league: %v", err)
	}
	after, err := h.standingSvc.ListMine(ctx, "owner")
	if err != nil {
		t.Fatalf("list owner standings: %v", err)
	}
	if hasLeagueRow(after, created.ID) {
		t.Fatalf("expected no board row for deleted league, got %+v", after)
	}
	mine, err := h.leagueSvc.ListMine(ctx, "owner")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected no leagues after delete, got %+v", mine)
	}
}

func TestLeagueService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	h := newPickemHarness(t)

	if _, err := h.leagueSvc.Create(ctx, CreateLeagueInput{UserID: "owner", Name: "ab"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short name, got %v", err)
	}
	if _, err := h.leagueSvc.Create(ctx, CreateLeagueInput{UserID: "owner", Name: "Valid", MaxMembers: intPtr(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for max members, got %v", err)
	}
}

func hasLeagueRow(rows []standing.Standing, leagueID string) bool {
	for _, row := range rows {
		if row.LeagueID == leagueID {
			return true
		}
	}
	return false
}
