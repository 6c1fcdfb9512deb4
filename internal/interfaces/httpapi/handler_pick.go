package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

// ProposePick answers 200 for both outcomes; a rejection is data, not an error.
func (h *Handler) ProposePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProposePick")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req pickRequest
	if err := h.decodeAndValidate(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	decision, err := h.pickService.ProposePick(ctx, usecase.PickInput{
		UserID:    principal.UserID,
		FixtureID: req.FixtureID,
		TeamID:    req.TeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "propose pick failed", "user_id", principal.UserID, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickDecisionToDTO(decision))
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req pickRequest
	if err := h.decodeAndValidate(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.pickService.SubmitPick(ctx, usecase.PickInput{
		UserID:    principal.UserID,
		FixtureID: req.FixtureID,
		TeamID:    req.TeamID,
	})
	if err != nil {
		if pick.IsRejection(err) {
			h.logger.InfoContext(ctx, "pick rejected", "user_id", principal.UserID, "fixture_id", req.FixtureID, "reason", rejectionReason(err))
		} else {
			h.logger.ErrorContext(ctx, "submit pick failed", "user_id", principal.UserID, "fixture_id", req.FixtureID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pickToDTO(item))
}

func (h *Handler) UndoPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoPick")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	gameweekID := strings.TrimSpace(r.PathValue("gameweekID"))
	if err := h.pickService.UndoPick(ctx, principal.UserID, gameweekID); err != nil {
		h.logger.WarnContext(ctx, "undo pick failed", "user_id", principal.UserID, "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"gameweek_id": gameweekID,
		"undone":      true,
	})
}

func (h *Handler) ListMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPicks")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.pickService.ListUserPicks(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list picks failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, pickViewToDTO))
}

func (h *Handler) ListMyTeamUsage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTeamUsage")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.pickService.TeamUsage(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list team usage failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, func(v usecase.TeamUsage) teamUsageDTO {
		return teamUsageDTO{TeamID: v.TeamID, Used: v.Used, Remaining: v.Remaining}
	}))
}
