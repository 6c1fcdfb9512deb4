package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pickem-league/internal/usecase"
)

func (h *Handler) RunDispatchJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDispatchJob")
	defer span.End()

	result, err := h.jobService.Dispatch(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "dispatch jobs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	var req usecase.JobInput
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobService.RunSync(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunScoreJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreJob")
	defer span.End()

	var req usecase.JobInput
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobService.RunScore(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "run score job failed", "dispatch_id", req.DispatchID, "gameweek_id", req.GameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunStandingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStandingsJob")
	defer span.End()

	var req usecase.JobInput
	if err := decodeJSONBody(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobService.RunStandings(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "run standings job failed", "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
