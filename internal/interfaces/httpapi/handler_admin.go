package httpapi

import (
	"net/http"
	"strconv"
	"strings"
)

func (h *Handler) SetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCurrentGameweek")
	defer span.End()

	var req setCurrentGameweekRequest
	if err := h.decodeAndValidate(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gw, err := h.gameweekService.SetCurrent(ctx, req.GameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "set current gameweek failed", "gameweek_id", req.GameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

func (h *Handler) AdvanceGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceGameweek")
	defer span.End()

	gw, err := h.gameweekService.AdvanceCurrent(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "advance gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

// ListJobEvents supports ?job=<name>&limit=<n>.
func (h *Handler) ListJobEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobEvents")
	defer span.End()

	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, errInvalidQuery("limit", raw))
			return
		}
		limit = parsed
	}

	items, err := h.jobService.ListRecentEvents(ctx, query.Get("job"), limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list job events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, mapSlice(items, jobEventToDTO))
}
