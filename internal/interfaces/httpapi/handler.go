package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	catalogService  *usecase.CatalogService
	pickService     *usecase.PickService
	scoringService  *usecase.ScoringService
	standingService *usecase.StandingService
	leagueService   *usecase.LeagueService
	gameweekService *usecase.GameweekService
	jobService      *usecase.JobService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	pickService *usecase.PickService,
	scoringService *usecase.ScoringService,
	standingService *usecase.StandingService,
	leagueService *usecase.LeagueService,
	gameweekService *usecase.GameweekService,
	jobService *usecase.JobService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:  catalogService,
		pickService:     pickService,
		scoringService:  scoringService,
		standingService: standingService,
		leagueService:   leagueService,
		gameweekService: gameweekService,
		jobService:      jobService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a JSON body into dst. Unknown fields are rejected.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := decodeJSONBody(r, dst, false); err != nil {
		return err
	}
	return h.validateRequest(r.Context(), dst)
}

func decodeJSONBody(r *http.Request, dst any, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := strictJSON.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func errInvalidQuery(name, value string) error {
	return fmt.Errorf("%w: invalid query parameter %s=%q", usecase.ErrInvalidInput, name, value)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok || strings.TrimSpace(principal.UserID) == "" {
		return user.Principal{}, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized)
	}
	return principal, nil
}
