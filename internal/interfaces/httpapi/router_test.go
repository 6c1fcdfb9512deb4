package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/user"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

const testJobToken = "job-secret"

type staticVerifier map[string]user.Principal

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

type apiHarness struct {
	router   http.Handler
	fixtures *memory.FixtureRepository
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	gameweeks := memory.SeedGameweeks(time.Now())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	gameweekRepo := memory.NewGameweekRepository(gameweeks)
	fixtures := memory.NewFixtureRepository(memory.SeedFixtures(gameweeks))
	picks := memory.NewPickRepository()
	scores := memory.NewScoreRepository()
	standings := memory.NewStandingRepository()
	leagues := memory.NewLeagueRepository()
	dispatches := memory.NewJobDispatchRepository()
	logger := logging.NewNop()

	scoringSvc := usecase.NewScoringService(gameweekRepo, fixtures, picks, scores, logger)
	standingSvc := usecase.NewStandingService(leagues, picks, scores, standings, 2, logger)
	handler := NewHandler(
		usecase.NewCatalogService(teams, gameweekRepo, fixtures),
		usecase.NewPickService(gameweekRepo, fixtures, picks, scores, nil, logger),
		scoringSvc,
		standingSvc,
		usecase.NewLeagueService(leagues, standingSvc, nil, logger),
		usecase.NewGameweekService(gameweekRepo, logger),
		usecase.NewJobService(gameweekRepo, nil, scoringSvc, standingSvc, nil, dispatches, usecase.JobConfig{}, logger),
		logger,
	)

	verifier := staticVerifier{
		"alice-token": {UserID: "alice"},
		"bob-token":   {UserID: "bob"},
		"admin-token": {UserID: "admin"},
	}
	router := NewRouter(handler, verifier, logger, RouterConfig{
		SwaggerEnabled:   true,
		InternalJobToken: testJobToken,
		AdminUserIDs:     []string{"admin"},
	})

	return &apiHarness{router: router, fixtures: fixtures}
}

func (h *apiHarness) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case token == testJobToken:
		req.Header.Set("X-Internal-Job-Token", token)
	case token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var out map[string]any
	if strings.Contains(rec.Header().Get("Content-Type"), "json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: unmarshal body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func errorReason(t *testing.T, body map[string]any) string {
	t.Helper()

	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	items, _ := errObj["errors"].([]any)
	if len(items) == 0 {
		t.Fatalf("expected error items, got %v", errObj)
	}
	item, _ := items[0].(map[string]any)
	reason, _ := item["reason"].(string)
	return reason
}

func dataObject(t *testing.T, body map[string]any) map[string]any {
	t.Helper()

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()

	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data list, got %v", body)
	}
	return data
}

func TestRouter_Healthz(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodGet, "/healthz", "", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if got := dataObject(t, body)["status"]; got != "ok" {
		t.Fatalf("unexpected health status %v", got)
	}
}

func TestRouter_CatalogIsPublic(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodGet, "/v1/teams", "", "")
	if status != http.StatusOK || len(dataList(t, body)) != 4 {
		t.Fatalf("expected 4 teams, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/gameweeks/current", "", "")
	if status != http.StatusOK || dataObject(t, body)["id"] != "gw-1" {
		t.Fatalf("expected gw-1 current, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/fixtures", "", "")
	if status != http.StatusOK || len(dataList(t, body)) != 2 {
		t.Fatalf("expected 2 current fixtures, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/fixtures/missing", "", "")
	if status != http.StatusNotFound || errorReason(t, body) != "notFound" {
		t.Fatalf("expected notFound, got status=%d body=%v", status, body)
	}
}

func TestRouter_PickRoutesRequireBearer(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/v1/picks", "", `{"fixture_id":"fx-1-1","team_id":"team-persija"}`)
	if status != http.StatusUnauthorized || errorReason(t, body) != "unauthorized" {
		t.Fatalf("expected unauthorized, got status=%d body=%v", status, body)
	}

	status, _ = h.do(t, http.MethodGet, "/v1/picks/me", "stolen-token", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", status)
	}
}

func TestRouter_ProposeRejectionIsData(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/v1/picks/propose", "alice-token", `{"fixture_id":"fx-2-1","team_id":"team-persib"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", status, body)
	}
	data := dataObject(t, body)
	if data["allowed"] != false || data["reason"] != "fixtureNotOpen" {
		t.Fatalf("expected fixtureNotOpen rejection, got %v", data)
	}

	status, body = h.do(t, http.MethodPost, "/v1/picks/propose", "alice-token", `{"fixture_id":"fx-1-1","team_id":"team-persija"}`)
	if status != http.StatusOK || dataObject(t, body)["allowed"] != true {
		t.Fatalf("expected allowed proposal, got status=%d body=%v", status, body)
	}
}

func TestRouter_SubmitListAndUndoPick(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-1","team_id":"team-persija"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%v", status, body)
	}
	if got := dataObject(t, body)["gameweek_id"]; got != "gw-1" {
		t.Fatalf("unexpected gameweek %v", got)
	}

	status, body = h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-2","team_id":"team-baliutd"}`)
	if status != http.StatusConflict || errorReason(t, body) != "alreadyPicked" {
		t.Fatalf("expected alreadyPicked, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/picks/me", "alice-token", "")
	items := dataList(t, body)
	if status != http.StatusOK || len(items) != 1 {
		t.Fatalf("expected one pick, got status=%d body=%v", status, body)
	}
	if state := items[0].(map[string]any)["state"]; state != "picked" {
		t.Fatalf("expected picked state, got %v", state)
	}

	status, body = h.do(t, http.MethodGet, "/v1/picks/me/usage", "alice-token", "")
	usage := dataList(t, body)
	if status != http.StatusOK || len(usage) != 1 || usage[0].(map[string]any)["remaining"] != float64(1) {
		t.Fatalf("expected one remaining use, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodDelete, "/v1/picks/gw-1", "alice-token", "")
	if status != http.StatusOK {
		t.Fatalf("expected undo 200, got %d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodDelete, "/v1/picks/gw-1", "alice-token", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for second undo, got %d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-2","team_id":"team-baliutd"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected re-pick after undo, got %d body=%v", status, body)
	}
}

func TestRouter_PickRejectionStatuses(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-1","team_id":"team-baliutd"}`)
	if status != http.StatusUnprocessableEntity || errorReason(t, body) != "invalidTeamForFixture" {
		t.Fatalf("expected invalidTeamForFixture, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-1","team_id":"team-persija","extra":true}`)
	if status != http.StatusBadRequest || errorReason(t, body) != "invalidInput" {
		t.Fatalf("expected invalidInput for unknown field, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-1"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing team, got status=%d body=%v", status, body)
	}
}

func TestRouter_TeamExhaustedAfterTwoUses(t *testing.T) {
	h := newAPIHarness(t)

	mustStatus := func(method, path, token, body string, want int) {
		t.Helper()
		status, out := h.do(t, method, path, token, body)
		if status != want {
			t.Fatalf("%s %s: expected %d, got %d body=%v", method, path, want, status, out)
		}
	}

	mustStatus(http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-1","team_id":"team-persija"}`, http.StatusCreated)
	mustStatus(http.MethodPost, "/v1/admin/gameweeks/advance", "admin-token", "", http.StatusOK)
	mustStatus(http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-2-2","team_id":"team-persija"}`, http.StatusCreated)
	mustStatus(http.MethodPost, "/v1/admin/gameweeks/advance", "admin-token", "", http.StatusOK)

	status, body := h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-3-1","team_id":"team-persija"}`)
	if status != http.StatusConflict || errorReason(t, body) != "teamExhausted" {
		t.Fatalf("expected teamExhausted, got status=%d body=%v", status, body)
	}
}

func TestRouter_AdminRoutesRequireAdmin(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/v1/admin/gameweeks/advance", "alice-token", "")
	if status != http.StatusForbidden || errorReason(t, body) != "forbidden" {
		t.Fatalf("expected forbidden, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodPost, "/v1/admin/gameweeks/current", "admin-token", `{"gameweek_id":"gw-3"}`)
	if status != http.StatusOK || dataObject(t, body)["number"] != float64(3) {
		t.Fatalf("expected gw-3 current, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodPost, "/v1/admin/gameweeks/current", "admin-token", `{"gameweek_id":"gw-99"}`)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown gameweek, got status=%d body=%v", status, body)
	}
}

func TestRouter_LeagueLifecycle(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/v1/leagues", "alice-token", `{"name":"Office League","is_public":false}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%v", status, body)
	}
	created := dataObject(t, body)
	leagueID, _ := created["id"].(string)
	inviteCode, _ := created["invite_code"].(string)
	if leagueID == "" || len(inviteCode) != 8 {
		t.Fatalf("unexpected league payload %v", created)
	}

	standingsPath := "/v1/leagues/" + leagueID + "/standings"
	status, body = h.do(t, http.MethodGet, standingsPath, "bob-token", "")
	if status != http.StatusForbidden {
		t.Fatalf("expected non-member 403, got %d body=%v", status, body)
	}

	joinBody := `{"invite_code":"` + strings.ToLower(inviteCode) + `"}`
	status, body = h.do(t, http.MethodPost, "/v1/leagues/join", "bob-token", joinBody)
	if status != http.StatusOK {
		t.Fatalf("expected join 200, got %d body=%v", status, body)
	}
	status, body = h.do(t, http.MethodPost, "/v1/leagues/join", "bob-token", joinBody)
	if status != http.StatusConflict {
		t.Fatalf("expected second join 409, got %d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, standingsPath, "bob-token", "")
	if status != http.StatusOK || len(dataList(t, body)) != 2 {
		t.Fatalf("expected two member rows, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/leagues/"+leagueID, "bob-token", "")
	if status != http.StatusOK || dataObject(t, body)["member_count"] != float64(2) {
		t.Fatalf("expected member_count 2, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodDelete, "/v1/leagues/"+leagueID+"/members/me", "alice-token", "")
	if status != http.StatusConflict {
		t.Fatalf("expected creator leave 409, got %d body=%v", status, body)
	}
	status, body = h.do(t, http.MethodDelete, "/v1/leagues/"+leagueID, "bob-token", "")
	if status != http.StatusForbidden {
		t.Fatalf("expected non-creator delete 403, got %d body=%v", status, body)
	}
	status, body = h.do(t, http.MethodDelete, "/v1/leagues/"+leagueID+"/members/me", "bob-token", "")
	if status != http.StatusOK {
		t.Fatalf("expected bob leave 200, got %d body=%v", status, body)
	}
	status, body = h.do(t, http.MethodDelete, "/v1/leagues/"+leagueID, "alice-token", "")
	if status != http.StatusOK {
		t.Fatalf("expected creator delete 200, got %d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/leagues/me", "alice-token", "")
	remaining, _ := body["data"].([]any)
	if status != http.StatusOK || len(remaining) != 0 {
		t.Fatalf("expected no leagues after delete, got status=%d body=%v", status, body)
	}
}

func TestRouter_JobRoutesRequireToken(t *testing.T) {
	h := newAPIHarness(t)

	status, _ := h.do(t, http.MethodPost, "/v1/internal/jobs/score", "", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", status)
	}

	status, body := h.do(t, http.MethodPost, "/v1/internal/jobs/dispatch", testJobToken, "")
	if status != http.StatusOK || dataObject(t, body)["queued_count"] != float64(3) {
		t.Fatalf("expected three queued jobs, got status=%d body=%v", status, body)
	}
}

func TestRouter_ScoreAndStandingsJobsFeedLeaderboard(t *testing.T) {
	h := newAPIHarness(t)

	status, body := h.do(t, http.MethodPost, "/v1/picks", "alice-token", `{"fixture_id":"fx-1-1","team_id":"team-persija"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected alice pick, got %d body=%v", status, body)
	}
	status, body = h.do(t, http.MethodPost, "/v1/picks", "bob-token", `{"fixture_id":"fx-1-1","team_id":"team-persib"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected bob pick, got %d body=%v", status, body)
	}

	fx, _, err := h.fixtures.GetByID(context.Background(), "fx-1-1")
	if err != nil {
		t.Fatalf("get fixture: %v", err)
	}
	home, away := 2, 0
	fx.Status = fixture.StatusFinished
	fx.HomeScore, fx.AwayScore = &home, &away
	if err := h.fixtures.UpsertMany(context.Background(), []fixture.Fixture{fx}); err != nil {
		t.Fatalf("finish fixture: %v", err)
	}

	status, body = h.do(t, http.MethodPost, "/v1/internal/jobs/score", testJobToken, `{"gameweek_id":"gw-1"}`)
	if status != http.StatusOK || dataObject(t, body)["rows_written"] != float64(2) {
		t.Fatalf("expected two score rows, got status=%d body=%v", status, body)
	}
	status, body = h.do(t, http.MethodPost, "/v1/internal/jobs/standings", testJobToken, "")
	if status != http.StatusOK {
		t.Fatalf("expected standings 200, got %d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/standings", "", "")
	rows := dataList(t, body)
	if status != http.StatusOK || len(rows) != 2 {
		t.Fatalf("expected two global rows, got status=%d body=%v", status, body)
	}
	first := rows[0].(map[string]any)
	if first["user_id"] != "alice" || first["rank"] != float64(1) || first["total_points"] != float64(3) {
		t.Fatalf("unexpected leader row %v", first)
	}

	status, body = h.do(t, http.MethodGet, "/v1/scores/me", "bob-token", "")
	scores := dataList(t, body)
	if status != http.StatusOK || len(scores) != 1 || scores[0].(map[string]any)["points"] != float64(0) {
		t.Fatalf("expected bob zero-point score, got status=%d body=%v", status, body)
	}

	status, body = h.do(t, http.MethodGet, "/v1/admin/jobs/events?job=score", "admin-token", "")
	if status != http.StatusOK || len(dataList(t, body)) == 0 {
		t.Fatalf("expected recorded score events, got status=%d body=%v", status, body)
	}
}

func TestRouter_OpenAPIServed(t *testing.T) {
	h := newAPIHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/picks/propose") {
		t.Fatalf("expected openapi document, got %d", rec.Code)
	}
}
