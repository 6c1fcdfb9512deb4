package sportmonks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/riskibarqy/pickem-league/internal/platform/resilience"
	"github.com/riskibarqy/pickem-league/internal/usecase"
)

const scheduleBody = `{"data":[{"rounds":[
 {"id":501,"name":"1","fixtures":[
  {"id":9001,"starting_at":"2026-08-08 12:00:00","participants":[
   {"id":11,"name":"Persija","meta":{"location":"home"}},
   {"id":22,"name":"Persib","meta":{"location":"away"}}]},
  {"id":9002,"starting_at":"2026-08-09 12:00:00","participants":[
   {"id":33,"name":"Persebaya","meta":{"location":"home"}},
   {"id":44,"name":"Bali United","meta":{"location":"away"}}]}]},
 {"id":502,"name":"Regular Season - 2","fixtures":[]},
 {"id":503,"name":"Play-offs","fixtures":[]}
]}]}`

const fixturesBody = `{"data":[
 {"id":9001,"starting_at":"2026-08-08 12:30:00","state_id":5,"result_info":"Persija won after full-time.",
  "participants":[{"id":11,"meta":{"location":"home"}},{"id":22,"meta":{"location":"away"}}],
  "scores":[
   {"participant_id":11,"description":"1ST_HALF","score":{"goals":0,"participant":"home"}},
   {"participant_id":22,"description":"1ST_HALF","score":{"goals":1,"participant":"away"}},
   {"participant_id":11,"description":"CURRENT","score":{"goals":2,"participant":"home"}},
   {"participant_id":22,"description":"CURRENT","score":{"goals":1,"participant":"away"}}]},
 {"id":9002,"starting_at":"2026-08-09 12:00:00","state_id":1,"scores":[]}
]}`

func newProviderServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("api_token") != "sm-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/teams/seasons/77":
			_, _ = w.Write([]byte(`{"data":[{"id":22,"name":"Persib Bandung","short_code":"psb"},{"id":11,"name":"Persija Jakarta","short_code":"PSJ","image_path":"https://cdn/psj.png"},{"id":0,"name":"ghost"}]}`))
		case r.URL.Path == "/schedules/seasons/77":
			_, _ = w.Write([]byte(scheduleBody))
		case strings.HasPrefix(r.URL.Path, "/fixtures/multi/"):
			if r.URL.Path != "/fixtures/multi/9001,9002" {
				t.Errorf("unexpected multi path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(fixturesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(baseURL string, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Token:          "sm-token",
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		RetryBackoff:   time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClient_FetchTeams(t *testing.T) {
	var calls atomic.Int32
	srv := newProviderServer(t, &calls)
	defer srv.Close()

	teams, err := newTestClient(srv.URL, 0, resilience.CircuitBreakerConfig{}).FetchTeams(context.Background(), 77)
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %+v", teams)
	}
	if teams[0].ExternalID != 11 || teams[0].LogoURL != "https://cdn/psj.png" {
		t.Fatalf("unexpected first team: %+v", teams[0])
	}
	if teams[1].ShortCode != "PSB" {
		t.Fatalf("expected upper-cased short code, got %q", teams[1].ShortCode)
	}
}

func TestClient_FetchRounds(t *testing.T) {
	var calls atomic.Int32
	srv := newProviderServer(t, &calls)
	defer srv.Close()

	rounds, err := newTestClient(srv.URL, 0, resilience.CircuitBreakerConfig{}).FetchRounds(context.Background(), 77)
	if err != nil {
		t.Fatalf("fetch rounds: %v", err)
	}
	want := []usecase.ExternalRound{{ExternalID: 501, Number: 1}, {ExternalID: 502, Number: 2}}
	if len(rounds) != len(want) {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}
	for i := range want {
		if rounds[i] != want[i] {
			t.Fatalf("round %d: got %+v want %+v", i, rounds[i], want[i])
		}
	}
}

func TestClient_FetchFixtures(t *testing.T) {
	var calls atomic.Int32
	srv := newProviderServer(t, &calls)
	defer srv.Close()

	fixtures, err := newTestClient(srv.URL, 0, resilience.CircuitBreakerConfig{}).FetchFixtures(context.Background(), 77)
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got %+v", fixtures)
	}

	finished := fixtures[0]
	if finished.ExternalID != 9001 || finished.Status != statusFinished || finished.RoundNumber != 1 {
		t.Fatalf("unexpected finished fixture: %+v", finished)
	}
	if finished.HomeScore == nil || finished.AwayScore == nil || *finished.HomeScore != 2 || *finished.AwayScore != 1 {
		t.Fatalf("expected CURRENT score 2-1, got %v-%v", finished.HomeScore, finished.AwayScore)
	}
	if !finished.KickoffTime.Equal(time.Date(2026, 8, 8, 12, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected kickoff from details, got %v", finished.KickoffTime)
	}

	scheduled := fixtures[1]
	if scheduled.Status != statusScheduled || scheduled.HomeScore != nil || scheduled.HomeTeamExternalID != 33 {
		t.Fatalf("unexpected scheduled fixture: %+v", scheduled)
	}
}

func TestClient_RejectsInvalidSeason(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", 0, resilience.CircuitBreakerConfig{})
	if _, err := c.FetchRounds(context.Background(), 0); err == nil {
		t.Fatalf("expected error for season 0")
	}
}

func TestClient_RetriesThenOpensCircuit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	if _, err := c.FetchTeams(context.Background(), 77); err == nil {
		t.Fatalf("expected provider failure")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}

	_, err := c.FetchTeams(context.Background(), 77)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable from open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must not call upstream, got %d calls", calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad include"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3, resilience.CircuitBreakerConfig{})
	_, err := c.FetchTeams(context.Background(), 77)
	if err == nil || !strings.Contains(err.Error(), "status=400") {
		t.Fatalf("expected status 400 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestRedactAPIURL(t *testing.T) {
	got := redactAPIURL("https://api.sportmonks.com/v3/football/teams?api_token=secret&include=x")
	if strings.Contains(got, "secret") {
		t.Fatalf("token leaked: %s", got)
	}
}

func TestMapFixtureStatus(t *testing.T) {
	cases := []struct {
		stateID int64
		info    string
		want    string
	}{
		{5, "", statusFinished},
		{3, "", statusLive},
		{10, "", statusScheduled},
		{0, "Game postponed", statusScheduled},
		{0, "Match ended in draw", statusFinished},
	}
	for _, tc := range cases {
		if got := mapFixtureStatus(tc.stateID, tc.info); got != tc.want {
			t.Fatalf("state=%d info=%q: got %s want %s", tc.stateID, tc.info, got, tc.want)
		}
	}
}
