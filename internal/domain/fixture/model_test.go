package fixture

import "testing"

func intPtr(v int) *int { return &v }

func TestFixture_GoalsFor(t *testing.T) {
	f := Fixture{
		ID:         "fx1",
		GameweekID: "gw1",
		HomeTeamID: "ARS",
		AwayTeamID: "CHE",
		Status:     StatusFinished,
		HomeScore:  intPtr(2),
		AwayScore:  intPtr(1),
	}

	scored, conceded, ok := f.GoalsFor("CHE")
	if !ok || scored != 1 || conceded != 2 {
		t.Fatalf("unexpected away goals: %d-%d ok=%v", scored, conceded, ok)
	}
	if _, _, ok := f.GoalsFor("LIV"); ok {
		t.Fatalf("expected team outside fixture to be rejected")
	}

	f.Status = StatusLive
	if _, _, ok := f.GoalsFor("ARS"); ok {
		t.Fatalf("expected live fixture to have no final goals")
	}
}

func TestFixture_Validate(t *testing.T) {
	base := Fixture{ID: "fx1", GameweekID: "gw1", HomeTeamID: "ARS", AwayTeamID: "CHE", Status: StatusScheduled}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid fixture: %v", err)
	}

	same := base
	same.AwayTeamID = "ARS"
	if err := same.Validate(); err == nil {
		t.Fatalf("expected error for identical teams")
	}

	finished := base
	finished.Status = StatusFinished
	finished.HomeScore = intPtr(1)
	if err := finished.Validate(); err == nil {
		t.Fatalf("expected error for finished fixture without away score")
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]Status{
		"FT":              StatusFinished,
		" aet ":           StatusFinished,
		"INPLAY_1ST_HALF": StatusLive,
		"HT":              StatusLive,
		"NS":              StatusScheduled,
		"":                StatusScheduled,
	}
	for raw, want := range tests {
		if got := NormalizeStatus(raw); got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}
