package gameweek

import (
	"testing"
	"time"
)

func TestGameweek_IsOpen_DeadlineIsExclusive(t *testing.T) {
	deadline := time.Date(2026, 8, 15, 11, 30, 0, 0, time.UTC)
	gw := Gameweek{ID: "gw1", Number: 1, Deadline: deadline}

	if !gw.IsOpen(deadline.Add(-time.Nanosecond)) {
		t.Fatalf("expected open just before deadline")
	}
	if gw.IsOpen(deadline) {
		t.Fatalf("expected closed exactly at deadline")
	}
}

func TestGameweek_Validate(t *testing.T) {
	tests := []struct {
		name    string
		gw      Gameweek
		wantErr bool
	}{
		{name: "valid", gw: Gameweek{ID: "gw1", Number: 1, Deadline: time.Now()}},
		{name: "missing id", gw: Gameweek{Number: 1, Deadline: time.Now()}, wantErr: true},
		{name: "number out of range", gw: Gameweek{ID: "gw39", Number: 39, Deadline: time.Now()}, wantErr: true},
		{name: "missing deadline", gw: Gameweek{ID: "gw1", Number: 1}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.gw.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
