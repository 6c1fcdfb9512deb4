package league

import "testing"

func TestLeague_HasRoomFor(t *testing.T) {
	capped := 3
	l := League{MaxMembers: &capped}
	if !l.HasRoomFor(2) {
		t.Fatalf("expected room with 2 of 3 members")
	}
	if l.HasRoomFor(3) {
		t.Fatalf("expected full league at 3 of 3")
	}
	if !(League{}).HasRoomFor(10_000) {
		t.Fatalf("expected uncapped league to always have room")
	}
}

func TestLeague_Validate(t *testing.T) {
	one := 1
	base := League{ID: "lg1", Name: "Office Pool", CreatorUserID: "u1", InviteCode: "ABCD2345"}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid league: %v", err)
	}

	short := base
	short.Name = "ab"
	if err := short.Validate(); err == nil {
		t.Fatalf("expected short name error")
	}

	tiny := base
	tiny.MaxMembers = &one
	if err := tiny.Validate(); err == nil {
		t.Fatalf("expected member cap error")
	}
}

func TestNormalizeInviteCode(t *testing.T) {
	if got := NormalizeInviteCode("  abcd2345 "); got != "ABCD2345" {
		t.Fatalf("unexpected code: %q", got)
	}
}
