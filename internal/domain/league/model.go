package league

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	InviteCodeLength = 8
	MinNameLength    = 3
	MaxNameLength    = 64
	MaxMembersLimit  = 500
)

var (
	ErrLeagueFull    = errors.New("league is full")
	ErrAlreadyMember = errors.New("user is already a league member")
)

// League is a private or public grouping of users with its own leaderboard.
type League struct {
	ID            string
	Name          string
	CreatorUserID string
	MaxMembers    *int
	IsPublic      bool
	InviteCode    string
	CreatedAt     time.Time
}

type Member struct {
	LeagueID string
	UserID   string
	JoinedAt time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	name := strings.TrimSpace(l.Name)
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return fmt.Errorf("league name must be %d-%d characters", MinNameLength, MaxNameLength)
	}
	if l.CreatorUserID == "" {
		return fmt.Errorf("league creator is required")
	}
	if len(l.InviteCode) != InviteCodeLength {
		return fmt.Errorf("league invite code must be %d characters", InviteCodeLength)
	}
	if l.MaxMembers != nil && (*l.MaxMembers < 2 || *l.MaxMembers > MaxMembersLimit) {
		return fmt.Errorf("league max members must be between 2 and %d", MaxMembersLimit)
	}

	return nil
}

// HasRoomFor reports whether a league with memberCount members can take one more.
func (l League) HasRoomFor(memberCount int) bool {
	return l.MaxMembers == nil || memberCount < *l.MaxMembers
}

func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
