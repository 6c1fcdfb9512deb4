package team

import "fmt"

// Team is a club in the catalog. Rows are written only by catalog sync.
type Team struct {
	ID            string
	Name          string
	ShortCode     string
	Color         string
	LogoURL       string
	ExternalRefID int64
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.ShortCode == "" {
		return fmt.Errorf("team short code is required")
	}

	return nil
}
