package sportmonks

type teamsEnvelope struct {
	Data []teamItem `json:"data"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
	ImagePath string `json:"image_path"`
}

type scheduleEnvelope struct {
	Data []scheduleStage `json:"data"`
}

type scheduleStage struct {
	Rounds []scheduleRound `json:"rounds"`
}

type scheduleRound struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Fixtures []scheduleFixture `json:"fixtures"`
}

type scheduleFixture struct {
	ID           int64         `json:"id"`
	StartingAt   string        `json:"starting_at"`
	Participants []participant `json:"participants"`
}

type participant struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Meta participantMeta `json:"meta"`
}

type participantMeta struct {
	Location string `json:"location"`
}

type fixturesEnvelope struct {
	Data []fixtureDetails `json:"data"`
}

type fixtureDetails struct {
	ID           int64         `json:"id"`
	StartingAt   string        `json:"starting_at"`
	StateID      int64         `json:"state_id"`
	ResultInfo   string        `json:"result_info"`
	Participants []participant `json:"participants"`
	Scores       []scoreItem   `json:"scores"`
}

type scoreItem struct {
	ParticipantID int64      `json:"participant_id"`
	Description   string     `json:"description"`
	Score         scoreValue `json:"score"`
}

type scoreValue struct {
	Goals       *int   `json:"goals"`
	Participant string `json:"participant"`
}
