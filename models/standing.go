package models

// Standing is one computed leaderboard row.
type Standing struct {
	Rank         int    `json:"rank"`
	PlayerID     string `json:"player_id"`
	FirstName    string `json:"first_name"`
	GamerTag     string `json:"gamer_tag"`
	Score        int    `json:"score"`
	RacesPlayed  int    `json:"races_played"`
	Positions    []int  `json:"positions"`
	BestPosition int    `json:"best_position"`
	Qualifying   bool   `json:"qualifying,omitempty"`
}

// Leaderboard groups the standings of every phase.
type Leaderboard struct {
	Phase          Phase      `json:"phase"`
	CompletedRaces int        `json:"completed_races"`
	TotalRaces     int        `json:"total_races"`
	Championship   []Standing `json:"championship"`
	SemiFinalA     []Standing `json:"semi_final_a"`
	SemiFinalB     []Standing `json:"semi_final_b"`
	Final          []Standing `json:"final"`
	Champion       *Standing  `json:"champion,omitempty"`
}
