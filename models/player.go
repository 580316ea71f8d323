package models

import "time"

// Player is a registered racer. Score, RacesPlayed and Positions are derived from
// championship race results and are recomputed, never edited directly.
type Player struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	GamerTag    string    `json:"gamer_tag"`
	Score       int       `json:"score"`
	RacesPlayed int       `json:"races_played"`
	Positions   []int     `json:"positions"` // история позиций в порядке списка гонок
	CreatedAt   time.Time `json:"created_at"`
}

func (p Player) Clone() Player {
	out := p
	out.Positions = append([]int{}, p.Positions...)
	return out
}
