package models

const (
	MinPosition = 1
	MaxPosition = 24
)

// Race is one Grand Prix. PlayerIDs are fixed at creation; Results maps a
// participant id to its finish position and stays partial until the race is complete.
type Race struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	PlayerIDs   []string       `json:"player_ids"`
	Results     map[string]int `json:"results"`
	IsCompleted bool           `json:"is_completed"`
}

func NewRace(id, name string, playerIDs []string) Race {
	return Race{
		ID:        id,
		Name:      name,
		PlayerIDs: append([]string{}, playerIDs...),
		Results:   map[string]int{},
	}
}

func (r Race) Clone() Race {
	out := r
	out.PlayerIDs = append([]string{}, r.PlayerIDs...)
	out.Results = make(map[string]int, len(r.Results))
	for id, pos := range r.Results {
		out.Results[id] = pos
	}
	return out
}

// HasParticipant reports whether playerID is part of the race.
func (r Race) HasParticipant(playerID string) bool {
	for _, id := range r.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Complete reports whether every participant has a recorded position.
func (r Race) Complete() bool {
	if len(r.PlayerIDs) == 0 {
		return false
	}
	for _, id := range r.PlayerIDs {
		if _, ok := r.Results[id]; !ok {
			return false
		}
	}
	return true
}

// AllComplete reports whether every race in the list is complete. An empty list is not.
func AllComplete(races []Race) bool {
	if len(races) == 0 {
		return false
	}
	for _, r := range races {
		if !r.IsCompleted {
			return false
		}
	}
	return true
}

// CountCompleted returns how many races in the list are complete.
func CountCompleted(races []Race) int {
	n := 0
	for _, r := range races {
		if r.IsCompleted {
			n++
		}
	}
	return n
}
