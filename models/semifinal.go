package models

// SemiFinalSession is one of the two seeded semi-final mini-brackets.
type SemiFinalSession struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	PlayerIDs        []string `json:"player_ids"`
	Races            []Race   `json:"races"`
	ManualQualifiers []string `json:"manual_qualifiers"` // выбираются администратором, максимум 2
}

func NewSemiFinalSession(id, name string) SemiFinalSession {
	return SemiFinalSession{
		ID:               id,
		Name:             name,
		PlayerIDs:        []string{},
		Races:            []Race{},
		ManualQualifiers: []string{},
	}
}

func (s SemiFinalSession) Clone() SemiFinalSession {
	out := s
	out.PlayerIDs = append([]string{}, s.PlayerIDs...)
	out.Races = cloneRaces(s.Races)
	out.ManualQualifiers = append([]string{}, s.ManualQualifiers...)
	return out
}

func (s SemiFinalSession) HasPlayer(playerID string) bool {
	for _, id := range s.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (s SemiFinalSession) IsQualifier(playerID string) bool {
	for _, id := range s.ManualQualifiers {
		if id == playerID {
			return true
		}
	}
	return false
}
