package models

import "time"

// Phase представляет текущий этап турнира.
type Phase string

const (
	PhaseRegistration Phase = "REGISTRATION"
	PhaseChampionship Phase = "CHAMPIONSHIP"
	PhaseSemiFinals   Phase = "SEMI_FINALS"
	PhaseFinals       Phase = "FINALS"
	PhaseCompleted    Phase = "COMPLETED"
)

const (
	MaxPlayers         = 50
	MinPlayers         = 4
	QualifierCount     = 8
	SessionQualifiers  = 2
	SemiFinalRaceCount = 2
	FinalRaceCount     = 3

	SessionAID = "s1"
	SessionBID = "s2"
)

// SemiFinals holds the two seeded semi-final sessions.
type SemiFinals struct {
	Session1 SemiFinalSession `json:"session1"`
	Session2 SemiFinalSession `json:"session2"`
}

// TournamentState is the whole tournament, persisted as a single document.
// It is only ever replaced as a whole: transitions take a state and return a new one.
type TournamentState struct {
	Phase             Phase      `json:"phase"`
	Players           []Player   `json:"players"`
	ChampionshipRaces []Race     `json:"championship_races"`
	SemiFinals        SemiFinals `json:"semi_finals"`
	FinalRaces        []Race     `json:"final_races"`
	Version           int64      `json:"version"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewTournamentState returns the empty initial state.
func NewTournamentState() TournamentState {
	return TournamentState{
		Phase:             PhaseRegistration,
		Players:           []Player{},
		ChampionshipRaces: []Race{},
		SemiFinals: SemiFinals{
			Session1: NewSemiFinalSession(SessionAID, "Semi-Final A"),
			Session2: NewSemiFinalSession(SessionBID, "Semi-Final B"),
		},
		FinalRaces: []Race{},
	}
}

// Clone returns a deep copy so a transition never aliases the state it was given.
func (s TournamentState) Clone() TournamentState {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.Clone()
	}
	out.ChampionshipRaces = cloneRaces(s.ChampionshipRaces)
	out.SemiFinals.Session1 = s.SemiFinals.Session1.Clone()
	out.SemiFinals.Session2 = s.SemiFinals.Session2.Clone()
	out.FinalRaces = cloneRaces(s.FinalRaces)
	return out
}

// Session returns a pointer to the session with the given id inside s.
func (s *TournamentState) Session(sessionID string) *SemiFinalSession {
	switch sessionID {
	case s.SemiFinals.Session1.ID:
		return &s.SemiFinals.Session1
	case s.SemiFinals.Session2.ID:
		return &s.SemiFinals.Session2
	}
	return nil
}

// Player returns the registered player with the given id.
func (s *TournamentState) Player(playerID string) (*Player, bool) {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return &s.Players[i], true
		}
	}
	return nil, false
}

func cloneRaces(races []Race) []Race {
	out := make([]Race, len(races))
	for i, r := range races {
		out[i] = r.Clone()
	}
	return out
}
