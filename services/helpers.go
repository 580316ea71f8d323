package services

import (
	"context"
	"time"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/models"
	"github.com/Zanziz/MK-project/storage"
)

const archiveTimeout = 30 * time.Second

// Broadcaster fans messages out to live clients. *brackets.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// StateArchiver writes point-in-time copies of the state. *storage.Archiver implements it.
type StateArchiver interface {
	Archive(ctx context.Context, reason string, state models.TournamentState) (*storage.ArchiveResult, error)
}

func stateMessage(msgType string, state models.TournamentState) brackets.WebSocketMessage {
	return brackets.WebSocketMessage{
		Type:    msgType,
		Payload: state,
		RoomID:  brackets.TournamentRoom,
	}
}

func findRace(s models.TournamentState, raceID string) (models.Race, bool) {
	lists := [][]models.Race{
		s.ChampionshipRaces,
		s.SemiFinals.Session1.Races,
		s.SemiFinals.Session2.Races,
		s.FinalRaces,
	}
	for _, races := range lists {
		for _, r := range races {
			if r.ID == raceID {
				return r.Clone(), true
			}
		}
	}
	return models.Race{}, false
}

var (
	_ Broadcaster   = (*brackets.Hub)(nil)
	_ StateArchiver = (*storage.Archiver)(nil)
)
