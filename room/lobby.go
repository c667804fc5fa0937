package room

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/thullagame/thulla/cards"
	"github.com/thullagame/thulla/game"
)

// Lobby assembles a room's roster before the game starts. Joining players
// claim the lowest free seat; bots fill in on demand. The roster survives a
// restart so the same table can play again.
type Lobby struct {
	mu    sync.Mutex
	seats []game.Seat
}

// IsSeated checks if a player already holds a seat.
func (l *Lobby) IsSeated(playerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.seats {
		if s.ID == playerID {
			return true
		}
	}
	return false
}

// Join seats a player at the lowest free position.
func (l *Lobby) Join(playerID, name string) (game.Seat, error) {
	if playerID == "" {
		return game.Seat{}, errors.New("player id is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.seats {
		if s.ID == playerID {
			return game.Seat{}, fmt.Errorf("player %s is already seated", playerID)
		}
	}
	if len(l.seats) >= cards.MaxPlayers {
		return game.Seat{}, errors.New("the table is full")
	}

	if name == "" {
		name = playerID
	}
	seat := game.Seat{ID: playerID, Name: name, Seat: l.nextFreePosition()}
	l.seats = append(l.seats, seat)
	return seat, nil
}

// AddBot seats a bot at the lowest free position.
func (l *Lobby) AddBot(name string) (game.Seat, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.seats) >= cards.MaxPlayers {
		return game.Seat{}, errors.New("the table is full")
	}

	pos := l.nextFreePosition()
	if name == "" {
		name = fmt.Sprintf("Bot %d", pos+1)
	}
	seat := game.Seat{ID: uuid.NewString(), Name: name, Seat: pos, IsBot: true}
	l.seats = append(l.seats, seat)
	return seat, nil
}

// Leave frees a player's seat.
func (l *Lobby) Leave(playerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range l.seats {
		if s.ID == playerID {
			l.seats = append(l.seats[:i], l.seats[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("player %s is not seated", playerID)
}

// Roster returns the seated players in seat order.
func (l *Lobby) Roster() []game.Seat {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]game.Seat, len(l.seats))
	copy(out, l.seats)
	return out
}

func (l *Lobby) nextFreePosition() int {
	taken := make(map[int]bool, len(l.seats))
	for _, s := range l.seats {
		taken[s.Seat] = true
	}
	for pos := 0; ; pos++ {
		if !taken[pos] {
			return pos
		}
	}
}
