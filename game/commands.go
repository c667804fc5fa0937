package game

import "github.com/thullagame/thulla/cards"

// Command represents a room action that can be submitted for processing.
type Command interface {
	CommandName() string
}

// StartGameCommand begins a game with the lobby's fixed participant list.
type StartGameCommand struct {
	RoomID string `json:"roomId"`
	Seats  []Seat `json:"seats"`
}

func (c StartGameCommand) CommandName() string { return "start-game" }

// PlayCardCommand plays one card for a player.
type PlayCardCommand struct {
	RoomID   string     `json:"roomId"`
	PlayerID string     `json:"playerId"`
	Card     cards.Card `json:"card"`
}

func (c PlayCardCommand) CommandName() string { return "play-card" }

// ResolveTrickCommand consumes a completed or thulla'd trick. Scheduled
// internally after the presentation delay; clients never submit it.
type ResolveTrickCommand struct {
	RoomID string `json:"roomId"`
}

func (c ResolveTrickCommand) CommandName() string { return "resolve-trick" }

// RestartCommand resets the room to waiting and discards all state.
type RestartCommand struct {
	RoomID string `json:"roomId"`
}

func (c RestartCommand) CommandName() string { return "restart" }
