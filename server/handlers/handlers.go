package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/thullagame/thulla/cards"
	"github.com/thullagame/thulla/game"
	"github.com/thullagame/thulla/room"
	"github.com/thullagame/thulla/server/connection"
)

// Client-facing command payloads. Cards travel as shorthand ("5h", "A♠").

// JoinRoom identifies the connection and subscribes it to a room's events.
type JoinRoom struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

func (JoinRoom) Name() string { return "join-room" }

// AddBot seats a bot in the room's lobby.
type AddBot struct {
	RoomID  string `json:"roomId"`
	BotName string `json:"name"`
}

func (AddBot) Name() string { return "add-bot" }

// StartGame begins the game. Without an explicit seat list the room's lobby
// roster plays.
type StartGame struct {
	RoomID string      `json:"roomId"`
	Seats  []game.Seat `json:"seats,omitempty"`
}

func (StartGame) Name() string { return "start-game" }

// PlayCard plays one card.
type PlayCard struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Card     string `json:"card"`
}

func (PlayCard) Name() string { return "play-card" }

// Restart resets the room.
type Restart struct {
	RoomID string `json:"roomId"`
}

func (Restart) Name() string { return "restart" }

// Resync asks for the full authoritative state, redacted for the requester.
type Resync struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

func (Resync) Name() string { return "resync" }

// rejection is sent back to the acting client when a command is refused.
type rejection struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// CommandRouter routes incoming client commands to the appropriate room.
type CommandRouter struct {
	registry *room.Registry
	connMgr  *connection.Manager
}

// NewCommandRouter creates a new command router
func NewCommandRouter(registry *room.Registry, connMgr *connection.Manager) *CommandRouter {
	return &CommandRouter{
		registry: registry,
		connMgr:  connMgr,
	}
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return err
	}

	switch baseCmd.Name {
	case JoinRoom{}.Name():
		var cmd JoinRoom
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleJoinRoom(client, cmd)

	case AddBot{}.Name():
		var cmd AddBot
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleAddBot(client, cmd)

	case StartGame{}.Name():
		var cmd StartGame
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.submit(client, cmd.Name(), cmd.RoomID, game.StartGameCommand{RoomID: cmd.RoomID, Seats: cmd.Seats})

	case PlayCard{}.Name():
		var cmd PlayCard
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		card, err := cards.CardFromString(cmd.Card)
		if err != nil {
			r.reject(client, cmd.Name(), "invalid-card", err.Error())
			return nil
		}
		return r.submit(client, cmd.Name(), cmd.RoomID, game.PlayCardCommand{RoomID: cmd.RoomID, PlayerID: cmd.PlayerID, Card: card})

	case Restart{}.Name():
		var cmd Restart
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.submit(client, cmd.Name(), cmd.RoomID, game.RestartCommand{RoomID: cmd.RoomID})

	case Resync{}.Name():
		var cmd Resync
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleResync(client, cmd)

	default:
		log.Println("unknown command type", baseCmd.Name)
		return errors.New("unknown command type")
	}
}

func (r *CommandRouter) handleJoinRoom(client *connection.Client, cmd JoinRoom) error {
	rm, ok := r.registry.Get(cmd.RoomID)
	if !ok {
		r.reject(client, cmd.Name(), "room-not-found", cmd.RoomID)
		return nil
	}

	if err := rm.Join(cmd.PlayerID, cmd.PlayerName); err != nil {
		r.reject(client, cmd.Name(), "cannot-join", err.Error())
		return nil
	}

	if client.PlayerID == "" {
		client.PlayerID = cmd.PlayerID
		r.connMgr.BindPlayer(client.ID, cmd.PlayerID)
	}
	r.connMgr.AddRoomToClient(client.ID, cmd.RoomID)
	return nil
}

func (r *CommandRouter) handleAddBot(client *connection.Client, cmd AddBot) error {
	rm, ok := r.registry.Get(cmd.RoomID)
	if !ok {
		r.reject(client, cmd.Name(), "room-not-found", cmd.RoomID)
		return nil
	}

	if err := rm.AddBot(cmd.BotName); err != nil {
		r.reject(client, cmd.Name(), "cannot-add-bot", err.Error())
		return nil
	}
	return nil
}

func (r *CommandRouter) handleResync(client *connection.Client, cmd Resync) error {
	rm, ok := r.registry.Get(cmd.RoomID)
	if !ok {
		r.reject(client, cmd.Name(), "room-not-found", cmd.RoomID)
		return nil
	}

	snap := rm.Snapshot().RedactFor(cmd.PlayerID)
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	reply, err := json.Marshal(map[string]json.RawMessage{
		"name":    json.RawMessage(`"STATE_SNAPSHOT"`),
		"payload": payload,
	})
	if err != nil {
		return err
	}
	r.connMgr.SendToClient(client.ID, reply)
	return nil
}

// submit forwards a command to its room and reports a rejection back to the
// acting client. Rejections mutate nothing and broadcast nothing.
func (r *CommandRouter) submit(client *connection.Client, action, roomID string, cmd game.Command) error {
	rm, ok := r.registry.Get(roomID)
	if !ok {
		r.reject(client, action, "room-not-found", roomID)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := rm.Submit(ctx, cmd)
	if err == nil {
		return nil
	}

	var validation *game.ValidationError
	var state *game.StateError
	var integrity *game.IntegrityError
	switch {
	case errors.As(err, &validation):
		r.reject(client, action, string(validation.Reason), validation.Detail)
	case errors.As(err, &state):
		r.reject(client, action, "invalid-state", err.Error())
	case errors.As(err, &integrity):
		// Never leak integrity details to end users.
		r.reject(client, action, "game-error", "game error, please refresh or rejoin")
	default:
		r.reject(client, action, "error", err.Error())
	}
	return nil
}

func (r *CommandRouter) reject(client *connection.Client, action, reason, detail string) {
	payload, err := json.Marshal(rejection{Action: action, Reason: reason, Detail: detail})
	if err != nil {
		return
	}
	msg, err := json.Marshal(map[string]json.RawMessage{
		"name":    json.RawMessage(`"ACTION_REJECTED"`),
		"payload": payload,
	})
	if err != nil {
		return
	}
	if !r.connMgr.SendToClient(client.ID, msg) {
		log.Printf("could not deliver rejection to client %s: %s", client.ID, fmt.Sprintf("%s/%s", action, reason))
	}
}
