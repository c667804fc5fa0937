package room

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/sanity-io/litter"
	"github.com/thullagame/thulla/events"
	"github.com/thullagame/thulla/game"
	"github.com/thullagame/thulla/store"
)

// ErrClosed is returned for submissions to a room whose loop has stopped.
var ErrClosed = errors.New("room is closed")

// request pairs a command with its synchronous reply channel.
type request struct {
	cmd   game.Command
	reply chan error
}

// botTurn asks the loop to compute and commit the current bot's play. It is
// only ever produced by the think timer.
type botTurn struct{}

func (botTurn) CommandName() string { return "bot-turn" }

// Room owns one game and serializes every action for it through a single
// loop: one command is fully applied, including trick resolution, before the
// next is accepted. Different rooms share nothing and run in parallel.
type Room struct {
	ID     string
	engine *game.Engine
	rules  game.Rules
	lobby  Lobby

	cmds   chan request
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	thinker  game.ThinkTimer
	resolver game.ThinkTimer
	rng      *rand.Rand

	snapshots store.SnapshotStore
	debug     bool
}

// New creates a room around an existing engine. A nil snapshot store
// disables persistence.
func New(id string, engine *game.Engine, rules game.Rules, snapshots store.SnapshotStore, debug bool) *Room {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Room{
		ID:        id,
		engine:    engine,
		rules:     rules,
		cmds:      make(chan request, 32),
		ctx:       ctx,
		cancel:    cancel,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		snapshots: snapshots,
		debug:     debug,
	}

	if debug {
		engine.RegisterHandler(func(rec events.Record) {
			log.Printf("room %s event #%d %s", id, rec.Seq, rec.Event.EventName())
			litter.D(rec.Event)
		})
	}

	return r
}

// Start begins processing commands. A room restored mid-game resumes its
// pending bot turn or trick resolution here.
func (r *Room) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.afterCommand()
		r.runLoop()
	}()
}

// Stop shuts the room down, cancelling any pending bot or resolution timer
// without committing its action.
func (r *Room) Stop() {
	r.thinker.Stop()
	r.resolver.Stop()
	r.cancel()
	r.wg.Wait()
}

// OnEvent registers a handler for the room's authoritative events.
func (r *Room) OnEvent(handler events.Handler) {
	r.engine.RegisterHandler(handler)
}

// Snapshot returns the current full room state.
func (r *Room) Snapshot() game.Snapshot {
	return r.engine.Snapshot()
}

// Join seats a player in the room's lobby. Already-seated players rejoin
// silently, so a reconnect is not an error.
func (r *Room) Join(playerID, name string) error {
	if r.lobby.IsSeated(playerID) {
		return nil
	}
	_, err := r.lobby.Join(playerID, name)
	return err
}

// AddBot seats a bot in the room's lobby.
func (r *Room) AddBot(name string) error {
	_, err := r.lobby.AddBot(name)
	return err
}

// Roster returns the lobby's seated players.
func (r *Room) Roster() []game.Seat {
	return r.lobby.Roster()
}

// Submit sends a command to the room loop and waits for its synchronous
// accept/reject result.
func (r *Room) Submit(ctx context.Context, cmd game.Command) error {
	req := request{cmd: cmd, reply: make(chan error, 1)}
	select {
	case r.cmds <- req:
	case <-r.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-r.ctx.Done():
		return ErrClosed
	}
}

// submitInternal queues a loop-generated command, dropping it on shutdown.
func (r *Room) submitInternal(cmd game.Command) {
	req := request{cmd: cmd, reply: make(chan error, 1)}
	select {
	case r.cmds <- req:
	case <-r.ctx.Done():
	}
}

func (r *Room) runLoop() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case req := <-r.cmds:
			err := r.handleCommand(req.cmd)
			req.reply <- err
			r.afterCommand()
		}
	}
}

func (r *Room) handleCommand(cmd game.Command) error {
	switch c := cmd.(type) {
	case game.StartGameCommand:
		seats := c.Seats
		if len(seats) == 0 {
			seats = r.lobby.Roster()
		}
		return r.engine.StartGame(seats)
	case game.PlayCardCommand:
		return r.engine.PlayCard(c.PlayerID, c.Card)
	case game.ResolveTrickCommand:
		return r.engine.ResolveTrick()
	case game.RestartCommand:
		r.thinker.Stop()
		r.resolver.Stop()
		return r.engine.Restart()
	case botTurn:
		return r.playBotTurn()
	default:
		return errors.New("unknown command " + cmd.CommandName())
	}
}

// playBotTurn picks and commits a card for the bot whose turn it is. The
// policy's choice is re-validated; an illegal choice falls back to the
// lowest legal card rather than being trusted.
func (r *Room) playBotTurn() error {
	turn, ok := r.engine.Turn()
	if !ok || !turn.IsBot {
		// Stale wakeup; the turn moved on before the timer fired.
		return nil
	}

	card, ok := game.ChooseCard(turn.Hand, turn.ActiveSuit, turn.FirstTrick)
	if !ok || !game.CanPlay(card, turn.Hand, turn.ActiveSuit, turn.FirstTrick) {
		card, ok = game.FallbackCard(turn.Hand, turn.ActiveSuit, turn.FirstTrick)
		if !ok {
			log.Printf("room %s: bot %s has no legal play", r.ID, turn.PlayerID)
			return nil
		}
	}

	if err := r.engine.PlayCard(turn.PlayerID, card); err != nil {
		log.Printf("room %s: bot %s play rejected: %v", r.ID, turn.PlayerID, err)
		return err
	}
	return nil
}

// afterCommand schedules whatever the new state calls for: trick resolution
// after the presentation delay, a bot's think timer, and a state snapshot.
func (r *Room) afterCommand() {
	switch r.engine.Status() {
	case game.StatusThullaPending, game.StatusTrickResolving:
		r.resolver.Schedule(r.rules.ResolveDelay, func() {
			r.submitInternal(game.ResolveTrickCommand{RoomID: r.ID})
		})
	case game.StatusPlaying:
		if turn, ok := r.engine.Turn(); ok && turn.IsBot {
			r.thinker.Schedule(game.ThinkDelay(r.rng, r.rules.BotSpeed), func() {
				r.submitInternal(botTurn{})
			})
		}
	}

	r.persist()
}

func (r *Room) persist() {
	if r.snapshots == nil {
		return
	}
	snap := r.engine.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.snapshots.Save(ctx, r.ID, snap); err != nil {
		log.Printf("room %s: snapshot save failed: %v", r.ID, err)
	}
}
